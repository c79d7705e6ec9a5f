package mahjong

import (
	"errors"
	"fmt"
)

// 牌与记法
var (
	ErrInvalidTile = errors.New("invalid tile")
	ErrNotation    = errors.New("malformed tile notation")
)

// 手牌不变量
var (
	ErrTileOverflow     = errors.New("tile count exceeds four copies")
	ErrTileUnderflow    = errors.New("tile not held")
	ErrRedFive          = errors.New("red five count exceeds rank five count")
	ErrInconsistentMeld = errors.New("meld inconsistent with held tiles")
	ErrReachNotAllowed  = errors.New("reach not allowed")
	ErrNoDrawnTile      = errors.New("hand has no drawn tile")
)

// 牌山与牌河
var (
	ErrWallExhausted = errors.New("wall exhausted")
	ErrNoReplacement = errors.New("no replacement tile left")
	ErrSnapshot      = errors.New("invalid wall snapshot")
)

// 对局流程
var (
	ErrNoSuchChoice  = errors.New("no such choice")
	ErrRoundFinished = errors.New("round already finished")
	ErrInvalidState  = errors.New("invalid state transition")
	ErrNotWinning    = errors.New("not winning")
	ErrScoring       = errors.New("scoring oracle failed")
)

// 协议时序
var (
	ErrUnknownEvent = errors.New("reply for unknown event id")
	ErrReplyCount   = errors.New("wrong reply count")
	ErrReplyMissing = errors.New("seat has not replied")
	ErrReplyTimeout = errors.New("reply timeout")
)

// HandError 手牌变更失败，携带出错的牌与当时的手牌记法
type HandError struct {
	Op   string
	Tile Tile
	Hand string
	Err  error
}

func (e *HandError) Error() string {
	return fmt.Sprintf("hand %s %s on [%s]: %v", e.Op, e.Tile, e.Hand, e.Err)
}

func (e *HandError) Unwrap() error { return e.Err }

// ProtocolError 回复与事件 id 或数量不匹配，终止当前局
type ProtocolError struct {
	EventID int64
	Seat    int
	Reason  string
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation on event %d seat %d: %s: %v", e.EventID, e.Seat, e.Reason, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func protocolErr(id int64, seat int, err error, format string, args ...any) *ProtocolError {
	return &ProtocolError{EventID: id, Seat: seat, Reason: fmt.Sprintf(format, args...), Err: err}
}
