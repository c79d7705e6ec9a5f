package repository

import "errors"

var (
	ErrRoundHistoryNotFound = errors.New("round history not found")
	ErrMatchRecordNotFound  = errors.New("match record not found")
	ErrInvalidRecord        = errors.New("invalid record")

	// 存储相关错误
	ErrArchiveRejected = errors.New("archive rejected record")
	ErrArchiveCorrupt  = errors.New("archived record cannot be decoded")
)
