package mahjong

import (
	"fmt"
	"sort"
	"strings"
)

type Suit uint8

const (
	SuitMan     Suit = iota // 万子
	SuitPin                 // 筒子
	SuitSou                 // 索子
	SuitHonor               // 字牌
	SuitUnknown             // 未知牌（他家暗牌、回填）
)

type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red

	TileUnknown // 未知牌，不参与 34 种计数
)

const (
	TileKinds = 34  // 牌种数
	TileLimit = 136 // 一副牌总数
)

// Marker 牌的附加标记，位集合
type Marker uint8

const (
	MarkerRed    Marker = 1 << iota // 赤五
	MarkerCalled                    // 横置（被鸣的牌）
	MarkerTsumo                     // 自摸和了牌
	MarkerRon                       // 荣和和了牌
	MarkerDora                      // 宝牌标签
	MarkerGray                      // 灰显
)

// markerRunes 序列化顺序固定；赤五不在此列，用点数 0 表示
var markerRunes = []struct {
	m Marker
	r byte
}{
	{MarkerCalled, '*'},
	{MarkerTsumo, 't'},
	{MarkerRon, 'r'},
	{MarkerDora, 'd'},
	{MarkerGray, 'g'},
}

// Tile 不可变牌值：花色 + 点数 + 标记
type Tile struct {
	Suit    Suit
	Rank    int
	Markers Marker
}

// NewTile 创建牌并校验：未知牌点数为 0，赤五只能是数牌 5
func NewTile(suit Suit, rank int, markers ...Marker) (Tile, error) {
	t := Tile{Suit: suit, Rank: rank}
	for _, m := range markers {
		t.Markers |= m
	}
	if err := t.Validate(); err != nil {
		return Tile{}, err
	}
	return t, nil
}

// UnknownTile 未知牌
func UnknownTile() Tile {
	return Tile{Suit: SuitUnknown}
}

// TileOf 由 34 种牌索引构造普通牌
func TileOf(tt TileType) Tile {
	switch {
	case tt >= Man1 && tt <= Man9:
		return Tile{Suit: SuitMan, Rank: int(tt-Man1) + 1}
	case tt >= Pin1 && tt <= Pin9:
		return Tile{Suit: SuitPin, Rank: int(tt-Pin1) + 1}
	case tt >= So1 && tt <= So9:
		return Tile{Suit: SuitSou, Rank: int(tt-So1) + 1}
	case tt >= East && tt <= Red:
		return Tile{Suit: SuitHonor, Rank: int(tt-East) + 1}
	default:
		return UnknownTile()
	}
}

// RedFive 赤五
func RedFive(suit Suit) Tile {
	return Tile{Suit: suit, Rank: 5, Markers: MarkerRed}
}

func (t Tile) Validate() error {
	switch t.Suit {
	case SuitMan, SuitPin, SuitSou:
		if t.Rank < 1 || t.Rank > 9 {
			return fmt.Errorf("%w: rank %d out of range for number suit", ErrInvalidTile, t.Rank)
		}
		if t.Has(MarkerRed) && t.Rank != 5 {
			return fmt.Errorf("%w: red marker on rank %d", ErrInvalidTile, t.Rank)
		}
	case SuitHonor:
		if t.Rank < 1 || t.Rank > 7 {
			return fmt.Errorf("%w: rank %d out of range for honor", ErrInvalidTile, t.Rank)
		}
		if t.Has(MarkerRed) {
			return fmt.Errorf("%w: red marker on honor", ErrInvalidTile)
		}
	case SuitUnknown:
		if t.Rank != 0 {
			return fmt.Errorf("%w: unknown tile with rank %d", ErrInvalidTile, t.Rank)
		}
	default:
		return fmt.Errorf("%w: suit %d", ErrInvalidTile, t.Suit)
	}
	return nil
}

// Type 34 种牌索引，未知牌返回 TileUnknown
func (t Tile) Type() TileType {
	switch t.Suit {
	case SuitMan:
		return Man1 + TileType(t.Rank-1)
	case SuitPin:
		return Pin1 + TileType(t.Rank-1)
	case SuitSou:
		return So1 + TileType(t.Rank-1)
	case SuitHonor:
		return East + TileType(t.Rank-1)
	default:
		return TileUnknown
	}
}

func (t Tile) Has(m Marker) bool { return t.Markers&m != 0 }

func (t Tile) With(m Marker) Tile {
	t.Markers |= m
	return t
}

func (t Tile) Without(m Marker) Tile {
	t.Markers &^= m
	return t
}

// Plain 去掉展示类标记，只保留赤五
func (t Tile) Plain() Tile {
	t.Markers &= MarkerRed
	return t
}

func (t Tile) IsRedFive() bool  { return t.Has(MarkerRed) }
func (t Tile) IsUnknown() bool  { return t.Suit == SuitUnknown }
func (t Tile) IsHonor() bool    { return t.Suit == SuitHonor }
func (t Tile) IsNumbered() bool { return t.Suit <= SuitSou }

// IsTerminal 老头牌（数牌 1、9）
func (t Tile) IsTerminal() bool {
	return t.IsNumbered() && (t.Rank == 1 || t.Rank == 9)
}

// IsYaochu 幺九牌（1、9、字牌）
func (t Tile) IsYaochu() bool {
	return t.IsTerminal() || t.IsHonor()
}

// SameKind 同一种牌（忽略标记，赤五与普通五相同）
func (t Tile) SameKind(o Tile) bool {
	return t.Suit == o.Suit && t.Rank == o.Rank
}

// SameFace 同一张牌面（区分赤五）
func (t Tile) SameFace(o Tile) bool {
	return t.SameKind(o) && t.IsRedFive() == o.IsRedFive()
}

func (tt TileType) IsNumbered() bool { return tt >= Man1 && tt <= So9 }
func (tt TileType) IsHonor() bool    { return tt >= East && tt <= Red }

// Suit 花色
func (tt TileType) Suit() Suit {
	return TileOf(tt).Suit
}

// DoraNext 宝牌指示牌的下一张（数牌 9→1，风 北→东，三元 中→白）
func (tt TileType) DoraNext() TileType {
	switch {
	case tt.IsNumbered():
		base := tt - (tt % 9)
		return base + (tt-base+1)%9
	case tt >= East && tt <= North:
		return East + (tt-East+1)%4
	case tt >= White && tt <= Red:
		return White + (tt-White+1)%3
	default:
		return TileUnknown
	}
}

func (tt TileType) String() string {
	return TileOf(tt).String()
}

var suitRunes = [...]byte{SuitMan: 'm', SuitPin: 'p', SuitSou: 's', SuitHonor: 'z'}

// String 序列化为 <标记><点数><花色>，赤五点数写作 0，未知牌写作 _
func (t Tile) String() string {
	var b strings.Builder
	for _, mr := range markerRunes {
		if t.Has(mr.m) {
			b.WriteByte(mr.r)
		}
	}
	if t.IsUnknown() {
		b.WriteByte('_')
		return b.String()
	}
	if t.IsRedFive() {
		b.WriteByte('0')
	} else {
		b.WriteByte(byte('0' + t.Rank))
	}
	b.WriteByte(suitRunes[t.Suit])
	return b.String()
}

// ParseTile 解析单张牌
func ParseTile(s string) (Tile, error) {
	tiles, err := ParseTiles(s)
	if err != nil {
		return Tile{}, err
	}
	if len(tiles) != 1 {
		return Tile{}, fmt.Errorf("%w: %q is %d tiles", ErrNotation, s, len(tiles))
	}
	return tiles[0], nil
}

// ParseTiles 解析紧凑记法，例如 "123m*4p0s11z__"
func ParseTiles(s string) ([]Tile, error) {
	type pending struct {
		rank    int
		markers Marker
	}
	var (
		out     []Tile
		digits  []pending
		markers Marker
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, pending{rank: int(c - '0'), markers: markers})
			markers = 0
		case c == '_':
			if len(digits) > 0 {
				return nil, fmt.Errorf("%w: ranks without suit before '_' at %d", ErrNotation, i)
			}
			out = append(out, Tile{Suit: SuitUnknown, Markers: markers})
			markers = 0
		case c == 'm' || c == 'p' || c == 's' || c == 'z':
			if len(digits) == 0 {
				return nil, fmt.Errorf("%w: suit %q without ranks at %d", ErrNotation, c, i)
			}
			suit := map[byte]Suit{'m': SuitMan, 'p': SuitPin, 's': SuitSou, 'z': SuitHonor}[c]
			for _, d := range digits {
				t := Tile{Suit: suit, Rank: d.rank, Markers: d.markers}
				if d.rank == 0 && suit != SuitHonor {
					t.Rank = 5
					t.Markers |= MarkerRed
				}
				if err := t.Validate(); err != nil {
					return nil, fmt.Errorf("%w: %q: %v", ErrNotation, s, err)
				}
				out = append(out, t)
			}
			digits = digits[:0]
		default:
			m, ok := markerOf(c)
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q at %d", ErrNotation, c, i)
			}
			markers |= m
		}
	}
	if len(digits) > 0 || markers != 0 {
		return nil, fmt.Errorf("%w: dangling ranks or markers in %q", ErrNotation, s)
	}
	return out, nil
}

func markerOf(c byte) (Marker, bool) {
	for _, mr := range markerRunes {
		if mr.r == c {
			return mr.m, true
		}
	}
	return 0, false
}

// FormatTiles 按花色分组输出：123m456p11z__
func FormatTiles(tiles []Tile) string {
	sorted := SortTiles(tiles)
	var b strings.Builder
	for i := 0; i < len(sorted); {
		t := sorted[i]
		if t.IsUnknown() {
			b.WriteString(t.String())
			i++
			continue
		}
		j := i
		for j < len(sorted) && sorted[j].Suit == t.Suit {
			s := sorted[j].String()
			b.WriteString(s[:len(s)-1])
			j++
		}
		b.WriteByte(suitRunes[t.Suit])
		i = j
	}
	return b.String()
}

// SortTiles 按 万/筒/索/字/未知 排序，赤五排在同点数普通牌之前
func SortTiles(tiles []Tile) []Tile {
	out := append([]Tile(nil), tiles...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Suit != b.Suit {
			return a.Suit < b.Suit
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.IsRedFive() && !b.IsRedFive()
	})
	return out
}

// MustParseTiles 仅用于常量构造与测试
func MustParseTiles(s string) []Tile {
	tiles, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return tiles
}
