package chess

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Sign is the multiplier applied to material: white counts up, black down.
func (c Color) Sign() int {
	if c == White {
		return 1
	}
	return -1
}

// Forward is the row direction pawns of this color advance in.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) HomeRow() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) PawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Kind uint8

const (
	King Kind = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// DropKinds are the kinds a reserve can hold, in pocket order.
var DropKinds = [...]Kind{Queen, Rook, Bishop, Knight, Pawn}

// PromotionKinds are the kinds a pawn may become on the last rank.
var PromotionKinds = [...]Kind{Queen, Rook, Bishop, Knight}

func (k Kind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Letter is the upper-case FEN letter for the kind.
func (k Kind) Letter() byte {
	return "KQRBNP"[k]
}

// Value is the unsigned material worth of the kind.
func (k Kind) Value() int {
	switch k {
	case King:
		return 900
	case Queen:
		return 90
	case Rook:
		return 50
	case Bishop, Knight:
		return 30
	case Pawn:
		return 10
	}
	return 0
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "k", "king":
		return King, nil
	case "q", "queen":
		return Queen, nil
	case "r", "rook":
		return Rook, nil
	case "b", "bishop":
		return Bishop, nil
	case "n", "knight":
		return Knight, nil
	case "p", "pawn":
		return Pawn, nil
	}
	return Pawn, fmt.Errorf("unknown piece %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Piece is a single man on the board. HasMoved is tracked for kings, rooks
// and pawns; InCheck and InCheckmate are cached on kings by the classifier
// and are recomputed every turn.
type Piece struct {
	Kind        Kind  `json:"type"`
	Color       Color `json:"color"`
	HasMoved    bool  `json:"hasMoved"`
	InCheck     bool  `json:"inCheck,omitempty"`
	InCheckmate bool  `json:"inCheckmate,omitempty"`
}

func NewPiece(kind Kind, color Color) *Piece {
	return &Piece{Kind: kind, Color: color}
}

// Points is the signed material value: positive for white, negative for black.
func (p *Piece) Points() int {
	return p.Kind.Value() * p.Color.Sign()
}

func (p *Piece) Template() *Template {
	return TemplateFor(p.Kind, p.Color)
}

// FEN returns the piece letter, upper case for white.
func (p *Piece) FEN() byte {
	l := p.Kind.Letter()
	if p.Color == Black {
		return l + ('a' - 'A')
	}
	return l
}

func (p *Piece) String() string {
	return p.Color.String() + " " + p.Kind.String()
}
