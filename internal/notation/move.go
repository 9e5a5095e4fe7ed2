package notation

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

// ParseMove reads coordinate notation for the side to move: "e2e4", "e7e8q",
// or a drop such as "N@f3". The promotion letter is required exactly when a
// pawn reaches the last rank. Legality is left to the engine.
func ParseMove(b *chess.Board, turn chess.Color, s string) (chess.Move, error) {
	s = strings.TrimSpace(s)

	if len(s) == 4 && s[1] == '@' {
		kind, err := chess.ParseKind(s[:1])
		if err != nil || kind == chess.King {
			return chess.Move{}, fmt.Errorf("%w: cannot drop %q", ErrBadMove, s[:1])
		}
		to, err := chess.ParseSquare(s[2:])
		if err != nil {
			return chess.Move{}, fmt.Errorf("%w: %v", ErrBadMove, err)
		}
		return chess.NewDrop(turn, kind, to), nil
	}

	if len(s) != 4 && len(s) != 5 {
		return chess.Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	from, err := chess.ParseSquare(s[0:2])
	if err != nil {
		return chess.Move{}, fmt.Errorf("%w: %v", ErrBadMove, err)
	}
	to, err := chess.ParseSquare(s[2:4])
	if err != nil {
		return chess.Move{}, fmt.Errorf("%w: %v", ErrBadMove, err)
	}
	p := b.At(from)
	if p == nil || p.Color != turn {
		return chess.Move{}, fmt.Errorf("%w: no %s piece on %s", ErrBadMove, turn, from)
	}

	m := chess.Move{From: from, To: to}
	promotes := p.Kind == chess.Pawn && chess.IsTerminalRow(to.Row)
	switch {
	case promotes && len(s) == 4:
		return chess.Move{}, fmt.Errorf("%w: %s needs a promotion piece", ErrBadMove, s)
	case !promotes && len(s) == 5:
		return chess.Move{}, fmt.Errorf("%w: %s does not promote", ErrBadMove, s)
	case promotes:
		kind, err := chess.ParseKind(s[4:])
		if err != nil || kind == chess.King || kind == chess.Pawn {
			return chess.Move{}, fmt.Errorf("%w: cannot promote to %q", ErrBadMove, s[4:])
		}
		m.Promotion = kind
	}
	return m, nil
}

// FormatMove is the inverse of ParseMove. b is the position before m is
// played; a promoting move without a chosen piece is written as a queen.
func FormatMove(b *chess.Board, m chess.Move) string {
	if m.Drop {
		return m.String()
	}
	s := m.String()
	if p := b.At(m.From); p != nil && p.Kind == chess.Pawn && chess.IsTerminalRow(m.To.Row) {
		kind := m.Promotion
		if kind == chess.King || kind == chess.Pawn {
			kind = chess.Queen
		}
		s += strings.ToLower(string(kind.Letter()))
	}
	return s
}
