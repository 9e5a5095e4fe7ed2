package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

const maxPromotionAttempts = 3

// Promoter supplies the piece a pawn turns into. An error or an answer that
// is not queen, rook, bishop or knight counts as an invalid attempt.
type Promoter interface {
	Promotion(sq chess.Square, color chess.Color) (string, error)
}

type PromoterFunc func(sq chess.Square, color chess.Color) (string, error)

func (f PromoterFunc) Promotion(sq chess.Square, color chess.Color) (string, error) {
	return f(sq, color)
}

// FixedPromotion always answers with the same kind; protocol adapters use it
// with the piece named in the move.
type FixedPromotion chess.Kind

func (f FixedPromotion) Promotion(chess.Square, chess.Color) (string, error) {
	return chess.Kind(f).String(), nil
}

// PromptPromotion asks on out and reads the answer from in, one line per try.
// Pass the caller's own *bufio.Reader to share its buffer.
func PromptPromotion(in io.Reader, out io.Writer) Promoter {
	r, ok := in.(*bufio.Reader)
	if !ok {
		r = bufio.NewReader(in)
	}
	return PromoterFunc(func(sq chess.Square, color chess.Color) (string, error) {
		fmt.Fprintf(out, "Promote %s pawn on %s to (queen, rook, bishop, knight): ", color, sq)
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	})
}

func choosePromotion(promoter Promoter, sq chess.Square, color chess.Color) chess.Kind {
	if promoter == nil {
		return chess.Queen
	}
	for attempt := 0; attempt < maxPromotionAttempts; attempt++ {
		answer, err := promoter.Promotion(sq, color)
		if err != nil {
			break
		}
		kind, err := chess.ParseKind(answer)
		if err != nil {
			continue
		}
		for _, k := range chess.PromotionKinds {
			if k == kind {
				return kind
			}
		}
	}
	return chess.Queen
}

// SpecialRules finishes a move from origin that has already landed on dest:
// it brings the rook across for a king that jumped two columns, promotes a
// pawn on the last rank, and marks kings, rooks and pawns as moved.
func SpecialRules(b *chess.Board, origin, dest chess.Square, promoter Promoter) {
	p := b.At(dest)
	if p == nil {
		return
	}

	if !p.HasMoved && chess.IsCastle(p, origin, dest) {
		rookFrom, rookTo := chess.CastleRook(dest)
		if rook := b.At(rookFrom); rook != nil && rook.Kind == chess.Rook && rook.Color == p.Color && b.Empty(rookTo) {
			b.Set(rookTo, rook)
			b.Clear(rookFrom)
			rook.HasMoved = true
		}
	}

	if p.Kind == chess.Pawn && chess.IsTerminalRow(dest.Row) {
		kind := choosePromotion(promoter, dest, p.Color)
		p = chess.NewPiece(kind, p.Color)
		b.Set(dest, p)
	}

	if chess.TracksMoved(p.Kind) {
		p.HasMoved = true
	}
}

// Play commits m to the board after checking it is legal: relocation or drop,
// reserve bookkeeping, then SpecialRules. It returns the captured piece, if
// any. A move that carries a Promotion is promoted to that piece, otherwise
// promoter is consulted.
func Play(b *chess.Board, m chess.Move, reserve *chess.Reserve, promoter Promoter) (*chess.Piece, error) {
	if m.Drop {
		return nil, Drop(b, reserve, m.Color, m.Piece, m.To)
	}
	if !TryMove(b, m.From, m.To) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	mover := b.At(m.From)
	undo := b.Displace(m.From, m.To)
	captured := undo.Captured()
	if captured != nil && reserve != nil {
		reserve.Add(mover.Color, captured.Kind)
	}

	if m.Promotion != chess.King && m.Promotion != chess.Pawn {
		promoter = FixedPromotion(m.Promotion)
	}
	SpecialRules(b, m.From, m.To, promoter)
	return captured, nil
}
