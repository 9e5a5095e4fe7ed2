package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	corchess "github.com/corentings/chess/v2"

	"github.com/benbeisheim/housechess-backend/internal/chess"
	"github.com/benbeisheim/housechess-backend/internal/engine"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrBadFEN  = errors.New("invalid FEN")
	ErrBadMove = errors.New("invalid move")
)

// Position is everything a FEN carries that the engine needs. Reserve is nil
// for standard chess and non-nil whenever the FEN has a pocket.
type Position struct {
	Board    *chess.Board
	Turn     chess.Color
	Reserve  *chess.Reserve
	FullMove int
}

// StartPosition is the standard opening, optionally with empty pockets.
func StartPosition(crazyhouse bool) Position {
	pos := Position{Board: chess.StandardBoard(), Turn: chess.White, FullMove: 1}
	if crazyhouse {
		pos.Reserve = chess.NewReserve()
	}
	return pos
}

// DecodeFEN reads standard FEN and the crazyhouse pocket forms
// ".../RNBQKBNR[Qp] w ..." and ".../RNBQKBNR/Qp w ...". The move counters may
// be left off.
func DecodeFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrBadFEN, fen)
	}
	placement, pocket, hasPocket, err := splitPocket(fields[0])
	if err != nil {
		return Position{}, err
	}
	fields[0] = placement
	for _, k := range "Kk" {
		if n := strings.Count(placement, string(k)); n != 1 {
			return Position{}, fmt.Errorf("%w: %d %c kings", ErrBadFEN, n, k)
		}
	}
	for len(fields) < 6 {
		fields = append(fields, []string{"-", "-", "0", "1"}[len(fields)-2])
	}

	ref, err := decodeReference(strings.Join(fields[:6], " "))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrBadFEN, err)
	}

	pos := Position{Board: chess.NewBoard(), Turn: chess.White, FullMove: 1}
	if ref.Turn() == corchess.Black {
		pos.Turn = chess.Black
	}
	if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
		pos.FullMove = n
	}

	for sq, p := range ref.Board().SquareMap() {
		kind, ok := kindOf(p.Type())
		if !ok {
			continue
		}
		color := chess.White
		if p.Color() == corchess.Black {
			color = chess.Black
		}
		pos.Board.Set(chess.Square{Row: chess.Size - 1 - int(sq.Rank()), Col: int(sq.File())}, chess.NewPiece(kind, color))
	}
	deriveMoved(pos.Board, fields[2])

	// the side that just moved cannot have left its king attacked
	waiting := pos.Turn.Opposite()
	if sq, ok := engine.FindKing(pos.Board, waiting); !ok || engine.IsInCheck(pos.Board, sq) {
		return Position{}, fmt.Errorf("%w: %s to move with %s in check", ErrBadFEN, pos.Turn, waiting)
	}

	if hasPocket {
		pos.Reserve = chess.NewReserve()
		for _, r := range pocket {
			kind, err := chess.ParseKind(string(r))
			if err != nil || kind == chess.King {
				return Position{}, fmt.Errorf("%w: pocket piece %q", ErrBadFEN, r)
			}
			color := chess.Black
			if r >= 'A' && r <= 'Z' {
				color = chess.White
			}
			pos.Reserve.Add(color, kind)
		}
	}
	return pos, nil
}

// corentings' FEN reader splits ranks into a package-level buffer.
var referenceMu sync.Mutex

func decodeReference(fen string) (*corchess.Position, error) {
	referenceMu.Lock()
	defer referenceMu.Unlock()
	opt, err := corchess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return corchess.NewGame(opt).Position(), nil
}

// splitPocket separates the placement field from a crazyhouse pocket. The
// "~" markers some servers put after promoted pieces are dropped.
func splitPocket(field string) (placement, pocket string, ok bool, err error) {
	field = strings.ReplaceAll(field, "~", "")
	if i := strings.IndexByte(field, '['); i >= 0 {
		if !strings.HasSuffix(field, "]") {
			return "", "", false, fmt.Errorf("%w: unterminated pocket in %q", ErrBadFEN, field)
		}
		return field[:i], field[i+1 : len(field)-1], true, nil
	}
	if ranks := strings.Split(field, "/"); len(ranks) == chess.Size+1 {
		return strings.Join(ranks[:chess.Size], "/"), ranks[chess.Size], true, nil
	}
	return field, "", false, nil
}

func kindOf(t corchess.PieceType) (chess.Kind, bool) {
	switch t {
	case corchess.King:
		return chess.King, true
	case corchess.Queen:
		return chess.Queen, true
	case corchess.Rook:
		return chess.Rook, true
	case corchess.Bishop:
		return chess.Bishop, true
	case corchess.Knight:
		return chess.Knight, true
	case corchess.Pawn:
		return chess.Pawn, true
	}
	return 0, false
}

// castleRight ties a FEN castling letter to the king and rook squares it
// vouches for.
type castleRight struct {
	letter rune
	color  chess.Color
	rook   chess.Square
}

var castleRights = []castleRight{
	{'K', chess.White, chess.Square{Row: 7, Col: 7}},
	{'Q', chess.White, chess.Square{Row: 7, Col: 0}},
	{'k', chess.Black, chess.Square{Row: 0, Col: 7}},
	{'q', chess.Black, chess.Square{Row: 0, Col: 0}},
}

var kingHome = [2]chess.Square{
	chess.White: {Row: 7, Col: 4},
	chess.Black: {Row: 0, Col: 4},
}

// deriveMoved fills in HasMoved, which FEN does not carry: pawns off their
// start row have moved, and kings and rooks count as unmoved only when a
// castling right still names them.
func deriveMoved(b *chess.Board, rights string) {
	b.Each(func(sq chess.Square, p *chess.Piece) {
		switch p.Kind {
		case chess.Pawn:
			p.HasMoved = sq.Row != p.Color.PawnRow()
		case chess.King, chess.Rook:
			p.HasMoved = true
		}
	})
	for _, cr := range castleRights {
		if !strings.ContainsRune(rights, cr.letter) {
			continue
		}
		king, rook := b.At(kingHome[cr.color]), b.At(cr.rook)
		if king == nil || king.Kind != chess.King || king.Color != cr.color {
			continue
		}
		if rook == nil || rook.Kind != chess.Rook || rook.Color != cr.color {
			continue
		}
		king.HasMoved = false
		rook.HasMoved = false
	}
}

// EncodeFEN writes pos back out, with a bracketed pocket when pos has a
// reserve. Castling rights come from the HasMoved flags; en passant is never
// set.
func EncodeFEN(pos Position) string {
	var sb strings.Builder
	for r := 0; r < chess.Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < chess.Size; c++ {
			p := pos.Board.At(chess.Square{Row: r, Col: c})
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.FEN())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	if pos.Reserve != nil {
		sb.WriteString("[" + pos.Reserve.String() + "]")
	}

	turn := "w"
	if pos.Turn == chess.Black {
		turn = "b"
	}
	fullMove := pos.FullMove
	if fullMove < 1 {
		fullMove = 1
	}
	fmt.Fprintf(&sb, " %s %s - 0 %d", turn, encodeRights(pos.Board), fullMove)
	return sb.String()
}

func encodeRights(b *chess.Board) string {
	var sb strings.Builder
	for _, cr := range castleRights {
		king, rook := b.At(kingHome[cr.color]), b.At(cr.rook)
		if king == nil || king.Kind != chess.King || king.Color != cr.color || king.HasMoved {
			continue
		}
		if rook == nil || rook.Kind != chess.Rook || rook.Color != cr.color || rook.HasMoved {
			continue
		}
		sb.WriteRune(cr.letter)
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
