package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	corchess "github.com/corentings/chess/v2"

	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/notation"
)

var log = slog.Default().With("package", "uci")

const (
	EngineName   = "housechess"
	EngineAuthor = "the housechess developers"
)

var ErrUnknownPosition = errors.New("unknown position command")

type Options struct {
	Depth  int
	Search []engine.SearchOption
}

type Option func(*Options)

// WithDepth sets the depth used by a bare "go".
func WithDepth(depth int) Option {
	return func(opts *Options) {
		opts.Depth = depth
	}
}

// WithSearchOptions is passed through to every search, e.g. a fixed tie
// breaker for reproducible play.
func WithSearchOptions(search ...engine.SearchOption) Option {
	return func(opts *Options) {
		opts.Search = append(opts.Search, search...)
	}
}

// Session speaks the engine side of UCI over a line stream. The game is
// tracked with corentings/chess so incoming moves are validated against a
// second rules implementation before the engine sees the position.
type Session struct {
	in   io.Reader
	out  io.Writer
	opts Options
	game *corchess.Game
}

func NewSession(in io.Reader, out io.Writer, options ...Option) *Session {
	opts := Options{Depth: engine.DefaultDepth}
	for _, opt := range options {
		opt(&opts)
	}
	return &Session{in: in, out: out, opts: opts, game: corchess.NewGame()}
}

// Run handles commands until "quit", end of input, or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := s.Handle(scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Handle runs one command line and reports whether the session should end.
// Problems are reported to the GUI as "info string" lines.
func (s *Session) Handle(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	log.Debug("command", "line", line)

	switch tokens[0] {
	case "quit":
		return true
	case "uci":
		s.println("id name " + EngineName)
		s.println("id author " + EngineAuthor)
		s.println("uciok")
	case "isready":
		s.println("readyok")
	case "ucinewgame":
		s.game = corchess.NewGame()
	case "position":
		if err := s.position(tokens[1:]); err != nil {
			log.Warn("position rejected", "line", line, "error", err)
			s.println("info string " + err.Error())
		}
	case "go":
		s.goSearch(tokens[1:])
	case "d":
		s.println(s.game.Position().Board().Draw())
		s.println("Fen: " + s.game.FEN())
	default:
		log.Debug("ignoring command", "command", tokens[0])
	}
	return false
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

// position handles "startpos [moves ...]" and "fen <fen> [moves ...]".
func (s *Session) position(args []string) error {
	if len(args) == 0 {
		return ErrUnknownPosition
	}
	rest := args[1:]
	var game *corchess.Game
	switch args[0] {
	case "startpos":
		game = corchess.NewGame()
	case "fen":
		n := len(rest)
		for i, tok := range rest {
			if tok == "moves" {
				n = i
				break
			}
		}
		fen := strings.Join(rest[:n], " ")
		// one king per side, which corentings does not insist on
		if _, err := notation.DecodeFEN(fen); err != nil {
			return err
		}
		opt, err := corchess.FEN(fen)
		if err != nil {
			return fmt.Errorf("%w: %v", notation.ErrBadFEN, err)
		}
		game = corchess.NewGame(opt)
		rest = rest[n:]
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPosition, args[0])
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, tok := range rest[1:] {
			if err := push(game, tok); err != nil {
				return err
			}
		}
	}
	s.game = game
	return nil
}

// push plays a UCI move on game, accepting it only if corentings lists it
// among the legal moves.
func push(game *corchess.Game, uciMove string) error {
	mv, err := corchess.UCINotation{}.Decode(game.Position(), uciMove)
	if err != nil {
		return fmt.Errorf("%w: %v", notation.ErrBadMove, err)
	}
	for _, valid := range game.ValidMoves() {
		if valid.S1() != mv.S1() || valid.S2() != mv.S2() || valid.Promo() != mv.Promo() {
			continue
		}
		san := corchess.AlgebraicNotation{}.Encode(game.Position(), &valid)
		if err := game.PushMove(san, &corchess.PushMoveOptions{ForceMainline: true}); err != nil {
			return fmt.Errorf("%w: %s: %v", notation.ErrBadMove, uciMove, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s is not legal here", notation.ErrBadMove, uciMove)
}

// goSearch answers "go [depth N]"; time controls are accepted and ignored.
func (s *Session) goSearch(args []string) {
	depth := s.opts.Depth
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "depth" {
			if d, err := strconv.Atoi(args[i+1]); err == nil && d > 0 {
				depth = d
			}
		}
	}

	pos, err := notation.DecodeFEN(s.game.FEN())
	if err != nil {
		log.Error("cannot convert position", "fen", s.game.FEN(), "error", err)
		s.println("bestmove 0000")
		return
	}

	opts := append([]engine.SearchOption{engine.WithDepth(depth)}, s.opts.Search...)
	searcher := engine.NewSearcher(opts...)
	res := searcher.Search(pos.Board, pos.Turn)
	m, ok := searcher.Choose(res)
	if !ok {
		s.println("bestmove 0000")
		return
	}

	s.println(fmt.Sprintf("info depth %d score %s nodes %d", searcher.Depth(), scoreString(res.Score, pos.Turn.Sign(), searcher.Depth()), searcher.Nodes()))
	s.println("bestmove " + notation.FormatMove(pos.Board, m))
}

// scoreString renders a white-positive search score from the mover's side:
// material in centipawns (a pawn is worth 10), or moves to mate.
func scoreString(score, sign, depth int) string {
	score *= sign
	if score >= engine.Mate || score <= -engine.Mate {
		remaining := score - engine.Mate
		if score < 0 {
			remaining = -score - engine.Mate
		}
		moves := (depth - remaining + 1) / 2
		if score < 0 {
			moves = -moves
		}
		return fmt.Sprintf("mate %d", moves)
	}
	return fmt.Sprintf("cp %d", score*10)
}
