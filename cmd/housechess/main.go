// Command housechess plays a game against the engine in the terminal.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/benbeisheim/housechess-backend/internal/chess"
	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/notation"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Fatal(err)
	}
}

const help = `moves are coordinates (e2e4, e7e8q) or drops (N@f3)
  moves   list the legal moves
  fen     print the position
  quit    leave the game`

type session struct {
	in       *bufio.Reader
	out      io.Writer
	pos      notation.Position
	human    chess.Color
	outcome  engine.Outcome
	searcher *engine.Searcher
	theme    theme
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("housechess", flag.ContinueOnError)
	fs.SetOutput(out)
	depth := fs.Int("depth", engine.DefaultDepth, "engine search depth")
	side := fs.String("color", "white", "the side you play")
	variant := fs.String("variant", "standard", "standard or crazyhouse")
	fen := fs.String("fen", notation.StartFEN, "starting position")
	seed := fs.Int64("seed", 0, "seed for the engine's choice between equal moves; 0 picks one")
	noColor := fs.Bool("no-color", false, "plain output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *noColor {
		color.NoColor = true
	}

	human, err := chess.ParseColor(*side)
	if err != nil {
		return err
	}
	pos, err := notation.DecodeFEN(*fen)
	if err != nil {
		return err
	}
	switch *variant {
	case "standard":
	case "crazyhouse":
		if pos.Reserve == nil {
			pos.Reserve = chess.NewReserve()
		}
	default:
		return fmt.Errorf("unknown variant %q", *variant)
	}

	opts := []engine.SearchOption{engine.WithDepth(*depth)}
	if *seed != 0 {
		opts = append(opts, engine.WithRand(rand.New(rand.NewSource(*seed))))
	}
	s := &session{
		in:       bufio.NewReader(in),
		out:      out,
		pos:      pos,
		human:    human,
		// the side to move may already be mated or stalemated
		outcome:  engine.CheckGameState(pos.Board, pos.Turn == chess.Black, pos.Reserve),
		searcher: engine.NewSearcher(opts...),
		theme:    defaultTheme,
	}
	return s.loop()
}

func (s *session) loop() error {
	fmt.Fprintln(s.out, help)
	dirty := true
	for {
		if dirty {
			s.theme.render(s.out, s.pos, s.human, s.outcome)
			dirty = false
		}
		if s.outcome.Over() {
			return nil
		}
		if s.pos.Turn != s.human {
			s.engineMove()
			dirty = true
			continue
		}

		fmt.Fprintf(s.out, "%s> ", s.pos.Turn)
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		switch cmd := strings.TrimSpace(line); cmd {
		case "":
		case "quit", "exit", "resign":
			return nil
		case "help":
			fmt.Fprintln(s.out, help)
		case "fen":
			fmt.Fprintln(s.out, notation.EncodeFEN(s.pos))
		case "moves":
			fmt.Fprintln(s.out, strings.Join(s.legalMoves(), " "))
		default:
			if err := s.humanMove(cmd); err != nil {
				fmt.Fprintln(s.out, s.theme.alert.Sprint(err))
				continue
			}
			dirty = true
		}
	}
}

func (s *session) legalMoves() []string {
	var moves []string
	for _, m := range engine.GenerateMoves(s.pos.Board, s.pos.Turn) {
		moves = append(moves, notation.FormatMove(s.pos.Board, m))
	}
	if s.pos.Reserve != nil {
		for _, m := range engine.GenerateDrops(s.pos.Board, s.pos.Reserve, s.pos.Turn) {
			moves = append(moves, m.String())
		}
	}
	return moves
}

// parseInput reads a move typed by the player. A pawn move to the last rank
// may leave out the piece; the player is asked for it.
func (s *session) parseInput(text string) (chess.Move, error) {
	if len(text) == 4 && !strings.Contains(text, "@") {
		from, ferr := chess.ParseSquare(text[:2])
		to, terr := chess.ParseSquare(text[2:])
		p := s.pos.Board.At(from)
		if ferr == nil && terr == nil && p != nil && p.Color == s.pos.Turn && p.Kind == chess.Pawn && chess.IsTerminalRow(to.Row) {
			return chess.Move{From: from, To: to}, nil
		}
	}
	return notation.ParseMove(s.pos.Board, s.pos.Turn, text)
}

func (s *session) humanMove(text string) error {
	m, err := s.parseInput(text)
	if err != nil {
		return err
	}
	before := s.pos.Board.Clone()
	if _, err := engine.Play(s.pos.Board, m, s.pos.Reserve, engine.PromptPromotion(s.in, s.out)); err != nil {
		return err
	}
	if p := s.pos.Board.At(m.To); !m.Drop && before.At(m.From).Kind != p.Kind {
		m.Promotion = p.Kind
	}
	s.advance(notation.FormatMove(before, m), engine.CheckGameState(s.pos.Board, s.pos.Turn == chess.White, s.pos.Reserve))
	return nil
}

// engineMove plays the engine's reply. The search does not consider drops,
// so with only drops left it takes the first legal one.
func (s *session) engineMove() {
	side := s.pos.Turn
	before := s.pos.Board.Clone()
	m, out, ok := s.searcher.AIMove(s.pos.Board, side, s.pos.Reserve)
	if !ok {
		drops := engine.GenerateDrops(s.pos.Board, s.pos.Reserve, side)
		if len(drops) == 0 {
			s.outcome = engine.CheckGameState(s.pos.Board, side == chess.Black, s.pos.Reserve)
			if !s.outcome.Over() {
				s.outcome.Status = engine.Stalemate
			}
			return
		}
		m = drops[0]
		if _, err := engine.Play(s.pos.Board, m, s.pos.Reserve, nil); err != nil {
			log.Fatalf("engine drop %s: %v", m, err)
		}
		out = engine.CheckGameState(s.pos.Board, side == chess.White, s.pos.Reserve)
	}
	s.advance(notation.FormatMove(before, m), out)
}

func (s *session) advance(played string, out engine.Outcome) {
	fmt.Fprintf(s.out, "%s plays %s\n", s.pos.Turn, played)
	if s.pos.Turn == chess.Black {
		s.pos.FullMove++
	}
	s.pos.Turn = s.pos.Turn.Opposite()
	s.outcome = out
}
