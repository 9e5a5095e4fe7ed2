package uci

import (
	"context"
	"strings"
	"testing"

	"github.com/benbeisheim/housechess-backend/internal/engine"
)

func run(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	var out strings.Builder
	opts = append(opts, WithSearchOptions(engine.WithTieBreaker(engine.FirstCandidate)))
	s := NewSession(strings.NewReader(input), &out, opts...)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestHandshake(t *testing.T) {
	out := run(t, "uci\nisready\n")
	for _, want := range []string{"id name housechess", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}

func TestQuitStopsReading(t *testing.T) {
	out := run(t, "quit\nisready\n")
	if out != "" {
		t.Fatalf("output after quit: %q", out)
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "startpos moves",
			input: "position startpos moves e2e4 e7e5 g1f3\nd\n",
			want:  "Fen: rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq",
		},
		{
			name:  "fen moves",
			input: "position fen 4k3/8/8/8/8/8/8/R3K3 w Q - 0 1 moves e1c1\nd\n",
			want:  "Fen: 4k3/8/8/8/8/8/8/2KR4 b - -",
		},
		{
			name:  "illegal move keeps old position",
			input: "position startpos moves e2e5\nd\n",
			want:  "Fen: rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq",
		},
		{
			name:  "bad fen",
			input: "position fen 8/8/8/8/8/8/8/8 w - - 0 1\n",
			want:  "info string invalid FEN",
		},
		{
			name:  "king capturable",
			input: "position fen 4k3/8/8/8/8/8/4Q3/4K3 w - - 0 1\ngo depth 2\nd\n",
			want:  "info string invalid FEN",
		},
		{
			name:  "unknown",
			input: "position sideways\n",
			want:  "info string unknown position command",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, tt.input)
			if !strings.Contains(out, tt.want) {
				t.Fatalf("output %q lacks %q", out, tt.want)
			}
		})
	}
}

func TestGo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "mate in one",
			input: "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 2\n",
			want:  []string{"score mate 1", "bestmove a1a8"},
		},
		{
			name:  "black mates",
			input: "position fen r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1\ngo depth 2\n",
			want:  []string{"score mate 1", "bestmove a8a1"},
		},
		{
			name:  "promotion",
			input: "position fen 4k3/P7/8/8/8/8/8/4K3 w - - 0 1\ngo depth 1\n",
			want:  []string{"bestmove a7a8q"},
		},
		{
			name:  "stalemate",
			input: "position fen k7/8/1Q6/8/8/8/8/7K b - - 0 1\ngo\n",
			want:  []string{"bestmove 0000"},
		},
		{
			name:  "opening",
			input: "ucinewgame\nposition startpos\ngo wtime 1000 btime 1000\n",
			want:  []string{"info depth 1", "bestmove "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, tt.input, WithDepth(1))
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output %q lacks %q", out, want)
				}
			}
		})
	}
}

func TestScoreString(t *testing.T) {
	tests := []struct {
		score, sign, depth int
		want               string
	}{
		{score: 20, sign: 1, depth: 3, want: "cp 200"},
		{score: 20, sign: -1, depth: 3, want: "cp -200"},
		{score: engine.Mate + 2, sign: 1, depth: 3, want: "mate 1"},
		{score: engine.Mate, sign: 1, depth: 3, want: "mate 2"},
		{score: -(engine.Mate + 1), sign: 1, depth: 3, want: "mate -1"},
		{score: -(engine.Mate + 1), sign: -1, depth: 2, want: "mate 1"},
	}
	for _, tt := range tests {
		if got := scoreString(tt.score, tt.sign, tt.depth); got != tt.want {
			t.Errorf("scoreString(%d, %d, %d) = %q, want %q", tt.score, tt.sign, tt.depth, got, tt.want)
		}
	}
}
