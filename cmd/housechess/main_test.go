package main

import (
	"bytes"
	"strings"
	"testing"
)

func play(t *testing.T, input string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	args = append([]string{"-no-color", "-depth", "1", "-seed", "1"}, args...)
	if err := run(args, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}
	return out.String()
}

func TestSession(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "mate in one",
			args:  []string{"-fen", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"},
			input: "a1a8\n",
			want:  []string{"white plays a1a8", "checkmate, white wins"},
		},
		{
			name:    "starts mated",
			args:    []string{"-fen", "6k1/8/8/8/8/8/5PPP/r5K1 w - - 0 1"},
			input:   "quit\n",
			want:    []string{"checkmate, black wins"},
			notWant: []string{"white> "},
		},
		{
			name:    "starts stalemated",
			args:    []string{"-fen", "7K/5q2/6k1/8/8/8/8/8 w - - 0 1"},
			input:   "quit\n",
			want:    []string{"stalemate"},
			notWant: []string{"white> "},
		},
		{
			name:  "prompted promotion",
			args:  []string{"-fen", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"},
			input: "a7a8\nrook\nquit\n",
			want:  []string{"Promote white pawn on a8", "white plays a7a8r", "black is in check", "black plays"},
		},
		{
			name:    "illegal move",
			input:   "e2e5\nquit\n",
			want:    []string{"illegal move: e2e5"},
			notWant: []string{"white plays"},
		},
		{
			name:  "unknown square",
			input: "z9e4\nquit\n",
			want:  []string{"invalid move"},
		},
		{
			name:  "commands",
			input: "moves\nfen\nquit\n",
			want:  []string{"e2e4", "g1f3", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		},
		{
			name:  "engine opens for white",
			args:  []string{"-color", "black"},
			input: "quit\n",
			want:  []string{"white plays", "black> "},
		},
		{
			name:  "crazyhouse pocket",
			args:  []string{"-variant", "crazyhouse"},
			input: "quit\n",
			want:  []string{"pocket: -"},
		},
		{
			name:  "end of input",
			input: "",
			want:  []string{"white> "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := play(t, tt.input, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output lacks %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output has %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"-variant", "bughouse"},
		{"-color", "green"},
		{"-fen", "not a fen"},
		{"-fen", "4k3/8/8/8/8/8/4Q3/4K3 w - - 0 1"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var out bytes.Buffer
			if err := run(args, strings.NewReader(""), &out); err == nil {
				t.Fatalf("run(%q) succeeded", args)
			}
		})
	}
}
