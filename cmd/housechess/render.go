package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/benbeisheim/housechess-backend/internal/chess"
	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/notation"
)

// theme paints squares and pieces for the terminal.
type theme struct {
	light, dark            color.Attribute
	whitePiece, blackPiece color.Attribute
	label                  *color.Color
	alert                  *color.Color
}

var defaultTheme = theme{
	light:      color.BgHiBlack,
	dark:       color.BgBlack,
	whitePiece: color.FgHiWhite,
	blackPiece: color.FgHiRed,
	label:      color.New(color.FgCyan),
	alert:      color.New(color.FgHiYellow, color.Bold),
}

func (th theme) square(sq chess.Square, p *chess.Piece) string {
	bg := th.dark
	if (sq.Row+sq.Col)%2 == 0 {
		bg = th.light
	}
	if p == nil {
		return color.New(bg).Sprint("   ")
	}
	fg := th.whitePiece
	if p.Color == chess.Black {
		fg = th.blackPiece
	}
	return color.New(fg, bg, color.Bold).Sprintf(" %c ", p.FEN())
}

// render draws pos from side's point of view, with the pockets and the
// check status underneath.
func (th theme) render(w io.Writer, pos notation.Position, side chess.Color, out engine.Outcome) {
	rows := []int{0, 1, 2, 3, 4, 5, 6, 7}
	cols := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if side == chess.Black {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
			cols[i], cols[j] = cols[j], cols[i]
		}
	}

	var files strings.Builder
	files.WriteString("  ")
	for _, c := range cols {
		fmt.Fprintf(&files, " %c ", 'a'+c)
	}

	for _, r := range rows {
		var line strings.Builder
		line.WriteString(th.label.Sprintf("%d ", chess.Size-r))
		for _, c := range cols {
			sq := chess.Square{Row: r, Col: c}
			line.WriteString(th.square(sq, pos.Board.At(sq)))
		}
		fmt.Fprintln(w, line.String())
	}
	fmt.Fprintln(w, th.label.Sprint(files.String()))

	if pos.Reserve != nil {
		pocket := pos.Reserve.String()
		if pocket == "" {
			pocket = "-"
		}
		fmt.Fprintf(w, "pocket: %s\n", pocket)
	}
	switch out.Status {
	case engine.Check:
		fmt.Fprintln(w, th.alert.Sprintf("%s is in check", pos.Turn))
	case engine.Checkmate:
		fmt.Fprintln(w, th.alert.Sprintf("checkmate, %s wins", *out.Winner))
	case engine.Stalemate:
		fmt.Fprintln(w, th.alert.Sprint("stalemate"))
	}
}
