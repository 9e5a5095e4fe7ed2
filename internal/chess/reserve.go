package chess

import (
	"encoding/json"
	"strings"
)

// Reserve is the crazyhouse pocket: for each color, how many pieces of each
// droppable kind are available. A nil *Reserve means standard chess.
type Reserve struct {
	counts [2][Pawn + 1]int
}

func NewReserve() *Reserve {
	return &Reserve{}
}

func droppable(k Kind) bool {
	return k != King
}

// Add credits color with one piece of kind. Kings are never pocketed.
func (r *Reserve) Add(color Color, kind Kind) {
	if !droppable(kind) {
		return
	}
	r.counts[color][kind]++
}

// Take removes one piece of kind from color's pocket, reporting whether one
// was there.
func (r *Reserve) Take(color Color, kind Kind) bool {
	if !droppable(kind) || r.counts[color][kind] == 0 {
		return false
	}
	r.counts[color][kind]--
	return true
}

func (r *Reserve) Count(color Color, kind Kind) int {
	return r.counts[color][kind]
}

// Has reports whether color holds anything at all.
func (r *Reserve) Has(color Color) bool {
	for _, k := range DropKinds {
		if r.counts[color][k] > 0 {
			return true
		}
	}
	return false
}

// Kinds lists the kinds color can drop right now, in pocket order.
func (r *Reserve) Kinds(color Color) []Kind {
	var out []Kind
	for _, k := range DropKinds {
		if r.counts[color][k] > 0 {
			out = append(out, k)
		}
	}
	return out
}

func (r *Reserve) Clone() *Reserve {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// String is the FEN pocket body: white pieces upper case, then black lower
// case, e.g. "QNpp".
func (r *Reserve) String() string {
	var sb strings.Builder
	for _, c := range []Color{White, Black} {
		for _, k := range DropKinds {
			p := Piece{Kind: k, Color: c}
			for i := 0; i < r.counts[c][k]; i++ {
				sb.WriteByte(p.FEN())
			}
		}
	}
	return sb.String()
}

type reserveJSON struct {
	White map[string]int `json:"white"`
	Black map[string]int `json:"black"`
}

func (r *Reserve) MarshalJSON() ([]byte, error) {
	out := reserveJSON{White: map[string]int{}, Black: map[string]int{}}
	for _, k := range DropKinds {
		out.White[k.String()] = r.counts[White][k]
		out.Black[k.String()] = r.counts[Black][k]
	}
	return json.Marshal(out)
}
