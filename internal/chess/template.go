package chess

// Offset is a (row, col) displacement.
type Offset struct {
	DRow int
	DCol int
}

// Template is the movement shape of a kind for one color. Sliding pieces are
// stored pre-expanded along their rays so every reachable delta is a single
// entry. Attacks and Double are only populated for pawns.
type Template struct {
	Moves   []Offset
	Attacks []Offset
	Double  []Offset
}

// Contains reports whether d is one of offs.
func Contains(offs []Offset, d Offset) bool {
	for _, o := range offs {
		if o == d {
			return true
		}
	}
	return false
}

// CastleOffsets are the king deltas that request castling.
var CastleOffsets = [...]Offset{{0, 2}, {0, -2}}

var (
	kingSteps   = []Offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	rookDirs    = []Offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs  = []Offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	knightJumps = []Offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

var templates [2][6]*Template

func init() {
	for _, c := range []Color{White, Black} {
		templates[c][King] = &Template{Moves: kingSteps}
		templates[c][Queen] = &Template{Moves: rays(kingSteps)}
		templates[c][Rook] = &Template{Moves: rays(rookDirs)}
		templates[c][Bishop] = &Template{Moves: rays(bishopDirs)}
		templates[c][Knight] = &Template{Moves: knightJumps}
		f := c.Forward()
		templates[c][Pawn] = &Template{
			Moves:   []Offset{{f, 0}},
			Attacks: []Offset{{f, 1}, {f, -1}},
			Double:  []Offset{{2 * f, 0}},
		}
	}
}

func rays(dirs []Offset) []Offset {
	out := make([]Offset, 0, len(dirs)*(Size-1))
	for _, d := range dirs {
		for dist := 1; dist < Size; dist++ {
			out = append(out, Offset{d.DRow * dist, d.DCol * dist})
		}
	}
	return out
}

// TemplateFor returns the shared, read-only template for kind and color.
func TemplateFor(kind Kind, color Color) *Template {
	return templates[color][kind]
}

func KnightJumps() []Offset {
	return knightJumps
}

func KingSteps() []Offset {
	return kingSteps
}
