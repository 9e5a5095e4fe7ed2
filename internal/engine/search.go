package engine

import (
	"math/rand"
	"time"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

const (
	// Infinity bounds every score; it doubles as the cutoff sentinel.
	Infinity = 100000
	// Mate is the score of a checkmated position, before the depth bonus
	// that prefers quicker mates. Always well inside Infinity.
	Mate = 50000

	DefaultDepth = 3
)

// Result is a node's score and the moves that reach it. Every move tying for
// the best score is kept.
type Result struct {
	Score int
	Moves []chess.Move
}

// TieBreaker picks an index in [0, n) among equally scored moves.
type TieBreaker func(n int) int

// FirstCandidate always picks the first tied move, in generation order.
func FirstCandidate(int) int { return 0 }

type SearchOptions struct {
	Depth      int
	TieBreaker TieBreaker
}

var defaultSearchOptions = SearchOptions{
	Depth: DefaultDepth,
}

type SearchOption func(*SearchOptions)

func WithDepth(depth int) SearchOption {
	return func(opts *SearchOptions) {
		opts.Depth = depth
	}
}

func WithTieBreaker(tb TieBreaker) SearchOption {
	return func(opts *SearchOptions) {
		opts.TieBreaker = tb
	}
}

// WithRand breaks ties uniformly with r.
func WithRand(r *rand.Rand) SearchOption {
	return func(opts *SearchOptions) {
		opts.TieBreaker = r.Intn
	}
}

// Searcher runs fixed-depth minimax with alpha-beta pruning over material.
// White maximizes, black minimizes. A Searcher is not safe for concurrent use;
// it mutates the board it is given and restores it before returning.
type Searcher struct {
	opts  SearchOptions
	nodes int
}

func NewSearcher(opts ...SearchOption) *Searcher {
	o := defaultSearchOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.Depth < 1 {
		o.Depth = 1
	}
	if o.TieBreaker == nil {
		o.TieBreaker = rand.New(rand.NewSource(time.Now().UnixNano())).Intn
	}
	return &Searcher{opts: o}
}

func (s *Searcher) Depth() int {
	return s.opts.Depth
}

// Nodes is the number of positions visited by the last Search.
func (s *Searcher) Nodes() int {
	return s.nodes
}

// Search evaluates the position for color at the configured depth.
func (s *Searcher) Search(b *chess.Board, color chess.Color) Result {
	s.nodes = 0
	start := time.Now()
	var res Result
	if color == chess.White {
		res = s.maxi(b, -Infinity, Infinity, s.opts.Depth)
	} else {
		res = s.mini(b, -Infinity, Infinity, s.opts.Depth)
	}
	log.Debug("search finished", "color", color, "depth", s.opts.Depth,
		"score", res.Score, "candidates", len(res.Moves), "nodes", s.nodes, "elapsed", time.Since(start))
	return res
}

// maxi is white's turn. alpha is the best score white is already assured of
// higher up the tree, beta the best black is assured of; a child above beta
// means black will never allow this line.
func (s *Searcher) maxi(b *chess.Board, alpha, beta, depth int) Result {
	s.nodes++
	if depth == 0 {
		return Result{Score: b.Material()}
	}
	moves := GenerateMoves(b, chess.White)
	if len(moves) == 0 {
		return Result{Score: s.terminal(b, chess.White, depth)}
	}

	best := -Infinity
	var bestMoves []chess.Move
	for _, m := range moves {
		score := s.probe(b, m, func() int {
			return s.mini(b, max(alpha, best), beta, depth-1).Score
		})
		if score > beta {
			return Result{Score: Infinity}
		}
		if score > best {
			best = score
			bestMoves = []chess.Move{m}
		} else if score == best {
			bestMoves = append(bestMoves, m)
		}
	}
	return Result{Score: best, Moves: bestMoves}
}

// mini is black's turn, the mirror of maxi.
func (s *Searcher) mini(b *chess.Board, alpha, beta, depth int) Result {
	s.nodes++
	if depth == 0 {
		return Result{Score: b.Material()}
	}
	moves := GenerateMoves(b, chess.Black)
	if len(moves) == 0 {
		return Result{Score: s.terminal(b, chess.Black, depth)}
	}

	best := Infinity
	var bestMoves []chess.Move
	for _, m := range moves {
		score := s.probe(b, m, func() int {
			return s.maxi(b, alpha, min(beta, best), depth-1).Score
		})
		if score < alpha {
			return Result{Score: -Infinity}
		}
		if score < best {
			best = score
			bestMoves = []chess.Move{m}
		} else if score == best {
			bestMoves = append(bestMoves, m)
		}
	}
	return Result{Score: best, Moves: bestMoves}
}

// probe plays m, evaluates, and takes m back on every exit path.
func (s *Searcher) probe(b *chess.Board, m chess.Move, eval func() int) int {
	undo := b.Apply(m, nil)
	defer undo.Revert()
	return eval()
}

// terminal scores a side with no moves: mated is a loss that grows with the
// remaining depth so nearer mates rank first, stalemate is level.
func (s *Searcher) terminal(b *chess.Board, color chess.Color, depth int) int {
	if !IsInCheck(b, mustFindKing(b, color)) {
		return 0
	}
	return -color.Sign() * (Mate + depth)
}

// Choose picks one of res's tied moves with the tie breaker.
func (s *Searcher) Choose(res Result) (chess.Move, bool) {
	if len(res.Moves) == 0 {
		return chess.Move{}, false
	}
	return res.Moves[s.opts.TieBreaker(len(res.Moves))], true
}

// AIMove searches for color, picks one of the best moves with the tie
// breaker, plays it (with reserve bookkeeping when reserve is non-nil), and
// classifies the result. ok is false when color has no legal move.
func (s *Searcher) AIMove(b *chess.Board, color chess.Color, reserve *chess.Reserve) (chess.Move, Outcome, bool) {
	res := s.Search(b, color)
	m, ok := s.Choose(res)
	if !ok {
		return chess.Move{}, Outcome{}, false
	}
	if _, err := Play(b, m, reserve, nil); err != nil {
		// search only hands out legal moves
		panic(err)
	}
	out := CheckGameState(b, color == chess.White, reserve)
	log.Info("engine moved", "color", color, "move", m.String(), "score", res.Score, "status", out.Status)
	return m, out, true
}

// AIMove is the one-shot form: search color's move at depth and play it.
func AIMove(b *chess.Board, color chess.Color, depth int) (chess.Move, Outcome, bool) {
	return NewSearcher(WithDepth(depth)).AIMove(b, color, nil)
}
