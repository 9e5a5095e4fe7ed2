package model

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbeisheim/housechess-backend/internal/chess"
	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/notation"
)

var log = slog.Default().With("package", "model")

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotSeated     = errors.New("player is not seated in this game")
	ErrGameOver      = errors.New("game is over")
	ErrGameFull      = errors.New("game is full")
	ErrNoPiece       = errors.New("no piece at from square")
	ErrWrongVariant  = errors.New("drops are only allowed in crazyhouse")
	ErrNotAuthorized = errors.New("not authorized to join this game")
)

type Variant string

const (
	Standard   Variant = "standard"
	Crazyhouse Variant = "crazyhouse"
)

// ParseVariant accepts the variant names; empty means standard.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", Standard:
		return Standard, nil
	case Crazyhouse:
		return Crazyhouse, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// MaxDepth bounds the engine's search depth for a served game.
const MaxDepth = 6

// ClampDepth maps depth into [1, MaxDepth], with 0 meaning the engine default.
func ClampDepth(depth int) int {
	switch {
	case depth == 0:
		return engine.DefaultDepth
	case depth < 1:
		return 1
	case depth > MaxDepth:
		return MaxDepth
	}
	return depth
}

// Settings are fixed when a game is created and survive Reset.
type Settings struct {
	Name        string
	Variant     Variant
	EngineColor *chess.Color
	Depth       int
	ClockTime   time.Duration
	Search      []engine.SearchOption
}

// The Game struct focuses on a single game's state and its observers. All
// board mutation happens under mu.
type Game struct {
	ID       string
	Name     string
	settings Settings

	mu         sync.Mutex
	board      *chess.Board
	reserve    *chess.Reserve
	toMove     chess.Color
	fullMove   int
	outcome    engine.Outcome
	resolve    string
	sound      string
	history    []Move
	captured   CapturedPieces
	lastMove   *chess.Move
	players    Players
	version    int
	searcher   *engine.Searcher
	whiteClock *Clock
	blackClock *Clock

	connections *GameConnections // Connections just for this game
}

type GameState struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Variant        Variant        `json:"variant"`
	Version        int            `json:"version"`
	Sound          string         `json:"sound"`
	Board          BoardState     `json:"boardState"`
	ToMove         chess.Color    `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Status         engine.Status  `json:"status"`
	Winner         *chess.Color   `json:"winner"`
	Resolve        *string        `json:"resolve"`
	Players        Players        `json:"players"`
	EngineColor    *chess.Color   `json:"engineColor"`
	Depth          int            `json:"depth"`
	LegalMoves     []string       `json:"legalMoves"`
	LastMove       *chess.Move    `json:"lastMove"`
}

func NewGame(id string, settings Settings) *Game {
	if settings.Variant == "" {
		settings.Variant = Standard
	}
	if settings.ClockTime <= 0 {
		settings.ClockTime = DefaultClockTime
	}
	settings.Depth = ClampDepth(settings.Depth)

	search := append([]engine.SearchOption{engine.WithDepth(settings.Depth)}, settings.Search...)
	g := &Game{
		ID:          id,
		Name:        settings.Name,
		settings:    settings,
		searcher:    engine.NewSearcher(search...),
		whiteClock:  NewClock(settings.ClockTime),
		blackClock:  NewClock(settings.ClockTime),
		connections: NewGameConnections(),
	}
	if c := settings.EngineColor; c != nil {
		*g.players.seat(*c) = ClientPlayer{ID: EngineID, Engine: true}
	}
	g.reset()
	return g
}

// reset puts the pieces back and, if the engine has white, lets it open.
func (g *Game) reset() {
	g.board = chess.StandardBoard()
	g.reserve = nil
	if g.settings.Variant == Crazyhouse {
		g.reserve = chess.NewReserve()
	}
	g.toMove = chess.White
	g.fullMove = 1
	g.outcome = engine.Outcome{Status: engine.Ongoing}
	g.resolve = ""
	g.sound = ""
	g.history = make([]Move, 0)
	g.captured = newCapturedPieces()
	g.lastMove = nil
	g.whiteClock.Reset(g.settings.ClockTime)
	g.blackClock.Reset(g.settings.ClockTime)
	g.engineReply()
}

func (g *Game) Variant() Variant {
	return g.settings.Variant
}

// AddPlayer seats playerID on the first free side. A player already seated
// gets their side back.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID == "" || playerID == EngineID {
		return chess.White, fmt.Errorf("%w: player id %q", ErrNotAuthorized, playerID)
	}
	if color, ok := g.players.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []chess.Color{chess.White, chess.Black} {
		seat := g.players.seat(color)
		if seat.ID == "" {
			seat.ID = playerID
			log.Info("player seated", "game", g.ID, "player", playerID, "color", color)
			g.broadcastState()
			return color, nil
		}
	}
	return chess.White, ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.players.colorOf(playerID)
	return ok
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

// state snapshots the game for clients. Nothing in it aliases live state.
func (g *Game) state() GameState {
	s := GameState{
		ID:             g.ID,
		Name:           g.Name,
		Variant:        g.settings.Variant,
		Version:        g.version,
		Sound:          g.sound,
		Board:          newBoardState(g.board, g.reserve, g.toMove, g.fullMove),
		ToMove:         g.toMove,
		MoveHistory:    append(make([]Move, 0, len(g.history)), g.history...),
		CapturedPieces: g.captured.clone(),
		Status:         g.outcome.Status,
		Players:        g.players,
		Depth:          g.settings.Depth,
		LegalMoves:     g.legalMoves(),
	}
	s.IsCheck = g.outcome.WhiteInCheck
	if g.toMove == chess.Black {
		s.IsCheck = g.outcome.BlackInCheck
	}
	if w := g.outcome.Winner; w != nil {
		winner := *w
		s.Winner = &winner
	}
	if g.resolve != "" {
		resolve := g.resolve
		s.Resolve = &resolve
	}
	if c := g.settings.EngineColor; c != nil {
		color := *c
		s.EngineColor = &color
	}
	if g.lastMove != nil {
		last := *g.lastMove
		s.LastMove = &last
	}
	s.Players.White.TimeLeft = g.whiteClock.tenths()
	s.Players.Black.TimeLeft = g.blackClock.tenths()
	return s
}

// LegalMoves lists the side to move's moves and drops in coordinate form.
func (g *Game) LegalMoves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.legalMoves()
}

func (g *Game) legalMoves() []string {
	out := make([]string, 0)
	if g.over() {
		return out
	}
	for _, m := range engine.GenerateMoves(g.board, g.toMove) {
		out = append(out, notation.FormatMove(g.board, m))
	}
	if g.reserve != nil {
		for _, m := range engine.GenerateDrops(g.board, g.reserve, g.toMove) {
			out = append(out, notation.FormatMove(g.board, m))
		}
	}
	return out
}

// MakeMove plays a relocation for playerID and, when the engine holds the
// other side, its reply.
func (g *Game) MakeMove(playerID string, req MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.checkTurn(playerID)
	if err != nil {
		return err
	}
	from, err := chess.ParseSquare(req.From)
	if err != nil {
		return fmt.Errorf("%w: %v", notation.ErrBadMove, err)
	}
	to, err := chess.ParseSquare(req.To)
	if err != nil {
		return fmt.Errorf("%w: %v", notation.ErrBadMove, err)
	}
	p := g.board.At(from)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if p.Color != color {
		return fmt.Errorf("%w: %s belongs to %s", ErrNotYourTurn, from, p.Color)
	}

	m := chess.Move{From: from, To: to}
	if req.Promotion != "" {
		kind, err := chess.ParseKind(req.Promotion)
		if err != nil || kind == chess.King || kind == chess.Pawn {
			return fmt.Errorf("%w: promotion to %q", notation.ErrBadMove, req.Promotion)
		}
		m.Promotion = kind
	}
	return g.humanMove(color, m)
}

// Drop places a reserve piece for playerID. Only crazyhouse games have a
// reserve.
func (g *Game) Drop(playerID string, req DropRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.settings.Variant != Crazyhouse {
		return ErrWrongVariant
	}
	color, err := g.checkTurn(playerID)
	if err != nil {
		return err
	}
	kind, err := chess.ParseKind(req.Piece)
	if err != nil {
		return fmt.Errorf("%w: %v", notation.ErrBadMove, err)
	}
	to, err := chess.ParseSquare(req.To)
	if err != nil {
		return fmt.Errorf("%w: %v", notation.ErrBadMove, err)
	}
	return g.humanMove(color, chess.NewDrop(color, kind, to))
}

// Reset starts the game over with the same seats and settings.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players.colorOf(playerID); !ok {
		return ErrNotSeated
	}
	g.reset()
	log.Info("game reset", "game", g.ID, "player", playerID)
	g.broadcastState()
	return nil
}

func (g *Game) over() bool {
	return g.outcome.Over() || g.resolve != ""
}

func (g *Game) clock(color chess.Color) *Clock {
	if color == chess.White {
		return g.whiteClock
	}
	return g.blackClock
}

// checkTurn returns playerID's side if they may move now. A player whose
// clock has run out loses on the spot.
func (g *Game) checkTurn(playerID string) (chess.Color, error) {
	if g.over() {
		return chess.White, ErrGameOver
	}
	color, ok := g.players.colorOf(playerID)
	if !ok {
		return color, ErrNotSeated
	}
	if color != g.toMove {
		return color, ErrNotYourTurn
	}
	if g.clock(color).Flagged() {
		g.clock(color).Stop()
		winner := color.Opposite()
		g.outcome.Winner = &winner
		g.resolve = "timeout"
		log.Info("flag fell", "game", g.ID, "color", color)
		g.broadcastState()
		return color, fmt.Errorf("%w: %s ran out of time", ErrGameOver, color)
	}
	return color, nil
}

func (g *Game) humanMove(color chess.Color, m chess.Move) error {
	before := g.board.Clone()
	if _, err := engine.Play(g.board, m, g.reserve, nil); err != nil {
		return err
	}
	out := engine.CheckGameState(g.board, color == chess.White, g.reserve)
	g.record(color, newPly(before, m), out)
	g.engineReply()
	g.broadcastState()
	return nil
}

// engineReply moves for the engine while it is the engine's turn. The search
// never drops, so a crazyhouse engine with no board move falls back to the
// first legal drop.
func (g *Game) engineReply() {
	if g.over() || !g.players.seat(g.toMove).Engine {
		return
	}
	color := g.toMove
	before := g.board.Clone()
	m, out, ok := g.searcher.AIMove(g.board, color, g.reserve)
	if !ok {
		drops := engine.GenerateDrops(g.board, g.reserve, color)
		if len(drops) == 0 {
			log.Error("engine has no move in a live game", "game", g.ID, "color", color)
			return
		}
		m = drops[0]
		if _, err := engine.Play(g.board, m, g.reserve, nil); err != nil {
			log.Error("engine drop rejected", "game", g.ID, "move", m.String(), "error", err)
			return
		}
		out = engine.CheckGameState(g.board, color == chess.White, g.reserve)
	}
	ply := newPly(before, m)
	ply.ByEngine = true
	g.record(color, ply, out)
}

// newPly describes m as seen on the board before it was played.
func newPly(before *chess.Board, m chess.Move) *Ply {
	ply := &Ply{Move: m, Notation: notation.FormatMove(before, m)}
	if m.Drop {
		ply.Piece = chess.Piece{Kind: m.Piece, Color: m.Color}
		return ply
	}
	mover := before.At(m.From)
	ply.Piece = *mover
	if captured := before.At(m.To); captured != nil {
		c := *captured
		ply.CapturedPiece = &c
	}
	if chess.IsCastle(mover, m.From, m.To) {
		from, to := chess.CastleRook(m.To)
		ply.CastleRookMove = &CastleRookMove{From: from, To: to}
	}
	return ply
}

// record books a played half-move: history, captures, clocks, outcome and
// the turn.
func (g *Game) record(color chess.Color, ply *Ply, out engine.Outcome) {
	g.clock(color).Stop()
	if ply.CapturedPiece != nil {
		g.captured.add(color, *ply.CapturedPiece)
	}

	switch {
	case out.Status == engine.Check || out.Status == engine.Checkmate:
		g.sound = "check"
	case ply.CapturedPiece != nil:
		g.sound = "capture"
	case ply.Move.Drop:
		g.sound = "drop"
	default:
		g.sound = "move"
	}

	last := len(g.history) - 1
	if color == chess.White || last < 0 || g.history[last].BlackPly != nil {
		g.history = append(g.history, Move{})
		last++
	}
	if color == chess.White {
		g.history[last].WhitePly = ply
	} else {
		g.history[last].BlackPly = ply
		g.fullMove++
	}

	m := ply.Move
	g.lastMove = &m
	g.outcome = out
	g.toMove = color.Opposite()
	if out.Over() {
		g.resolve = string(out.Status)
		log.Info("game over", "game", g.ID, "result", out.Status, "after", ply.Notation)
		return
	}
	g.clock(g.toMove).Start()
}
