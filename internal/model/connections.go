package model

import (
	"fmt"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/housechess-backend/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game. Writes to every connection go
// through writeMu, and states older than the last one sent are dropped.
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex

	writeMu     sync.Mutex
	lastVersion int
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
		lastVersion: -1,
	}
}

func (gc *GameConnections) snapshot() map[string]Conn {
	gc.mu.RLock()
	defer gc.mu.RUnlock()

	active := make(map[string]Conn, len(gc.connections))
	for playerID, conn := range gc.connections {
		active[playerID] = conn
	}
	return active
}

func (gc *GameConnections) drop(playerID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.connections[playerID] == conn {
		delete(gc.connections, playerID)
	}
}

func (gc *GameConnections) Len() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// Send writes one message to conn, serialized with broadcasts.
func (gc *GameConnections) Send(conn Conn, msg ws.Message) error {
	gc.writeMu.Lock()
	defer gc.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

func (gc *GameConnections) broadcast(state GameState) {
	gc.writeMu.Lock()
	defer gc.writeMu.Unlock()

	if state.Version <= gc.lastVersion {
		return
	}
	gc.lastVersion = state.Version

	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Error("failed to marshal state", "game", state.ID, "error", err)
		return
	}
	for playerID, conn := range gc.snapshot() {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn("failed to send state", "game", state.ID, "player", playerID, "error", err)
			gc.drop(playerID, conn)
		}
	}
}

// RegisterConnection attaches a player's socket to the game. Seated players
// may always connect; others only while a seat is open. A second socket for
// the same player is refused with a close frame.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, seated := g.players.colorOf(playerID)
	isAuthorized := seated || !g.players.full()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debug("connection registered", "game", g.ID, "player", playerID, "conn", fmt.Sprintf("%p", conn))

	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcastState()
	return nil
}

// UnregisterConnection forgets playerID's socket if conn is still the one on
// record.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.drop(playerID, conn)
	log.Debug("connection unregistered", "game", g.ID, "player", playerID)
}

// Send writes msg to one of this game's sockets.
func (g *Game) Send(conn Conn, msg ws.Message) error {
	return g.connections.Send(conn, msg)
}

// broadcastState bumps the version and pushes a snapshot to every socket in
// the background. Callers hold g.mu.
func (g *Game) broadcastState() {
	g.version++
	state := g.state()
	go g.connections.broadcast(state)
}
