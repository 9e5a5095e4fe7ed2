// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"

	"github.com/benbeisheim/housechess-backend/internal/model"
)

var log = slog.Default().With("package", "service")

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameManager owns every live game. Each game guards its own board; mu only
// guards the maps.
type GameManager struct {
	games    map[string]*model.Game
	queue    *model.Queue
	matches  map[string]model.MatchFoundEvent // playerID -> pairing not yet collected
	defaults model.Settings
	mu       sync.RWMutex
}

func NewGameManager(defaults model.Settings) *GameManager {
	return &GameManager{
		games:    make(map[string]*model.Game),
		queue:    model.NewQueue(),
		matches:  make(map[string]model.MatchFoundEvent),
		defaults: defaults,
	}
}

// Defaults are the settings a game gets for anything its creator leaves out.
func (gm *GameManager) Defaults() model.Settings {
	return gm.defaults
}

// CreateGame registers a new game under a fresh uuid and a readable name.
func (gm *GameManager) CreateGame(settings model.Settings) (*model.Game, error) {
	return gm.createGame(uuid.New().String(), settings)
}

func (gm *GameManager) createGame(gameID string, settings model.Settings) (*model.Game, error) {
	if settings.Name == "" {
		settings.Name = petname.Generate(2, "-")
	}
	if settings.Search == nil {
		settings.Search = gm.defaults.Search
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	game := model.NewGame(gameID, settings)
	gm.games[gameID] = game
	log.Info("game created", "game", gameID, "name", settings.Name, "variant", game.Variant())
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(gm.games, gameID)
	return nil
}

func (gm *GameManager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// JoinMatchmaking queues playerID for a human opponent and pairs the queue.
// The returned event is non-nil when playerID was paired right away; the
// opponent collects theirs with MatchFor.
func (gm *GameManager) JoinMatchmaking(playerID string, variant model.Variant) (*model.MatchFoundEvent, error) {
	if err := gm.queue.AddPlayer(playerID, variant); err != nil {
		return nil, err
	}

	first, second, ok := gm.queue.GetNextPair()
	if !ok {
		return nil, nil
	}
	settings := gm.defaults
	settings.Name = ""
	settings.Variant = first.Variant
	settings.EngineColor = nil
	game, err := gm.CreateGame(settings)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	var mine *model.MatchFoundEvent
	for _, p := range []model.QueuedPlayer{first, second} {
		color, err := game.AddPlayer(p.ID)
		if err != nil {
			return nil, err
		}
		event := model.MatchFoundEvent{GameID: game.ID, Name: game.Name, Color: color}
		if p.ID == playerID {
			mine = &event
			continue
		}
		gm.matches[p.ID] = event
	}
	log.Info("players matched", "game", game.ID, "white", first.ID, "black", second.ID)
	return mine, nil
}

// MatchFor hands out, once, the pairing made for a queued player.
func (gm *GameManager) MatchFor(playerID string) (model.MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	event, ok := gm.matches[playerID]
	if ok {
		delete(gm.matches, playerID)
	}
	return event, ok
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}
