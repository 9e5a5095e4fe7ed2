package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/housechess-backend/internal/chess"
)

type QueuedPlayer struct {
	ID       string
	Variant  Variant
	JoinedAt time.Time
}

// MatchFoundEvent tells a queued player which game they were paired into.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Name   string      `json:"name"`
	Color  chess.Color `json:"color"`
}

// Queue holds players waiting for a human opponent, oldest first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string, variant Variant) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.ID == playerID {
			return fmt.Errorf("player %s already in queue", playerID)
		}
	}

	q.players = append(q.players, QueuedPlayer{
		ID:       playerID,
		Variant:  variant,
		JoinedAt: time.Now(),
	})
	return nil
}

// Remove takes playerID out of the queue and reports whether it was there.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// GetNextPair removes and returns the two longest-waiting players who asked
// for the same variant.
func (q *Queue) GetNextPair() (QueuedPlayer, QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.players {
		for j := i + 1; j < len(q.players); j++ {
			if q.players[i].Variant != q.players[j].Variant {
				continue
			}
			first, second := q.players[i], q.players[j]
			q.players = append(q.players[:j], q.players[j+1:]...)
			q.players = append(q.players[:i], q.players[i+1:]...)
			return first, second, true
		}
	}
	return QueuedPlayer{}, QueuedPlayer{}, false
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
