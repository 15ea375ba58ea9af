package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"cfb-pickem/models"
)

// MemoryStore keeps a thread-safe copy of all pick'em data in memory.
// Every read and write copies records so callers never share state with the store.
type MemoryStore struct {
	mu           sync.RWMutex
	games        map[string]*models.Game
	predictions  map[string]*models.Prediction
	achievements map[string]models.Achievement
	users        map[string]*models.User
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:        make(map[string]*models.Game),
		predictions:  make(map[string]*models.Prediction),
		achievements: make(map[string]models.Achievement),
		users:        make(map[string]*models.User),
	}
}

// NewMemoryBundle wraps a MemoryStore as a Store
func NewMemoryBundle(m *MemoryStore) *Store {
	return &Store{
		Driver:       DriverMemory,
		Games:        m,
		Predictions:  m,
		Achievements: m,
		Users:        m,
	}
}

func (s *MemoryStore) GetGame(_ context.Context, id string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, nil
	}
	return g.Clone(), nil
}

func (s *MemoryStore) ListGames(_ context.Context) ([]*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Game, 0, len(s.games))
	for _, g := range s.games {
		result = append(result, g.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) SaveGame(_ context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[game.ID] = game.Clone()
	return nil
}

func (s *MemoryStore) GetPrediction(_ context.Context, user, gameID string) (*models.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.predictions[models.PredictionKey(user, gameID)]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (s *MemoryStore) UpsertPrediction(_ context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := p.Clone()
	if existing, ok := s.predictions[p.Key()]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	s.predictions[p.Key()] = stored
	return nil
}

func (s *MemoryStore) ListPredictions(_ context.Context) ([]*models.Prediction, error) {
	return s.filterPredictions(func(*models.Prediction) bool { return true }), nil
}

func (s *MemoryStore) ListPredictionsByUser(_ context.Context, user string) ([]*models.Prediction, error) {
	return s.filterPredictions(func(p *models.Prediction) bool { return p.User == user }), nil
}

func (s *MemoryStore) ListPredictionsByGame(_ context.Context, gameID string) ([]*models.Prediction, error) {
	return s.filterPredictions(func(p *models.Prediction) bool { return p.GameID == gameID }), nil
}

func (s *MemoryStore) filterPredictions(keep func(*models.Prediction) bool) []*models.Prediction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Prediction, 0)
	for _, p := range s.predictions {
		if keep(p) {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].User != result[j].User {
			return result[i].User < result[j].User
		}
		return result[i].GameID < result[j].GameID
	})
	return result
}

func (s *MemoryStore) Award(_ context.Context, a models.Achievement) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := a.User + "\x00" + string(a.Badge)
	if _, ok := s.achievements[key]; ok {
		return false, nil
	}
	s.achievements[key] = a
	return true, nil
}

func (s *MemoryStore) ListAchievements(_ context.Context, user string) ([]models.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Achievement, 0)
	for _, a := range s.achievements {
		if a.User == user {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Badge < result[j].Badge })
	return result, nil
}

func (s *MemoryStore) EnsureUser(_ context.Context, username string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; !ok {
		s.users[username] = &models.User{Username: username, CreatedAt: now}
	}
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (s *MemoryStore) ClaimUser(_ context.Context, user *models.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *user
	if existing, ok := s.users[user.Username]; ok {
		if existing.HasPassword() {
			return false, nil
		}
		c.CreatedAt = existing.CreatedAt
	}
	s.users[user.Username] = &c
	return true, nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}
