// Package economy manages the games wallet: hearts with timed
// regeneration, coins, score and per-game progress. Everything lives in a
// single GamesState record, so each operation is one read-modify-write of
// that key.
package economy

import (
	"sort"
	"time"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

const (
	MaxHearts     = 5
	HeartCooldown = 20 * time.Minute
	LevelsMax     = 25
)

// DefaultState seeds a fresh wallet. The leaderboard ships with demo
// entries so the ranking page is never empty.
func DefaultState() models.GamesState {
	return models.GamesState{
		Hearts: MaxHearts,
		Leaderboard: []models.LeaderboardEntry{
			{Handle: "maria", Score: 320},
			{Handle: "juan", Score: 220},
			{Handle: "carlos", Score: 180},
		},
		Progress: map[string]models.GameProgress{},
	}
}

type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// State returns the current wallet, with defaults merged in for fields a
// stale record may lack.
func (s *Service) State() models.GamesState {
	st := store.Read(s.store, store.KeyGamesState, DefaultState())
	if st.Progress == nil {
		st.Progress = map[string]models.GameProgress{}
	}
	if st.Hearts < 0 {
		st.Hearts = 0
	}
	if st.Hearts > MaxHearts {
		st.Hearts = MaxHearts
	}
	return st
}

func (s *Service) update(fn func(*models.GamesState)) (models.GamesState, error) {
	return store.Update(s.store, store.KeyGamesState, DefaultState(), func(st models.GamesState) models.GamesState {
		if st.Progress == nil {
			st.Progress = map[string]models.GameProgress{}
		}
		fn(&st)
		return st
	})
}

// AddCoins credits n coins; non-positive amounts are ignored.
func (s *Service) AddCoins(n int) (models.GamesState, error) {
	if n <= 0 {
		return s.State(), nil
	}
	return s.update(func(st *models.GamesState) { st.Coins += n })
}

// SpendCoins debits n coins. It reports false and leaves the balance
// untouched when the balance is short.
func (s *Service) SpendCoins(n int) (bool, error) {
	if n <= 0 {
		return false, nil
	}
	ok := false
	_, err := s.update(func(st *models.GamesState) {
		if st.Coins >= n {
			st.Coins -= n
			ok = true
		}
	})
	return ok, err
}

// SpendHearts removes up to count hearts and starts the regeneration
// cooldown if one is not already running.
func (s *Service) SpendHearts(count int) (models.GamesState, error) {
	if count <= 0 {
		return s.State(), nil
	}
	return s.update(func(st *models.GamesState) {
		st.Hearts -= count
		if st.Hearts < 0 {
			st.Hearts = 0
		}
		if st.Hearts < MaxHearts && st.NextHeartAt == nil {
			at := s.now().Add(HeartCooldown)
			st.NextHeartAt = &at
		}
	})
}

// RefillHearts restores hearts to the maximum and cancels the cooldown.
func (s *Service) RefillHearts() (models.GamesState, error) {
	return s.update(func(st *models.GamesState) {
		st.Hearts = MaxHearts
		st.NextHeartAt = nil
	})
}

// Tick grants one heart when the cooldown has elapsed, scheduling the next
// cooldown only while still below the maximum. Call it periodically; a
// tick with nothing due is a no-op.
func (s *Service) Tick() (models.GamesState, error) {
	now := s.now()
	return s.update(func(st *models.GamesState) {
		if st.Hearts >= MaxHearts || st.NextHeartAt == nil {
			return
		}
		if now.Before(*st.NextHeartAt) {
			return
		}
		st.Hearts++
		if st.Hearts > MaxHearts {
			st.Hearts = MaxHearts
		}
		if st.Hearts < MaxHearts {
			at := now.Add(HeartCooldown)
			st.NextHeartAt = &at
		} else {
			st.NextHeartAt = nil
		}
	})
}

// AddScore adds n to the total score; non-positive amounts are ignored.
func (s *Service) AddScore(n int) (models.GamesState, error) {
	if n <= 0 {
		return s.State(), nil
	}
	return s.update(func(st *models.GamesState) { st.TotalScore += n })
}

// CompleteLevel advances a game's completion count, capped at LevelsMax.
func (s *Service) CompleteLevel(gameID string) (models.GameProgress, error) {
	var out models.GameProgress
	_, err := s.update(func(st *models.GamesState) {
		p := st.Progress[gameID]
		if p.Completed < LevelsMax {
			p.Completed++
		}
		st.Progress[gameID] = p
		out = p
	})
	return out, err
}

// SyncLeaderboard upserts handle with the wallet's current total score and
// re-sorts the board descending.
func (s *Service) SyncLeaderboard(handle string) ([]models.LeaderboardEntry, error) {
	var out []models.LeaderboardEntry
	_, err := s.update(func(st *models.GamesState) {
		placed := false
		for i := range st.Leaderboard {
			if st.Leaderboard[i].Handle == handle {
				st.Leaderboard[i].Score = st.TotalScore
				placed = true
				break
			}
		}
		if !placed {
			st.Leaderboard = append(st.Leaderboard, models.LeaderboardEntry{Handle: handle, Score: st.TotalScore})
		}
		sort.SliceStable(st.Leaderboard, func(i, j int) bool {
			return st.Leaderboard[i].Score > st.Leaderboard[j].Score
		})
		out = st.Leaderboard
	})
	return out, err
}
