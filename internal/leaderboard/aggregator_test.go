package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteseer/siteseer/internal/model"
)

// memoryScoreStore is an in-memory ScoreStore for tests.
type memoryScoreStore struct {
	boards map[string]map[string]int64
	err    error
	mu     sync.Mutex
}

func newMemoryScoreStore() *memoryScoreStore {
	return &memoryScoreStore{boards: make(map[string]map[string]int64)}
}

func (s *memoryScoreStore) Scores(_ context.Context, board string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]int64, len(s.boards[board]))
	for k, v := range s.boards[board] {
		out[k] = v
	}
	return out, nil
}

func (s *memoryScoreStore) Increment(_ context.Context, board, key string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if s.boards[board] == nil {
		s.boards[board] = make(map[string]int64)
	}
	s.boards[board][key] += delta
	return s.boards[board][key], nil
}

func TestAggregator_Fetch(t *testing.T) {
	tests := []struct {
		scores    map[string]int64
		name      string
		board     string
		wantOrder []string
	}{
		{
			name:  "distinct scores sort descending",
			board: BoardUsers,
			scores: map[string]int64{
				"mst3k": 10,
				"abc2d": 30,
				"xyz9q": 20,
			},
			wantOrder: []string{"abc2d", "xyz9q", "mst3k"},
		},
		{
			name:      "empty board yields empty slice",
			board:     BoardUsers,
			scores:    map[string]int64{},
			wantOrder: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryScoreStore()
			store.boards[tt.board] = tt.scores

			agg := NewAggregator(store, 0, nil)
			entries, err := agg.Fetch(context.Background(), tt.board)
			require.NoError(t, err)
			require.Len(t, entries, len(tt.wantOrder))

			for i, want := range tt.wantOrder {
				assert.Equal(t, want, entries[i].Key)
				assert.Equal(t, i+1, entries[i].Place)
			}
		})
	}
}

func TestAggregator_FetchTiedScores(t *testing.T) {
	store := newMemoryScoreStore()
	store.boards[BoardUsers] = map[string]int64{
		"u1": 10,
		"u2": 30,
		"u3": 30,
	}

	agg := NewAggregator(store, 0, nil)
	entries, err := agg.Fetch(context.Background(), BoardUsers)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Either ordering of the tied pair is fine, but places must be 1,2,3
	// with no duplicates or gaps.
	assert.ElementsMatch(t, []string{"u2", "u3"}, []string{entries[0].Key, entries[1].Key})
	assert.Equal(t, int64(30), entries[0].Value)
	assert.Equal(t, int64(30), entries[1].Value)
	assert.Equal(t, model.LeaderboardEntry{Key: "u1", Value: 10, Place: 3}, entries[2])
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Place)
	}
}

func TestAggregator_FetchCapsUsersBoardOnly(t *testing.T) {
	store := newMemoryScoreStore()
	for i := 0; i < 150; i++ {
		key := fmt.Sprintf("user%03d", i)
		store.boards[BoardUsers] = appendScore(store.boards[BoardUsers], key, int64(i))
		store.boards[BoardSites] = appendScore(store.boards[BoardSites], key, int64(i))
	}

	agg := NewAggregator(store, 100, nil)

	users, err := agg.Fetch(context.Background(), BoardUsers)
	require.NoError(t, err)
	assert.Len(t, users, 100)
	// Cap is applied after sorting, so the top scores survive.
	assert.Equal(t, int64(149), users[0].Value)
	assert.Equal(t, 1, users[0].Place)
	assert.Equal(t, int64(50), users[99].Value)

	sites, err := agg.Fetch(context.Background(), BoardSites)
	require.NoError(t, err)
	assert.Len(t, sites, 150)
}

func TestAggregator_FetchPropagatesStoreErrors(t *testing.T) {
	store := newMemoryScoreStore()
	store.err = errors.New("connection refused")

	agg := NewAggregator(store, 0, nil)
	_, err := agg.Fetch(context.Background(), BoardUsers)
	require.Error(t, err)
}

func TestAggregator_AwardCollectionPoints(t *testing.T) {
	store := newMemoryScoreStore()
	agg := NewAggregator(store, 0, nil)

	require.NoError(t, agg.AwardCollectionPoints(context.Background(), "mst3k", "Rotunda", 1))
	require.NoError(t, agg.AwardCollectionPoints(context.Background(), "mst3k", "Rotunda", 1))

	assert.Equal(t, int64(2), store.boards[BoardUsers]["mst3k"])
	assert.Equal(t, int64(2), store.boards[BoardSites]["Rotunda"])
}

func TestAggregator_AwardSkipsEmptyUser(t *testing.T) {
	store := newMemoryScoreStore()
	agg := NewAggregator(store, 0, nil)

	require.NoError(t, agg.AwardCollectionPoints(context.Background(), "", "Rotunda", 1))
	assert.Empty(t, store.boards[BoardUsers])
	assert.Empty(t, store.boards[BoardSites])
}

func appendScore(m map[string]int64, key string, value int64) map[string]int64 {
	if m == nil {
		m = make(map[string]int64)
	}
	m[key] = value
	return m
}
