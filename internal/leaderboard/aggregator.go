// Package leaderboard aggregates collection scores into ranked boards.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/siteseer/siteseer/internal/model"
	"github.com/siteseer/siteseer/internal/service"
)

// Backing store keys for the two boards.
const (
	// BoardUsers maps user IDs to points earned collecting photos.
	BoardUsers = "leaderboard"
	// BoardSites maps site names to how many photos were collected for them.
	BoardSites = "siteTotals"
)

// DefaultUserCap limits the users board to its top entries. The sites board
// is never capped.
const DefaultUserCap = 100

// Aggregator builds ranked leaderboards from a flat score mapping.
type Aggregator struct {
	store   service.ScoreStore
	logger  *slog.Logger
	userCap int
}

// NewAggregator creates an aggregator over the given score store. A userCap
// of zero or less falls back to DefaultUserCap.
func NewAggregator(store service.ScoreStore, userCap int, logger *slog.Logger) *Aggregator {
	if userCap <= 0 {
		userCap = DefaultUserCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		store:   store,
		userCap: userCap,
		logger:  logger,
	}
}

// Fetch reads the full mapping for a board in one round trip, sorts it
// descending by score and assigns sequential 1-based places. Ties keep the
// backing store's arrival order, which is implementation defined. An empty
// board yields an empty slice.
func (a *Aggregator) Fetch(ctx context.Context, board string) (model.LeaderboardEntries, error) {
	scores, err := a.store.Scores(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch board %s: %w", board, err)
	}

	entries := make(model.LeaderboardEntries, 0, len(scores))
	for key, value := range scores {
		entries = append(entries, model.LeaderboardEntry{Key: key, Value: value})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	if board == BoardUsers && len(entries) > a.userCap {
		entries = entries[:a.userCap]
	}

	for i := range entries {
		entries[i].Place = i + 1
	}

	a.logger.Debug("fetched leaderboard", "board", board, "entries", len(entries))
	return entries, nil
}

// AwardCollectionPoints credits a successful collection: the user earns
// points and the site's photo count grows by one. An empty user ID is not
// awarded; callers substitute ANON first.
func (a *Aggregator) AwardCollectionPoints(ctx context.Context, userID, site string, points int64) error {
	if userID == "" {
		return nil
	}

	total, err := a.store.Increment(ctx, BoardUsers, userID, points)
	if err != nil {
		return fmt.Errorf("failed to award points to %s: %w", userID, err)
	}

	if _, err := a.store.Increment(ctx, BoardSites, site, 1); err != nil {
		return fmt.Errorf("failed to count photo for %s: %w", site, err)
	}

	a.logger.Info("awarded collection points",
		"user", userID,
		"site", site,
		"points", points,
		"total", total)
	return nil
}
