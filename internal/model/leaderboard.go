package model

// LeaderboardEntry is one row of a leaderboard: an identifier (user ID or
// site name), its score, and its 1-based place.
type LeaderboardEntry struct {
	Key   string
	Value int64
	Place int
}

// LeaderboardEntries is an ordered leaderboard, highest score first.
type LeaderboardEntries []LeaderboardEntry
