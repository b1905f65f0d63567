package assets

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempKey(t *testing.T) {
	now := time.UnixMilli(1587400000000)

	key := TempKey(now)
	assert.True(t, strings.HasPrefix(key, TempPrefix))
	assert.Contains(t, key, "1587400000000-")
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}

func TestTempKey_CollisionResistant(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := TempKey(now)
		require.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestCollectionKey(t *testing.T) {
	now := time.UnixMilli(1587400000000)

	tests := []struct {
		name       string
		site       string
		userID     string
		wantPrefix string
	}{
		{
			name:       "site and user",
			site:       "Rotunda",
			userID:     "mst3k",
			wantPrefix: "Rotunda/mst3k:1587400000000-",
		},
		{
			name:       "empty user falls back to ANON",
			site:       "Rice Hall",
			userID:     "",
			wantPrefix: "Rice Hall/ANON:1587400000000-",
		},
		{
			name:       "slashes in site names cannot nest keys",
			site:       "Jefferson Hall/Hotel",
			userID:     "mst3k",
			wantPrefix: "Jefferson Hall-Hotel/mst3k:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := CollectionKey(tt.site, tt.userID, now)
			assert.True(t, strings.HasPrefix(key, tt.wantPrefix), "got %s", key)
			assert.False(t, strings.HasPrefix(key, TempPrefix))
		})
	}
}
