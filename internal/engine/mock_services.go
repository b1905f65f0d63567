package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/model"
	"github.com/siteseer/siteseer/internal/service"
)

// mockAssetStore is an in-memory AssetStore with failure and delay injection
// for engine tests.
type mockAssetStore struct {
	deletes     map[string]int
	uploadErr   error
	urlErr      error
	deleteErr   error
	uploads     []string
	uploadDelay time.Duration
	nextKey     int
	mu          sync.Mutex
}

func newMockAssetStore() *mockAssetStore {
	return &mockAssetStore{deletes: make(map[string]int)}
}

func (s *mockAssetStore) UploadTemp(ctx context.Context, data []byte) (service.AssetHandle, error) {
	return s.upload(ctx, "temp_prediction_images/", data)
}

func (s *mockAssetStore) UploadCollection(ctx context.Context, site, userID string, data []byte) (service.AssetHandle, error) {
	return s.upload(ctx, site+"/"+userID+":", data)
}

func (s *mockAssetStore) upload(ctx context.Context, prefix string, data []byte) (service.AssetHandle, error) {
	if s.uploadDelay > 0 {
		select {
		case <-time.After(s.uploadDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image bytes", common.ErrUpload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextKey++
	key := fmt.Sprintf("%s%d.jpg", prefix, s.nextKey)
	s.uploads = append(s.uploads, key)
	return &mockAssetHandle{store: s, key: key}, nil
}

func (s *mockAssetStore) SweepTemp(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}

func (s *mockAssetStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *mockAssetStore) deleteCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes[key]
}

func (s *mockAssetStore) totalDeletes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.deletes {
		total += n
	}
	return total
}

type mockAssetHandle struct {
	store   *mockAssetStore
	key     string
	deleted bool
	mu      sync.Mutex
}

func (h *mockAssetHandle) Key() string {
	return h.key
}

func (h *mockAssetHandle) RetrievalURL(_ context.Context) (string, error) {
	if h.store.urlErr != nil {
		return "", h.store.urlErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.deleted {
		return "", fmt.Errorf("%w: %s", common.ErrStaleHandle, h.key)
	}
	return "https://fake.store/" + h.key, nil
}

func (h *mockAssetHandle) Delete(_ context.Context) error {
	h.store.mu.Lock()
	h.store.deletes[h.key]++
	h.store.mu.Unlock()

	if h.store.deleteErr != nil {
		return h.store.deleteErr
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.deleted {
		return fmt.Errorf("%w: %s was already deleted", common.ErrDeletion, h.key)
	}
	h.deleted = true
	return nil
}

// mockClassifier returns canned confidences with optional delay, error and
// readiness injection.
type mockClassifier struct {
	err            error
	confidences    model.Confidences
	delay          time.Duration
	calls          int
	lastImage      service.Image
	ready          bool
	requiresUpload bool
	mu             sync.Mutex
}

func (c *mockClassifier) Classify(ctx context.Context, img service.Image) (model.Confidences, error) {
	c.mu.Lock()
	c.calls++
	c.lastImage = img
	delay := c.delay
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.confidences, nil
}

func (c *mockClassifier) Ready() bool {
	return c.ready
}

func (c *mockClassifier) RequiresUpload() bool {
	return c.requiresUpload
}

func (c *mockClassifier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *mockClassifier) classifiedImage() service.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastImage
}

// mockScoreStore is an in-memory ScoreStore.
type mockScoreStore struct {
	boards map[string]map[string]int64
	mu     sync.Mutex
}

func newMockScoreStore() *mockScoreStore {
	return &mockScoreStore{boards: make(map[string]map[string]int64)}
}

func (s *mockScoreStore) Scores(_ context.Context, board string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.boards[board]))
	for k, v := range s.boards[board] {
		out[k] = v
	}
	return out, nil
}

func (s *mockScoreStore) Increment(_ context.Context, board, key string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.boards[board] == nil {
		s.boards[board] = make(map[string]int64)
	}
	s.boards[board][key] += delta
	return s.boards[board][key], nil
}

func (s *mockScoreStore) score(board, key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boards[board][key]
}
