package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cloud.google.com/go/storage"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/service"
)

const defaultSignedURLTTL = 15 * time.Minute

// GCSStore implements service.AssetStore on a Google Cloud Storage bucket.
type GCSStore struct {
	client       *storage.Client
	bucket       *storage.BucketHandle
	logger       *slog.Logger
	bucketName   string
	signedURLTTL time.Duration
}

// GCSConfig holds configuration for the asset store.
type GCSConfig struct {
	// Bucket is the storage bucket name.
	Bucket string
	// SignedURLTTL is how long retrieval URLs stay valid. It must cover at
	// least one classification round trip.
	SignedURLTTL time.Duration
}

// NewGCSStore creates an asset store on the configured bucket.
func NewGCSStore(ctx context.Context, cfg GCSConfig, logger *slog.Logger) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: asset store requires a bucket name", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}

	return &GCSStore{
		client:       client,
		bucket:       client.Bucket(cfg.Bucket),
		bucketName:   cfg.Bucket,
		signedURLTTL: ttl,
		logger:       logger,
	}, nil
}

// UploadTemp stores image bytes under a fresh temporary-prediction key.
func (s *GCSStore) UploadTemp(ctx context.Context, data []byte) (service.AssetHandle, error) {
	return s.upload(ctx, TempKey(time.Now()), data)
}

// UploadCollection stores a labeled photo under a site/user key.
func (s *GCSStore) UploadCollection(ctx context.Context, site, userID string, data []byte) (service.AssetHandle, error) {
	return s.upload(ctx, CollectionKey(site, userID, time.Now()), data)
}

func (s *GCSStore) upload(ctx context.Context, key string, data []byte) (service.AssetHandle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image bytes", common.ErrUpload)
	}

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = http.DetectContentType(data)

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: writing %s: %v", common.ErrUpload, key, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalizing %s: %v", common.ErrUpload, key, err)
	}

	s.logger.Debug("uploaded asset", "key", key, "bytes", len(data))

	return &gcsHandle{store: s, key: key}, nil
}

// Close releases the underlying storage client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// gcsHandle refers to one uploaded object. A handle goes stale after Delete.
type gcsHandle struct {
	store   *GCSStore
	key     string
	mu      sync.Mutex
	deleted bool
}

func (h *gcsHandle) Key() string {
	return h.key
}

// RetrievalURL returns a V4 signed URL valid for the store's configured TTL.
func (h *gcsHandle) RetrievalURL(_ context.Context) (string, error) {
	h.mu.Lock()
	stale := h.deleted
	h.mu.Unlock()
	if stale {
		return "", fmt.Errorf("%w: %s was already deleted", common.ErrStaleHandle, h.key)
	}

	url, err := h.store.bucket.SignedURL(h.key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(h.store.signedURLTTL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign retrieval URL for %s: %w", h.key, err)
	}
	return url, nil
}

// Delete removes the object. A second Delete on the same handle, or a delete
// of an object that no longer exists, fails with ErrDeletion; callers log
// that rather than surfacing it.
func (h *gcsHandle) Delete(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.deleted {
		return fmt.Errorf("%w: %s was already deleted", common.ErrDeletion, h.key)
	}

	if err := h.store.bucket.Object(h.key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			h.deleted = true
			return fmt.Errorf("%w: %s does not exist", common.ErrDeletion, h.key)
		}
		return fmt.Errorf("%w: %s: %v", common.ErrDeletion, h.key, err)
	}

	h.deleted = true
	return nil
}
