// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/siteseer/siteseer/internal/model"
)

// AssetHandle refers to one uploaded blob. It can resolve a time-limited
// retrieval URL and delete the blob. A handle becomes stale after Delete.
type AssetHandle interface {
	// Key returns the object key the blob was stored under.
	Key() string
	// RetrievalURL returns a URL valid for at least one classification
	// round trip.
	RetrievalURL(ctx context.Context) (string, error)
	// Delete removes the blob. Deleting an already-deleted handle fails.
	Delete(ctx context.Context) error
}

// AssetStore uploads images to a remote blob store under generated keys.
type AssetStore interface {
	// UploadTemp stores image bytes under a fresh temporary-prediction key.
	UploadTemp(ctx context.Context, data []byte) (AssetHandle, error)
	// UploadCollection stores a labeled photo under a site/user key.
	UploadCollection(ctx context.Context, site, userID string, data []byte) (AssetHandle, error)
	// SweepTemp deletes temporary-prediction blobs older than olderThan and
	// returns how many were removed.
	SweepTemp(ctx context.Context, olderThan time.Duration) (int, error)
}

// Image is the input to one classification request. Remote classifiers read
// RetrievalURL; local classifiers read Data.
type Image struct {
	RetrievalURL string
	Data         []byte
}

// Classifier produces per-class confidence scores for an image.
type Classifier interface {
	// Classify scores the image against the fixed class list.
	Classify(ctx context.Context, img Image) (model.Confidences, error)
	// Ready reports whether the model or connection is ready. Classify must
	// not be called before Ready returns true.
	Ready() bool
	// RequiresUpload reports whether the classifier needs the image uploaded
	// to the asset store first so it can fetch it by URL.
	RequiresUpload() bool
}

// ScoreStore is the flat identifier-to-score mapping backing a leaderboard.
type ScoreStore interface {
	// Scores fetches the full mapping for one board in a single round trip.
	Scores(ctx context.Context, board string) (map[string]int64, error)
	// Increment atomically adds delta to key's score and returns the new value.
	Increment(ctx context.Context, board, key string, delta int64) (int64, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Classification history
	SaveClassification(ctx context.Context, record *model.ClassificationRecord) error
	ListClassifications(ctx context.Context, limit int) ([]model.ClassificationRecord, error)

	// Collection history
	SaveCollection(ctx context.Context, record *model.CollectionRecord) error
	ListCollections(ctx context.Context, limit int) ([]model.CollectionRecord, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations that may fail transiently.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
