// Package classify provides the classifier implementations that score an
// image against the fixed landmark class list. Two interchangeable variants
// exist: a remote HTTP prediction endpoint and a local ONNX model.
package classify

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/siteseer/siteseer/internal/service"
)

// Config holds configuration for building a classifier.
type Config struct {
	// Provider selects the variant: "remote" or "local".
	Provider string
	// Endpoint is the remote prediction URL (remote only).
	Endpoint string
	// ModelPath is the ONNX model file (local only).
	ModelPath string
	// ClassNames is the ordered class label list. For the local variant the
	// order must match the model's output vector positionally.
	ClassNames []string
	// ImageSize is the square input edge the local model expects.
	ImageSize int
	// HTTPTimeout bounds one remote prediction request.
	HTTPTimeout time.Duration
}

// NewClassifier creates a classifier for the configured provider.
func NewClassifier(cfg Config, logger *slog.Logger) (service.Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.ClassNames) == 0 {
		return nil, fmt.Errorf("classifier requires a class name list")
	}

	switch strings.ToLower(cfg.Provider) {
	case "remote":
		return newRemoteClassifier(cfg, logger)
	case "local":
		return newLocalClassifier(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", cfg.Provider)
	}
}
