// Package engine implements the capture/classify orchestrator: it sequences
// image acquisition, temporary upload, classification, ranking and cleanup
// for one cycle at a time, and the collection flow that uploads labeled
// photos and awards leaderboard points.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/siteseer/siteseer/internal/assets"
	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/leaderboard"
	"github.com/siteseer/siteseer/internal/model"
	"github.com/siteseer/siteseer/internal/service"
)

// Engine orchestrates classification cycles and collection uploads.
type Engine struct {
	assets         service.AssetStore
	classifier     service.Classifier
	boards         *leaderboard.Aggregator
	history        service.Storage
	logger         *slog.Logger
	onState        StateListener
	collectLimiter *rate.Limiter
	cfg            Config
	inFlight       atomic.Bool
}

// Config holds configuration options for the engine.
type Config struct {
	// PredictionLimit is how many ranked predictions a cycle returns.
	PredictionLimit int
	// UploadTimeout bounds the temporary upload step.
	UploadTimeout time.Duration
	// ClassifyTimeout bounds the classification step.
	ClassifyTimeout time.Duration
	// CleanupTimeout bounds the post-cycle delete of the temporary upload.
	CleanupTimeout time.Duration
	// CollectInterval is the minimum spacing between collection uploads.
	CollectInterval time.Duration
	// CollectPoints is how many points one collected photo earns.
	CollectPoints int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PredictionLimit: 3,
		UploadTimeout:   30 * time.Second,
		ClassifyTimeout: 60 * time.Second,
		CleanupTimeout:  15 * time.Second,
		CollectInterval: 5 * time.Second,
		CollectPoints:   1,
	}
}

// New creates an engine with the default configuration. boards and history
// may be nil; point awards and history persistence are then skipped.
// assetStore may be nil only for classifiers that score local bytes.
func New(assetStore service.AssetStore, classifier service.Classifier, boards *leaderboard.Aggregator, history service.Storage) *Engine {
	return NewWithConfig(assetStore, classifier, boards, history, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(assetStore service.AssetStore, classifier service.Classifier, boards *leaderboard.Aggregator, history service.Storage, cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.PredictionLimit <= 0 {
		cfg.PredictionLimit = defaults.PredictionLimit
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaults.UploadTimeout
	}
	if cfg.ClassifyTimeout <= 0 {
		cfg.ClassifyTimeout = defaults.ClassifyTimeout
	}
	if cfg.CleanupTimeout <= 0 {
		cfg.CleanupTimeout = defaults.CleanupTimeout
	}
	if cfg.CollectInterval <= 0 {
		cfg.CollectInterval = defaults.CollectInterval
	}
	if cfg.CollectPoints <= 0 {
		cfg.CollectPoints = defaults.CollectPoints
	}

	return &Engine{
		assets:         assetStore,
		classifier:     classifier,
		boards:         boards,
		history:        history,
		cfg:            cfg,
		collectLimiter: rate.NewLimiter(rate.Every(cfg.CollectInterval), 1),
		logger:         slog.Default(),
	}
}

// SetStateListener registers a listener for cycle state transitions. It must
// be called before the first cycle starts.
func (e *Engine) SetStateListener(listener StateListener) {
	e.onState = listener
}

// Classify runs one full classification cycle for the image at imagePath:
// read the bytes, upload them temporarily when the classifier needs a URL,
// classify, rank, and remove the temporary upload. Only one cycle may be in
// flight at a time; concurrent calls fail fast with ErrBusy.
func (e *Engine) Classify(ctx context.Context, imagePath string) (model.RankedPredictions, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, common.ErrBusy
	}
	defer e.inFlight.Store(false)
	// The cycle ends Idle on every path so no predicting indicator can stick.
	defer e.setState(StateIdle)

	if !e.classifier.Ready() {
		return nil, common.ErrNotReady
	}

	start := time.Now()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrAcquisition, imagePath, err)
	}

	img := service.Image{Data: data}

	if e.classifier.RequiresUpload() {
		if e.assets == nil {
			return nil, fmt.Errorf("%w: classifier requires an asset store", common.ErrMissingConfig)
		}
		e.setState(StateUploading)

		handle, uploadErr := e.uploadTemp(ctx, data)
		if uploadErr != nil {
			e.record(imagePath, nil, outcomeFor(uploadErr, model.OutcomeUploadFailed), start)
			return nil, uploadErr
		}
		// Exactly one delete per cycle that reached upload, on every path.
		defer e.cleanup(handle)

		url, urlErr := handle.RetrievalURL(ctx)
		if urlErr != nil {
			e.record(imagePath, nil, model.OutcomeUploadFailed, start)
			return nil, fmt.Errorf("%w: resolving retrieval URL: %v", common.ErrUpload, urlErr)
		}
		img.RetrievalURL = url
	}

	e.setState(StateClassifying)

	confidences, err := e.classify(ctx, img)
	if err != nil {
		e.record(imagePath, nil, outcomeFor(err, model.OutcomeClassifyFailed), start)
		return nil, err
	}

	e.setState(StateRanking)
	ranked := confidences.Rank(e.cfg.PredictionLimit)

	e.setState(StateDisplaying)
	e.record(imagePath, ranked, model.OutcomeClassified, start)

	e.logger.Info("classification cycle complete",
		"image", imagePath,
		"predictions", len(ranked),
		"duration", time.Since(start))
	return ranked, nil
}

// Collect uploads a labeled photo of a site, awards leaderboard points and
// records the collection. It shares the engine's single-flight guard with
// Classify and is rate limited to one upload per CollectInterval.
func (e *Engine) Collect(ctx context.Context, imagePath, site, userID string) (*model.CollectionRecord, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, common.ErrBusy
	}
	defer e.inFlight.Store(false)
	defer e.setState(StateIdle)

	if e.assets == nil {
		return nil, fmt.Errorf("%w: collection requires an asset store", common.ErrMissingConfig)
	}
	if !model.IsKnownSite(site) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownSite, site)
	}
	if userID == "" {
		userID = assets.AnonymousUserID
	}
	if !e.collectLimiter.Allow() {
		return nil, common.ErrUploadPaused
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrAcquisition, imagePath, err)
	}

	e.setState(StateUploading)

	uploadCtx, cancel := context.WithTimeout(ctx, e.cfg.UploadTimeout)
	defer cancel()

	handle, err := e.assets.UploadCollection(uploadCtx, site, userID, data)
	if err != nil {
		return nil, e.wrapUploadErr(uploadCtx, err)
	}

	record := &model.CollectionRecord{
		CollectedAt:   time.Now(),
		Site:          site,
		UserID:        userID,
		ObjectKey:     handle.Key(),
		PointsAwarded: e.cfg.CollectPoints,
	}

	if e.boards != nil {
		if awardErr := e.boards.AwardCollectionPoints(ctx, userID, site, e.cfg.CollectPoints); awardErr != nil {
			// The photo is uploaded; losing the points is worth surfacing
			// but not worth deleting the collected image over.
			e.logger.Error("failed to award collection points", "user", userID, "site", site, "error", awardErr)
			record.PointsAwarded = 0
		}
	}

	if e.history != nil {
		if saveErr := e.history.SaveCollection(ctx, record); saveErr != nil {
			e.logger.Warn("failed to record collection", "key", record.ObjectKey, "error", saveErr)
		}
	}

	e.logger.Info("collected photo", "site", site, "user", userID, "key", record.ObjectKey)
	return record, nil
}

// uploadTemp uploads image bytes under the temporary prediction prefix with
// the configured timeout, mapping deadline hits to ErrTimeout.
func (e *Engine) uploadTemp(ctx context.Context, data []byte) (service.AssetHandle, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, e.cfg.UploadTimeout)
	defer cancel()

	handle, err := e.assets.UploadTemp(uploadCtx, data)
	if err != nil {
		return nil, e.wrapUploadErr(uploadCtx, err)
	}
	return handle, nil
}

func (e *Engine) wrapUploadErr(uploadCtx context.Context, err error) error {
	if errors.Is(uploadCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: upload exceeded %s", common.ErrTimeout, e.cfg.UploadTimeout)
	}
	if errors.Is(err, common.ErrUpload) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrUpload, err)
}

// classify invokes the classifier with the configured timeout, mapping
// deadline hits to ErrTimeout.
func (e *Engine) classify(ctx context.Context, img service.Image) (model.Confidences, error) {
	classifyCtx, cancel := context.WithTimeout(ctx, e.cfg.ClassifyTimeout)
	defer cancel()

	confidences, err := e.classifier.Classify(classifyCtx, img)
	if err != nil {
		if errors.Is(classifyCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: classification exceeded %s", common.ErrTimeout, e.cfg.ClassifyTimeout)
		}
		if errors.Is(err, common.ErrClassify) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrClassify, err)
	}
	return confidences, nil
}

// cleanup deletes the cycle's temporary upload. It runs on a fresh context
// so a cancelled or timed-out cycle still cleans up, and failures are logged
// rather than surfaced.
func (e *Engine) cleanup(handle service.AssetHandle) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.CleanupTimeout)
	defer cancel()

	if err := handle.Delete(ctx); err != nil {
		e.logger.Warn("failed to remove temporary upload", "key", handle.Key(), "error", err)
	}
}

// record persists the cycle's outcome to history. History writes use a fresh
// context because the cycle's context may already be cancelled.
func (e *Engine) record(imagePath string, ranked model.RankedPredictions, outcome model.CycleOutcome, start time.Time) {
	if e.history == nil {
		return
	}

	record := &model.ClassificationRecord{
		ClassifiedAt: start,
		ImagePath:    imagePath,
		Outcome:      outcome,
		Duration:     time.Since(start),
	}
	if top := ranked.Top(); top != nil {
		record.TopClass = top.ClassName
		record.DisplayConfidence = top.DisplayConfidence
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.CleanupTimeout)
	defer cancel()

	if err := e.history.SaveClassification(ctx, record); err != nil {
		e.logger.Warn("failed to record classification", "image", imagePath, "error", err)
	}
}

func (e *Engine) setState(state CycleState) {
	e.logger.Debug("cycle state", "state", state)
	if e.onState != nil {
		e.onState(state)
	}
}

// outcomeFor maps a step error to the history outcome, distinguishing
// timeouts from the step's own failure mode.
func outcomeFor(err error, fallback model.CycleOutcome) model.CycleOutcome {
	if errors.Is(err, common.ErrTimeout) {
		return model.OutcomeTimedOut
	}
	return fallback
}
