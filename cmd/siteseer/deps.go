package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siteseer/siteseer/internal/assets"
	"github.com/siteseer/siteseer/internal/classify"
	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/engine"
	"github.com/siteseer/siteseer/internal/leaderboard"
	"github.com/siteseer/siteseer/internal/service"
	"github.com/siteseer/siteseer/internal/storage"
)

func buildClassifier() (service.Classifier, error) {
	return classify.NewClassifier(classify.Config{
		Provider:    cfg.Classifier.Provider,
		Endpoint:    cfg.Classifier.Endpoint,
		ModelPath:   cfg.Classifier.ModelPath,
		ClassNames:  cfg.Classifier.ClassNames,
		ImageSize:   cfg.Classifier.ImageSize,
		HTTPTimeout: cfg.Classifier.Timeout,
	}, slog.Default())
}

func buildAssetStore(ctx context.Context) (*assets.GCSStore, error) {
	store, err := assets.NewGCSStore(ctx, assets.GCSConfig{
		Bucket:       cfg.Assets.Bucket,
		SignedURLTTL: cfg.Assets.SignedURLTTL,
	}, slog.Default())
	if err != nil {
		return nil, common.NewUserError("Could not open the photo store", err)
	}
	return store, nil
}

func buildBoards(ctx context.Context) (*leaderboard.Aggregator, *leaderboard.RedisScoreStore, error) {
	scores, err := leaderboard.NewRedisScoreStore(ctx, leaderboard.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, slog.Default())
	if err != nil {
		return nil, nil, common.NewUserError("Could not reach the leaderboard store", err)
	}
	return leaderboard.NewAggregator(scores, cfg.Leaderboard.UserCap, slog.Default()), scores, nil
}

func buildHistory(ctx context.Context) (*storage.SQLiteStorage, error) {
	history, err := storage.NewSQLiteStorage(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := history.Migrate(ctx); err != nil {
		_ = history.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return history, nil
}

func engineConfig() engine.Config {
	return engine.Config{
		PredictionLimit: cfg.Prediction.Limit,
		ClassifyTimeout: cfg.Classifier.Timeout,
		CollectInterval: cfg.Collect.MinInterval,
		CollectPoints:   cfg.Collect.Points,
	}
}
