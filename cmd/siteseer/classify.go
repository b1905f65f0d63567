package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siteseer/siteseer/internal/engine"
	"github.com/siteseer/siteseer/internal/service"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <image>",
		Short: "Classify a photo against the landmark classes",
		Args:  cobra.ExactArgs(1),
		RunE:  runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	classifier, err := buildClassifier()
	if err != nil {
		return err
	}

	var store service.AssetStore
	if classifier.RequiresUpload() {
		gcs, storeErr := buildAssetStore(ctx)
		if storeErr != nil {
			return storeErr
		}
		defer func() { _ = gcs.Close() }()
		store = gcs
	}

	history, err := buildHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	e := engine.NewWithConfig(store, classifier, nil, history, engineConfig())
	e.SetStateListener(func(state engine.CycleState) {
		if state.Predicting() {
			fmt.Println("Predicting...")
		}
	})

	ranked, err := e.Classify(ctx, args[0])
	if err != nil {
		return err
	}

	if len(ranked) == 0 {
		fmt.Println("No predictions.")
		return nil
	}
	for _, p := range ranked {
		fmt.Printf("#%d %s: %.2f%%\n", p.Rank, p.ClassName, p.DisplayConfidence)
	}
	return nil
}
