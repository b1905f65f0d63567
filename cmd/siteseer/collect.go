package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/engine"
	"github.com/siteseer/siteseer/internal/model"
	"github.com/siteseer/siteseer/internal/service"
)

// noClassifier satisfies the engine's classifier dependency for the collect
// flow, which never classifies.
type noClassifier struct{}

func (noClassifier) Classify(_ context.Context, _ service.Image) (model.Confidences, error) {
	return nil, common.ErrNotReady
}
func (noClassifier) Ready() bool          { return false }
func (noClassifier) RequiresUpload() bool { return false }

func collectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect <image>",
		Short: "Upload a labeled landmark photo and earn points",
		Long: `Upload a photo of a landmark under its site label. A successful upload
awards collection points to your user ID and counts one photo for the site.

Known sites:
  ` + strings.Join(model.SiteNames, "\n  "),
		Args: cobra.ExactArgs(1),
		RunE: runCollect,
	}
	cmd.Flags().String("site", "", "site name the photo shows (required)")
	cmd.Flags().String("user", "", "collector's user ID (default: ANON)")
	_ = cmd.MarkFlagRequired("site")
	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	site, _ := cmd.Flags().GetString("site")
	user, _ := cmd.Flags().GetString("user")

	store, err := buildAssetStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	boards, scores, err := buildBoards(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = scores.Close() }()

	history, err := buildHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	e := engine.NewWithConfig(store, noClassifier{}, boards, history, engineConfig())

	record, err := e.Collect(ctx, args[0], site, user)
	if err != nil {
		return err
	}

	fmt.Printf("Success! Uploaded image for %s", record.Site)
	if record.PointsAwarded > 0 {
		fmt.Printf(" (+%d point(s) for %s)", record.PointsAwarded, record.UserID)
	}
	fmt.Println()
	return nil
}
