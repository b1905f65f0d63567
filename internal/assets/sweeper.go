package assets

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/service"
)

// SweepTemp deletes temporary prediction blobs older than olderThan and
// returns how many were removed. Cleanup failures during normal cycles are
// logged rather than surfaced, so orphans can accumulate under TempPrefix;
// this reconciliation pass removes them.
func (s *GCSStore) SweepTemp(ctx context.Context, olderThan time.Duration) (int, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: TempPrefix})
	return s.sweep(ctx, time.Now().Add(-olderThan), it.Next, func(ctx context.Context, name string) error {
		err := s.bucket.Object(name).Delete(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			// Someone else already cleaned it up.
			return nil
		}
		return err
	})
}

// sweep walks the listing and deletes every sweepable object, retrying each
// delete. A failed delete is logged and skipped so one stuck object cannot
// abort the whole pass; a listing error does abort, returning the count so
// far.
func (s *GCSStore) sweep(ctx context.Context, cutoff time.Time, next func() (*storage.ObjectAttrs, error), remove func(context.Context, string) error) (int, error) {
	removed := 0
	for {
		attrs, err := next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return removed, err
		}
		if !sweepable(attrs, cutoff) {
			continue
		}

		err = common.WithRetry(ctx, func() error {
			return remove(ctx, attrs.Name)
		}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond})
		if err != nil {
			s.logger.Warn("failed to sweep orphaned asset", "key", attrs.Name, "error", err)
			continue
		}

		removed++
		s.logger.Debug("swept orphaned asset", "key", attrs.Name, "created", attrs.Created)
	}

	s.logger.Info("temp sweep complete", "removed", removed, "cutoff", cutoff)
	return removed, nil
}

// sweepable reports whether an object is an orphaned temp upload old enough
// to delete. Only keys under TempPrefix ever qualify.
func sweepable(attrs *storage.ObjectAttrs, cutoff time.Time) bool {
	return strings.HasPrefix(attrs.Name, TempPrefix) && attrs.Created.Before(cutoff)
}
