// Package assets implements the blob store client for collected and
// temporary prediction images, backed by a Google Cloud Storage bucket.
package assets

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempPrefix is the key prefix for temporary prediction uploads. The sweeper
// only ever deletes under this prefix.
const TempPrefix = "temp_prediction_images/"

// AnonymousUserID is used when a collector does not provide an identifier.
const AnonymousUserID = "ANON"

// TempKey generates a fresh key for a temporary prediction image. The
// timestamp keeps keys roughly sortable by upload time; the uuid suffix makes
// them collision resistant.
func TempKey(now time.Time) string {
	return fmt.Sprintf("%s%d-%s.jpg", TempPrefix, now.UnixMilli(), uuid.NewString())
}

// CollectionKey generates the key for a collected photo of a site, namespaced
// by site and attributed to the uploading user.
func CollectionKey(site, userID string, now time.Time) string {
	if userID == "" {
		userID = AnonymousUserID
	}
	site = strings.ReplaceAll(site, "/", "-")
	return fmt.Sprintf("%s/%s:%d-%s.jpg", site, userID, now.UnixMilli(), uuid.NewString())
}
