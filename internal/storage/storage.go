package storage

import (
	"context"
	"time"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// CoverStorage serves the hero cover image for a day sheet. Covers are
// keyed by the focus classification, one object per category.
type CoverStorage interface {
	// CoverURL returns a temporary GET URL for the cover image matching
	// the given free-text focus label.
	CoverURL(ctx context.Context, focus string) (string, error)
}

// CoverObjectKey maps a focus label to its bucket object key.
func CoverObjectKey(focus string) string {
	return "covers/" + string(domain.ClassifyFocus(focus)) + ".jpg"
}
