package drive

import (
	"fmt"
	"net/url"
)

// DefaultThumbnailWidth is the width used by the article detail view.
const DefaultThumbnailWidth = 700

// ThumbnailURL returns a displayable link for a stored image, or "" when the
// article has no photo.
func ThumbnailURL(fileID string, width int) string {
	if fileID == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultThumbnailWidth
	}
	return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w%d", url.QueryEscape(fileID), width)
}
