package extract

import (
	"strings"

	"meetctx/internal/models"
)

// platformHosts maps a URL marker to its platform, checked in order.
var platformHosts = []struct {
	marker   string
	platform models.PlatformID
}{
	{"meet.google.com", models.PlatformGoogleMeet},
	{".zoom.us", models.PlatformZoomWeb},
}

// Detect classifies a page by URL. It never fails; anything unrecognised,
// including the empty string, is PlatformUnknown.
func Detect(url string) models.PlatformID {
	if url == "" {
		return models.PlatformUnknown
	}
	for _, h := range platformHosts {
		if strings.Contains(url, h.marker) {
			return h.platform
		}
	}
	return models.PlatformUnknown
}

// Label returns the display name for a platform.
func Label(p models.PlatformID) string {
	switch p {
	case models.PlatformGoogleMeet:
		return "Google Meet"
	case models.PlatformZoomWeb:
		return "Zoom Web"
	default:
		return "Unknown Platform"
	}
}
