package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrVideoIDNotFound is returned when a URL does not carry a recognizable
// YouTube video identifier.
var ErrVideoIDNotFound = errors.New("no YouTube video id in URL")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const thumbnailURLFormat = "https://img.youtube.com/vi/%s/0.jpg"

// ExtractVideoID pulls the video ID from the YouTube URL shapes we accept:
//   - youtu.be/VIDEO_ID
//   - youtube.com/watch?v=VIDEO_ID
//   - youtube.com/embed/VIDEO_ID
//   - youtube.com/v/VIDEO_ID
//
// Any other host or path yields ErrVideoIDNotFound.
func ExtractVideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrVideoIDNotFound
	}

	var id string
	switch strings.ToLower(parsed.Hostname()) {
	case "youtu.be":
		id = strings.TrimPrefix(parsed.Path, "/")
	case "www.youtube.com", "youtube.com":
		id = idFromPrimaryHost(parsed)
	}

	if id == "" || !videoIDPattern.MatchString(id) {
		return "", ErrVideoIDNotFound
	}
	return id, nil
}

func idFromPrimaryHost(u *url.URL) string {
	switch {
	case u.Path == "/watch":
		if values := u.Query()["v"]; len(values) > 0 {
			return values[0]
		}
		return ""
	case strings.HasPrefix(u.Path, "/embed/"), strings.HasPrefix(u.Path, "/v/"):
		// "/embed/<id>/..." splits into "", "embed", "<id>", ...
		return strings.Split(u.Path, "/")[2]
	}
	return ""
}

// ThumbnailURL returns the default thumbnail image for a video.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf(thumbnailURLFormat, videoID)
}
