package video

import (
	"context"

	"github.com/nijaru/yt-summary/models"
)

type Service interface {
	// Summarize runs the whole pipeline for one request: resolve the URL,
	// fetch the transcript, generate and render the summary.
	Summarize(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResult, error)

	// Preview returns the thumbnail URL for rawURL, or "" if it does not
	// resolve to a video.
	Preview(rawURL string) string
}

// TitleLookup resolves a video's title. Lookups are best-effort.
type TitleLookup interface {
	Title(ctx context.Context, videoID string) (string, error)
}
