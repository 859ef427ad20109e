package metadata

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Service looks up video details through the YouTube Data API. Without an
// API key it is disabled and every lookup returns an empty result.
type Service struct {
	yt     *youtube.Service
	logger *logrus.Logger
}

func NewService(ctx context.Context, apiKey string, logger *logrus.Logger, opts ...option.ClientOption) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Service{logger: logger}
	if apiKey == "" {
		logger.Info("YOUTUBE_API_KEY not set, video titles disabled")
		return s, nil
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	yt, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create youtube data api client")
	}
	s.yt = yt
	return s, nil
}

func (s *Service) Enabled() bool {
	return s != nil && s.yt != nil
}

// Title returns the video's title, or "" when the service is disabled or the
// video is unknown.
func (s *Service) Title(ctx context.Context, videoID string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	resp, err := s.yt.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return "", errors.Wrapf(err, "videos.list %s", videoID)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		s.logger.WithField("video_id", videoID).Debug("Video not found in Data API")
		return "", nil
	}
	return resp.Items[0].Snippet.Title, nil
}
