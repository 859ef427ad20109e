package video

import (
	"context"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/services/transcript"
	"github.com/nijaru/yt-summary/utils"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

// FallbackWarning is shown when the transcript came from the English track
// instead of the selected language.
const FallbackWarning = "Transcript not available in selected language. Using English instead."

type service struct {
	validator *validation.Validator
	fetcher   *transcript.Fetcher
	generator *summary.Generator
	titles    TitleLookup
	logger    *logrus.Logger
}

// NewService wires the pipeline. titles may be nil.
func NewService(
	validator *validation.Validator,
	fetcher *transcript.Fetcher,
	generator *summary.Generator,
	titles TitleLookup,
	logger *logrus.Logger,
) Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &service{
		validator: validator,
		fetcher:   fetcher,
		generator: generator,
		titles:    titles,
		logger:    logger,
	}
}

func (s *service) Summarize(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResult, error) {
	const op = "VideoService.Summarize"

	// Normalize a copy; the caller's request is left as submitted.
	if req != nil {
		normalized := *req
		normalized.ApplyDefaults()
		req = &normalized
	}
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(logrus.Fields{
		"operation": op,
		"url":       req.URL,
		"language":  req.Language,
		"length":    req.Length,
	})

	videoID, err := validation.ExtractVideoID(req.URL)
	if err != nil {
		logger.WithError(err).Warn("Invalid YouTube URL")
		return nil, errors.E(op, errors.KindInvalidURL, err, "Invalid YouTube URL")
	}
	logger = logger.WithField("video_id", videoID)
	logger.Info("Starting summary request")

	result := &models.SummaryResult{
		VideoID:      videoID,
		ThumbnailURL: validation.ThumbnailURL(videoID),
		Length:       req.Length,
	}

	if s.titles != nil {
		title, err := s.titles.Title(ctx, videoID)
		if err != nil {
			logger.WithError(err).Warn("Failed to look up video title")
		}
		result.Title = title
	}

	doc, err := s.fetcher.Fetch(ctx, videoID, req.Language)
	if err != nil {
		return nil, err
	}
	result.Language = doc.Language
	if doc.FellBack {
		result.Warnings = append(result.Warnings, FallbackWarning)
	}

	text, err := s.generator.Generate(ctx, doc.Text(), req.Length)
	if err != nil {
		return nil, err
	}
	result.Summary = text
	result.SummaryHTML = utils.MarkdownToHTML(text)

	logger.WithFields(logrus.Fields{
		"transcript_language": doc.Language,
		"summary_length":      len(text),
	}).Info("Summary completed")

	return result, nil
}

func (s *service) Preview(rawURL string) string {
	videoID, err := validation.ExtractVideoID(rawURL)
	if err != nil {
		return ""
	}
	return validation.ThumbnailURL(videoID)
}
