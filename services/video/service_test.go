package video

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/services/transcript"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrack struct {
	lang    string
	entries []transcript.Entry
}

func (t stubTrack) Language() string { return t.lang }

func (t stubTrack) Fetch(context.Context) ([]transcript.Entry, error) { return t.entries, nil }

type stubTrackList map[string]stubTrack

func (l stubTrackList) Find(languages ...string) (transcript.Track, error) {
	for _, lang := range languages {
		if t, ok := l[lang]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w for %v", transcript.ErrTrackNotFound, languages)
}

type recordingProvider struct {
	tracks stubTrackList
	calls  []string
}

func (p *recordingProvider) ListTracks(_ context.Context, videoID string) (transcript.TrackList, error) {
	p.calls = append(p.calls, videoID)
	return p.tracks, nil
}

type modelFunc func(ctx context.Context, prompt string) (string, error)

func (f modelFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type titleFunc func(ctx context.Context, videoID string) (string, error)

func (f titleFunc) Title(ctx context.Context, videoID string) (string, error) { return f(ctx, videoID) }

var echo = modelFunc(func(_ context.Context, prompt string) (string, error) { return prompt, nil })

func newTestService(p transcript.Provider, m summary.Model, titles TitleLookup) Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(
		validation.NewValidator(),
		transcript.NewFetcher(p, logger),
		summary.NewGenerator(m, logger),
		titles,
		logger,
	)
}

func twoEntryProvider(lang string) *recordingProvider {
	return &recordingProvider{tracks: stubTrackList{
		lang: {lang: lang, entries: []transcript.Entry{{Text: "Hello"}, {Text: "world"}}},
	}}
}

func TestSummarize_WatchURL(t *testing.T) {
	p := twoEntryProvider("en")
	svc := newTestService(p, echo, nil)

	res, err := svc.Summarize(context.Background(), &models.SummaryRequest{
		URL:      "https://www.youtube.com/watch?v=abc123",
		Language: "en",
		Length:   models.LengthMedium,
	})
	require.NoError(t, err)

	directive, err := summary.NewDirective(models.LengthMedium)
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123"}, p.calls)
	assert.Equal(t, "abc123", res.VideoID)
	assert.Equal(t, "https://img.youtube.com/vi/abc123/0.jpg", res.ThumbnailURL)
	assert.Equal(t, directive+"Hello world", res.Summary)
	assert.True(t, strings.HasSuffix(res.Summary, "Present in clear, concise bullet points:\nHello world"))
	assert.NotEmpty(t, res.SummaryHTML)
	assert.Empty(t, res.Warnings)
}

func TestSummarize_ShortURL(t *testing.T) {
	p := twoEntryProvider("en")
	res, err := newTestService(p, echo, nil).Summarize(context.Background(), &models.SummaryRequest{
		URL:      "https://youtu.be/xyz789",
		Language: "en",
		Length:   models.LengthShort,
	})
	require.NoError(t, err)
	assert.Equal(t, "xyz789", res.VideoID)
	assert.Equal(t, []string{"xyz789"}, p.calls)
}

func TestSummarize_InvalidURLStopsBeforeFetching(t *testing.T) {
	p := twoEntryProvider("en")
	_, err := newTestService(p, echo, nil).Summarize(context.Background(), &models.SummaryRequest{
		URL:      "https://example.com/foo",
		Language: "en",
		Length:   models.LengthMedium,
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.KindInvalidURL, appErr.Kind)
	assert.Equal(t, "Invalid YouTube URL", appErr.Message)
	assert.Empty(t, p.calls)
}

func TestSummarize_FallbackAddsWarning(t *testing.T) {
	p := twoEntryProvider("en")
	res, err := newTestService(p, echo, nil).Summarize(context.Background(), &models.SummaryRequest{
		URL:      "https://www.youtube.com/watch?v=abc123",
		Language: "de",
		Length:   models.LengthLong,
	})
	require.NoError(t, err)
	assert.Equal(t, "en", res.Language)
	assert.Equal(t, []string{FallbackWarning}, res.Warnings)
}

func TestSummarize_DefaultsAndValidation(t *testing.T) {
	p := twoEntryProvider("en")
	svc := newTestService(p, echo, nil)

	res, err := svc.Summarize(context.Background(), &models.SummaryRequest{URL: "https://youtu.be/xyz789"})
	require.NoError(t, err)
	assert.Equal(t, models.LengthMedium, res.Length)

	_, err = svc.Summarize(context.Background(), &models.SummaryRequest{
		URL:      "https://youtu.be/xyz789",
		Language: "ja",
	})
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))

	_, err = svc.Summarize(context.Background(), nil)
	assert.Equal(t, errors.KindInvalidInput, errors.KindOf(err))
}

func TestSummarize_GenerationFailure(t *testing.T) {
	failing := modelFunc(func(context.Context, string) (string, error) {
		return "", stderrors.New("quota exceeded")
	})
	_, err := newTestService(twoEntryProvider("en"), failing, nil).Summarize(context.Background(), &models.SummaryRequest{
		URL: "https://youtu.be/xyz789",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindGeneration, errors.KindOf(err))
}

func TestSummarize_Title(t *testing.T) {
	tests := []struct {
		name   string
		lookup TitleLookup
		want   string
	}{
		{
			name:   "found",
			lookup: titleFunc(func(context.Context, string) (string, error) { return "Go Concurrency Patterns", nil }),
			want:   "Go Concurrency Patterns",
		},
		{
			name:   "lookup failure is ignored",
			lookup: titleFunc(func(context.Context, string) (string, error) { return "", stderrors.New("quota") }),
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestService(twoEntryProvider("en"), echo, tt.lookup).Summarize(context.Background(), &models.SummaryRequest{
				URL: "https://youtu.be/xyz789",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Title)
		})
	}
}

func TestPreview(t *testing.T) {
	svc := newTestService(twoEntryProvider("en"), echo, nil)
	assert.Equal(t, "https://img.youtube.com/vi/abc123/0.jpg", svc.Preview("https://www.youtube.com/watch?v=abc123"))
	assert.Empty(t, svc.Preview("https://example.com/foo"))
}

func TestSummarize_LeavesCallerRequestUntouched(t *testing.T) {
	req := &models.SummaryRequest{URL: "  https://youtu.be/xyz789  "}
	res, err := newTestService(twoEntryProvider("en"), echo, nil).Summarize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "xyz789", res.VideoID)

	assert.Equal(t, models.SummaryRequest{URL: "  https://youtu.be/xyz789  "}, *req)
}
