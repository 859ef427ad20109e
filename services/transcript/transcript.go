package transcript

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/nijaru/yt-summary/errors"
	"github.com/sirupsen/logrus"
)

// FallbackLanguage is tried when the preferred language has no track.
const FallbackLanguage = "en"

var (
	// ErrTrackNotFound means no caption track matched the requested languages.
	ErrTrackNotFound = stderrors.New("no transcript track found")
	// ErrMalformedData means a track's payload could not be decoded into entries.
	ErrMalformedData = stderrors.New("malformed transcript data")
)

// Entry is one timed caption as delivered by a provider.
type Entry struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

// Provider lists the caption tracks available for a video.
type Provider interface {
	ListTracks(ctx context.Context, videoID string) (TrackList, error)
}

// TrackList selects a track by language.
type TrackList interface {
	// Find returns the first track matching languages in order. Failures wrap
	// ErrTrackNotFound.
	Find(languages ...string) (Track, error)
}

// Track is one caption track of a video in a single language.
type Track interface {
	Language() string
	// Fetch returns the raw entries. Undecodable payloads wrap ErrMalformedData.
	Fetch(ctx context.Context) ([]Entry, error)
}

// Line is a kept transcript entry with its text trimmed.
type Line struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

// Document is the normalized transcript of a single video.
type Document struct {
	VideoID  string
	Language string
	// FellBack is set when the preferred language was unavailable and the
	// fallback track was used instead.
	FellBack bool
	Lines    []Line
}

// Text joins every line with a single space, in order.
func (d *Document) Text() string {
	parts := make([]string, len(d.Lines))
	for i, line := range d.Lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, " ")
}

// Fetcher turns a video's caption track into a Document, falling back to
// English when the requested language has no track.
type Fetcher struct {
	provider Provider
	logger   *logrus.Logger
}

func NewFetcher(provider Provider, logger *logrus.Logger) *Fetcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Fetcher{provider: provider, logger: logger}
}

// Fetch retrieves the transcript in preferredLanguage, falling back to
// English once. Every failure comes back as an *errors.AppError.
func (f *Fetcher) Fetch(ctx context.Context, videoID, preferredLanguage string) (*Document, error) {
	const op = "TranscriptFetcher.Fetch"
	logger := f.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"language": preferredLanguage,
	})

	var tracks TrackList
	err := guard(func() (err error) {
		tracks, err = f.provider.ListTracks(ctx, videoID)
		return err
	})
	if stderrors.Is(err, ErrTrackNotFound) {
		logger.WithError(err).Warn("Video has no transcript tracks")
		return nil, errors.E(op, errors.KindNoTranscript, err,
			fmt.Sprintf("Could not find transcript: %v", err))
	}
	if err != nil {
		logger.WithError(err).Error("Failed to list transcript tracks")
		return nil, errors.E(op, errors.KindUnexpectedTranscript, err,
			fmt.Sprintf("Error fetching transcript: %v", err))
	}

	track, fellBack, err := f.selectTrack(tracks, preferredLanguage)
	if stderrors.Is(err, errPanic) {
		logger.WithError(err).Error("Transcript provider panicked")
		return nil, errors.E(op, errors.KindUnexpectedTranscript, err,
			fmt.Sprintf("Error fetching transcript: %v", err))
	}
	if err != nil {
		logger.WithError(err).Warn("No transcript track available")
		return nil, errors.E(op, errors.KindNoTranscript, err,
			fmt.Sprintf("Could not find transcript: %v", err))
	}
	if fellBack {
		logger.WithField("fallback", FallbackLanguage).Warn("Preferred transcript language unavailable, using fallback")
	}

	var entries []Entry
	err = guard(func() (err error) {
		entries, err = track.Fetch(ctx)
		return err
	})
	switch {
	case err == nil:
	case stderrors.Is(err, ErrMalformedData):
		logger.WithError(err).Error("Transcript data could not be decoded")
		return nil, errors.E(op, errors.KindMalformedTranscript, err, "Received invalid transcript data format")
	case stderrors.Is(err, errPanic):
		logger.WithError(err).Error("Transcript provider panicked")
		return nil, errors.E(op, errors.KindUnexpectedTranscript, err,
			fmt.Sprintf("Error fetching transcript: %v", err))
	default:
		logger.WithError(err).Error("Failed to fetch transcript data")
		return nil, errors.E(op, errors.KindTranscriptFetch, err,
			fmt.Sprintf("Failed to fetch transcript data: %v", err))
	}

	if len(entries) == 0 {
		return nil, errors.E(op, errors.KindMalformedTranscript, nil, "No transcript data received")
	}

	lines := normalize(entries)
	if len(lines) == 0 {
		return nil, errors.E(op, errors.KindNoTranscriptText, nil, "No valid transcript text found in the video")
	}

	logger.WithFields(logrus.Fields{
		"track_language": track.Language(),
		"entries":        len(entries),
		"kept":           len(lines),
	}).Debug("Transcript fetched")

	return &Document{
		VideoID:  videoID,
		Language: track.Language(),
		FellBack: fellBack,
		Lines:    lines,
	}, nil
}

// selectTrack tries the preferred language and then the fallback. The
// returned error is the cause of the last attempt.
func (f *Fetcher) selectTrack(tracks TrackList, preferred string) (Track, bool, error) {
	var track Track
	err := guard(func() (err error) {
		track, err = tracks.Find(preferred)
		return err
	})
	if err == nil {
		return track, false, nil
	}
	if preferred == FallbackLanguage || stderrors.Is(err, errPanic) {
		return nil, false, err
	}

	err = guard(func() (err error) {
		track, err = tracks.Find(FallbackLanguage)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return track, true, nil
}

// normalize drops entries without text and trims the rest.
func normalize(entries []Entry) []Line {
	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Text: text, Start: e.Start, Duration: e.Duration})
	}
	return lines
}

var errPanic = stderrors.New("panic in transcript provider")

// guard runs fn and converts a panic into an error wrapping errPanic.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return fn()
}
