package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultPlayerURL   = "https://www.youtube.com/youtubei/v1/player"
	androidVersion     = "20.10.38"
	androidUserAgent   = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"
	maxPlayerBodyBytes = 3 * 1024 * 1024
	maxTrackBodyBytes  = 8 * 1024 * 1024
	kindAutoGenerated  = "asr"
)

type playerRequest struct {
	VideoID        string        `json:"videoId"`
	Context        playerContext `json:"context"`
	RacyCheckOk    bool          `json:"racyCheckOk"`
	ContentCheckOk bool          `json:"contentCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// YouTubeProvider lists caption tracks through the Innertube player endpoint
// and downloads them from the timedtext endpoint.
type YouTubeProvider struct {
	client    *http.Client
	limiter   *rate.Limiter
	logger    *logrus.Logger
	playerURL string
}

type YouTubeOption func(*YouTubeProvider)

// WithPlayerURL points the provider at a different player endpoint.
func WithPlayerURL(u string) YouTubeOption {
	return func(p *YouTubeProvider) { p.playerURL = u }
}

// NewYouTubeProvider builds a provider. A nil limiter means no throttling.
func NewYouTubeProvider(client *http.Client, limiter *rate.Limiter, logger *logrus.Logger, opts ...YouTubeOption) *YouTubeProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	p := &YouTubeProvider{
		client:    client,
		limiter:   limiter,
		logger:    logger,
		playerURL: defaultPlayerURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *YouTubeProvider) ListTracks(ctx context.Context, videoID string) (TrackList, error) {
	body, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: playerContext{Client: playerClient{
			ClientName:        "ANDROID",
			ClientVersion:     androidVersion,
			AndroidSdkVersion: 30,
			Hl:                "en",
			Gl:                "US",
		}},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode player request")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "youtube rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.playerURL+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build player request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "innertube player")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, errors.Errorf("innertube player: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var player playerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPlayerBodyBytes)).Decode(&player); err != nil {
		return nil, errors.Wrap(err, "decode player response")
	}

	if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		p.logger.WithFields(logrus.Fields{
			"video_id": videoID,
			"status":   ps.Status,
			"reason":   ps.Reason,
		}).Debug("Video is not playable")
		if player.Captions == nil {
			return nil, fmt.Errorf("%w: video unavailable (%s: %s)", ErrTrackNotFound, ps.Status, ps.Reason)
		}
	}
	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return nil, fmt.Errorf("%w: transcripts are disabled for video %s", ErrTrackNotFound, videoID)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	p.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"tracks":   len(tracks),
	}).Debug("Listed caption tracks")

	return &youtubeTrackList{provider: p, videoID: videoID, tracks: tracks}, nil
}

type youtubeTrackList struct {
	provider *YouTubeProvider
	videoID  string
	tracks   []captionTrack
}

// Find prefers manually created tracks over auto-generated ones for each
// language, trying languages in order.
func (l *youtubeTrackList) Find(languages ...string) (Track, error) {
	for _, lang := range languages {
		var generated *captionTrack
		for i := range l.tracks {
			t := &l.tracks[i]
			if !strings.EqualFold(t.LanguageCode, lang) {
				continue
			}
			if t.Kind != kindAutoGenerated {
				return &youtubeTrack{provider: l.provider, track: *t}, nil
			}
			if generated == nil {
				generated = t
			}
		}
		if generated != nil {
			return &youtubeTrack{provider: l.provider, track: *generated}, nil
		}
	}
	return nil, fmt.Errorf("%w for languages %v in video %s (available: %s)",
		ErrTrackNotFound, languages, l.videoID, strings.Join(l.available(), ", "))
}

func (l *youtubeTrackList) available() []string {
	langs := make([]string, 0, len(l.tracks))
	for _, t := range l.tracks {
		if t.Kind == kindAutoGenerated {
			langs = append(langs, t.LanguageCode+" (auto)")
			continue
		}
		langs = append(langs, t.LanguageCode)
	}
	return langs
}

type youtubeTrack struct {
	provider *YouTubeProvider
	track    captionTrack
}

func (t *youtubeTrack) Language() string { return t.track.LanguageCode }

// Fetch downloads the track in the timedtext XML format, where every caption
// appears once as a <text> node.
func (t *youtubeTrack) Fetch(ctx context.Context) ([]Entry, error) {
	trackURL, err := timedTextURL(t.track.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "caption track url")
	}

	if err := t.provider.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "youtube rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build caption request")
	}
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := t.provider.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "download captions")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("download captions: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTrackBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read captions")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty caption body", ErrMalformedData)
	}

	return parseTimedText(data)
}

type timedText struct {
	XMLName xml.Name        `xml:"transcript"`
	Lines   []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func parseTimedText(data []byte) ([]Entry, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	entries := make([]Entry, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		entries = append(entries, Entry{
			Text:     cleanCaption(line.Text),
			Start:    seconds(line.Start),
			Duration: seconds(line.Dur),
		})
	}
	return entries, nil
}

// timedTextURL drops any fmt parameter so the endpoint answers with its
// default XML format.
func timedTextURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

var captionTagRe = regexp.MustCompile(`<[^>]*>`)

// cleanCaption decodes the second layer of entity escaping timedtext applies
// and strips formatting tags such as <i> and <font>.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	s = captionTagRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func seconds(v string) time.Duration {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return time.Duration(math.Round(f*1000)) * time.Millisecond
}
