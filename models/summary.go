package models

import "html/template"

// Length selects how long the generated summary should be.
type Length string

const (
	LengthShort  Length = "Short"
	LengthMedium Length = "Medium"
	LengthLong   Length = "Long"
)

// Languages lists the transcript languages offered to users, in display order.
var Languages = []string{"en", "es", "fr", "de", "it", "pt"}

// Lengths lists the summary lengths in display order.
var Lengths = []Length{LengthShort, LengthMedium, LengthLong}

// SummaryRequest represents the incoming request for a video summary
type SummaryRequest struct {
	URL      string `json:"url" form:"url" validate:"required"`
	Language string `json:"language" form:"language" validate:"required,oneof=en es fr de it pt"`
	Length   Length `json:"length" form:"length" validate:"required,oneof=Short Medium Long"`
}

// ApplyDefaults fills in the selections the page preselects.
func (r *SummaryRequest) ApplyDefaults() {
	if r.Language == "" {
		r.Language = "en"
	}
	if r.Length == "" {
		r.Length = LengthMedium
	}
}

// SummaryResult is what one pipeline run hands back to the presentation layer.
type SummaryResult struct {
	VideoID      string        `json:"video_id"`
	ThumbnailURL string        `json:"thumbnail_url"`
	Title        string        `json:"title,omitempty"`
	Language     string        `json:"language"`
	Length       Length        `json:"length"`
	Summary      string        `json:"summary"`
	SummaryHTML  template.HTML `json:"-"`
	Warnings     []string      `json:"warnings,omitempty"`
}
