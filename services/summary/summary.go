package summary

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/sirupsen/logrus"
)

// Model is a text generation backend.
type Model interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var instructions = map[models.Length]string{
	models.LengthShort:  "Generate a brief summary (max 100 words)",
	models.LengthMedium: "Generate a comprehensive summary (max 250 words)",
	models.LengthLong:   "Generate a detailed summary (max 500 words)",
}

const directiveFormat = `You are a professional YouTube content analyzer.
Generate a %s summary of this video transcript with these elements:
1. Key topics covered
2. Main points discussed
3. Important conclusions
4. Overall significance

%s. Present in clear, concise bullet points:
`

var errEmptyResponse = stderrors.New("model returned an empty response")

// NewDirective renders the instruction block placed in front of the
// transcript for the given length. It ends with a newline so the transcript
// starts on its own line.
func NewDirective(length models.Length) (string, error) {
	instruction, ok := instructions[length]
	if !ok {
		return "", errors.InvalidInput("summary.NewDirective", nil,
			fmt.Sprintf("Unsupported summary length %q", length))
	}
	return fmt.Sprintf(directiveFormat, strings.ToLower(string(length)), instruction), nil
}

type Generator struct {
	model  Model
	logger *logrus.Logger
}

func NewGenerator(model Model, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{model: model, logger: logger}
}

// Generate sends the directive followed by the transcript to the model in a
// single request.
func (g *Generator) Generate(ctx context.Context, transcriptText string, length models.Length) (string, error) {
	const op = "SummaryGenerator.Generate"

	directive, err := NewDirective(length)
	if err != nil {
		return "", err
	}
	prompt := directive + transcriptText

	logger := g.logger.WithFields(logrus.Fields{
		"length":        length,
		"prompt_length": len(prompt),
	})
	logger.Debug("Requesting summary")

	text, err := g.generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyResponse
	}
	if err != nil {
		logger.WithError(err).Error("Summary generation failed")
		return "", errors.E(op, errors.KindGeneration, err, fmt.Sprintf("AI Generation Error: %v", err))
	}

	logger.WithField("summary_length", len(text)).Debug("Summary generated")
	return text, nil
}

func (g *Generator) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	return g.model.GenerateText(ctx, prompt)
}
