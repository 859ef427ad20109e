package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/video"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*
var templateFS embed.FS

const emptyURLWarning = "Please enter a YouTube URL first"

type Handler struct {
	service   video.Service
	page      *template.Template
	logger    *logrus.Logger
	version   string
	startTime time.Time
}

func NewHandler(service video.Service, logger *logrus.Logger, version string) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		service:   service,
		page:      page,
		logger:    logger,
		version:   version,
		startTime: time.Now(),
	}, nil
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.Index)
	app.Post("/", h.Submit)

	v1 := app.Group("/api/v1")
	v1.Post("/summary", h.CreateSummary)
	v1.Get("/thumbnail", h.Thumbnail)

	app.Get("/health", h.HealthCheck)
}

type pageData struct {
	Languages    []string
	Lengths      []models.Length
	Request      models.SummaryRequest
	ThumbnailURL string
	Warnings     []string
	Error        string
	Result       *models.SummaryResult
}

func newPageData(req models.SummaryRequest) *pageData {
	req.ApplyDefaults()
	return &pageData{
		Languages: models.Languages,
		Lengths:   models.Lengths,
		Request:   req,
	}
}

func (h *Handler) Index(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, newPageData(models.SummaryRequest{}))
}

// Submit handles the form post and re-renders the page with the outcome.
func (h *Handler) Submit(c *fiber.Ctx) error {
	const op = "Handler.Submit"

	var req models.SummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput(op, err, "Invalid form submission")
	}

	data := newPageData(req)
	data.ThumbnailURL = h.service.Preview(req.URL)

	if strings.TrimSpace(req.URL) == "" {
		data.Warnings = append(data.Warnings, emptyURLWarning)
		return h.render(c, fiber.StatusOK, data)
	}

	result, err := h.service.Summarize(c.UserContext(), &req)
	if err != nil {
		code, message := describe(err)
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID(c),
			"kind":       errors.KindOf(err),
			"op":         op,
		}).WithError(err).Warn("Summary request failed")
		data.Error = message
		return h.render(c, code, data)
	}

	data.Result = result
	data.Warnings = append(data.Warnings, result.Warnings...)
	return h.render(c, fiber.StatusOK, data)
}

// CreateSummary handles POST /api/v1/summary
func (h *Handler) CreateSummary(c *fiber.Ctx) error {
	const op = "Handler.CreateSummary"

	var req models.SummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput(op, err, "Invalid JSON format")
	}

	result, err := h.service.Summarize(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result,
		"warnings":   result.Warnings,
		"request_id": requestID(c),
	})
}

// Thumbnail handles GET /api/v1/thumbnail?url=
func (h *Handler) Thumbnail(c *fiber.Ctx) error {
	const op = "Handler.Thumbnail"

	rawURL := c.Query("url")
	if strings.TrimSpace(rawURL) == "" {
		return errors.InvalidInput(op, nil, "URL parameter is required")
	}

	videoID, err := validation.ExtractVideoID(rawURL)
	if err != nil {
		return errors.E(op, errors.KindInvalidURL, err, "Invalid YouTube URL")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"video_id":      videoID,
			"thumbnail_url": validation.ThumbnailURL(videoID),
		},
	})
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"uptime":    time.Since(h.startTime).String(),
	})
}

func (h *Handler) render(c *fiber.Ctx, code int, data *pageData) error {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		return errors.Internal("Handler.render", err, "Failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Status(code).Send(buf.Bytes())
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
