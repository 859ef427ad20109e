package handlers

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/sirupsen/logrus"
)

// ErrorHandler returns the fiber error handler. AppErrors keep their status
// and message; anything else is reported as an internal error.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(c *fiber.Ctx, err error) error {
		code, message := describe(err)
		kind := errors.KindOf(err)

		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			kind = errors.KindInternal
			if code == fiber.StatusNotFound {
				kind = errors.KindNotFound
			}
		}

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID(c),
			"path":       c.Path(),
			"method":     c.Method(),
			"status":     code,
			"kind":       kind,
		}).WithError(err)
		if code >= fiber.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Warn("Request error")
		}

		return c.Status(code).JSON(fiber.Map{
			"success":    false,
			"error":      message,
			"kind":       kind,
			"request_id": requestID(c),
		})
	}
}

// ErrorHandler is like the package-level ErrorHandler, except that failures
// of the form page (such as the rate limit) re-render the page with the
// message instead of answering with JSON.
func (h *Handler) ErrorHandler() fiber.ErrorHandler {
	api := ErrorHandler(h.logger)
	return func(c *fiber.Ctx, err error) error {
		if c.Path() != "/" || c.Method() != fiber.MethodPost {
			return api(c, err)
		}

		code, message := describe(err)
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID(c),
			"status":     code,
			"kind":       errors.KindOf(err),
		}).WithError(err).Warn("Form request error")

		data := newPageData(models.SummaryRequest{
			URL:      c.FormValue("url"),
			Language: c.FormValue("language"),
			Length:   models.Length(c.FormValue("length")),
		})
		data.Error = message
		if renderErr := h.render(c, code, data); renderErr != nil {
			return api(c, renderErr)
		}
		return nil
	}
}

// describe picks the status code and user-facing message for err.
func describe(err error) (int, string) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, "Internal Server Error"
}
