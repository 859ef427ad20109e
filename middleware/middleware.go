package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/errors"
)

const rateLimitMessage = "Rate limit exceeded. Please wait a minute and try again."

// Setup installs the middleware enabled in cfg, in order. requestLog may be
// nil, in which case fiber's default request log format is used.
func Setup(app *fiber.App, cfg *config.Config, requestLog *fiberLogger.Config) {
	if cfg.Middleware.EnableRecover {
		app.Use(recover.New(recover.Config{
			EnableStackTrace: cfg.Debug,
		}))
	}

	if cfg.Middleware.EnableRequestID {
		app.Use(requestid.New(requestid.Config{
			Header: fiber.HeaderXRequestID,
			Generator: func() string {
				return uuid.New().String()
			},
		}))
	}

	if cfg.Middleware.EnableLogger {
		if requestLog != nil {
			app.Use(fiberLogger.New(*requestLog))
		} else {
			app.Use(fiberLogger.New())
		}
	}

	if cfg.Middleware.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
			AllowMethods:     strings.Join(cfg.CORS.AllowedMethods, ","),
			AllowHeaders:     strings.Join(cfg.CORS.AllowedHeaders, ","),
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}

	if cfg.Middleware.EnableRateLimit {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.RequestsPerMinute,
			Expiration: time.Minute,
			// Only summary requests hit the external services.
			Next: func(c *fiber.Ctx) bool {
				return c.Method() != fiber.MethodPost
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			// Handing the error to the app's error handler lets the form page
			// render it instead of a JSON body.
			LimitReached: func(c *fiber.Ctx) error {
				return errors.E("middleware.RateLimit", errors.KindRateLimited, nil, rateLimitMessage)
			},
		}))
	}

	if cfg.Middleware.EnableCompress {
		app.Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))
	}

	if cfg.Middleware.EnableETag {
		app.Use(etag.New())
	}
}
