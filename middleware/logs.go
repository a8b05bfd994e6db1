package middleware

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"Summit/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// LogConfig holds configuration for the request logging middleware.
type LogConfig struct {
	// Echo each request to the console
	Console bool
	// Persist RequestLog rows to the database
	Database bool
	// Include request body in the audit row
	IncludeBody bool
	// Skip logging for specific paths
	SkipPaths []string
}

// DefaultLogConfig returns the configuration used in production.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		Database:    true,
		IncludeBody: false,
		SkipPaths:   []string{"/api/health"},
	}
}

// RequestLogger audits every request onto the request_logs table and
// optionally echoes it to the console.
func RequestLogger(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if cfg.Console {
			log.Println(c.Method(), c.Path(), status, latency)
		}
		if !cfg.Database || Models.DB == nil {
			return err
		}

		entry := Models.RequestLog{
			Timestamp:     start,
			Method:        c.Method(),
			Path:          c.Path(),
			Status:        status,
			LatencyMs:     float64(latency.Microseconds()) / 1000.0,
			IP:            c.IP(),
			UserAgent:     c.Get("User-Agent"),
			ContentLength: int64(len(c.Body())),
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			entry.Username = user.Username
			entry.Tenant = user.Tenant
		}
		if cfg.IncludeBody && shouldCaptureBody(c) {
			if body := c.Body(); json.Valid(body) {
				entry.RequestBody = datatypes.JSON(body)
			}
		}

		if dbErr := Models.DB.Create(&entry).Error; dbErr != nil {
			log.Printf("Error writing request log: %v", dbErr)
		}
		return err
	}
}

// shouldCaptureBody filters out uploads and auth payloads from the audit.
func shouldCaptureBody(c *fiber.Ctx) bool {
	if strings.Contains(c.Path(), "Login") || strings.Contains(c.Path(), "Register") {
		return false
	}
	return strings.HasPrefix(c.Get("Content-Type"), "application/json")
}
