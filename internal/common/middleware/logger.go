package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger logs one line per request, with the handler error if there was one.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} | ${ip} ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
