package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	RequestIDMiddleware    Middleware
	PanicRecoverMiddleware Middleware
	CORSMiddleware         Middleware
	MetricsMiddleware      Middleware
	// AuthMiddleware is nil when server.auth.enabled is false.
	AuthMiddleware Middleware
	// RateLimitMiddleware guards the analysis POST routes when
	// server.rate_limit.enabled is true.
	RateLimitMiddleware Middleware
}
