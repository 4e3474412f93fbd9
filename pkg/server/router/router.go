package router

import "github.com/gofiber/fiber/v2"

// ServerRouter registers a set of routes on the app. Routers are applied in
// order, so one registered first is matched before the API middleware runs.
type ServerRouter interface {
	BuildRoutes(app *fiber.App) error
}

// RouterFunc lets a plain function act as a ServerRouter.
type RouterFunc func(app *fiber.App) error

func (f RouterFunc) BuildRoutes(app *fiber.App) error {
	return f(app)
}
