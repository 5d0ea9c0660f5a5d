package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/handler"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/middleware"
)

// Router owns the echo instance and the global stage list. Global stages run on
// every request, matched or not; route stages run after them.
type Router struct {
	echo   *echo.Echo
	global []middleware.Stage
}

// New builds an empty router with the HTTP plumbing installed.
func New(log zerolog.Logger) *Router {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	// Client headers are not trusted for the client address.
	e.IPExtractor = echo.ExtractIPDirect()

	r := &Router{echo: e}

	e.Pre(middleware.CORS())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return run(c, r.global, next)
		}
	})
	return r
}

// Use appends a global stage.
func (r *Router) Use(stage middleware.Stage) {
	r.global = append(r.global, stage)
}

// Handle registers a route. A path ending in "/" matches every path below it;
// more specific static routes registered for the same method still win.
func (r *Router) Handle(method, path string, h echo.HandlerFunc, stages ...middleware.Stage) {
	if path != "/" && strings.HasSuffix(path, "/") {
		path += "*"
	}
	r.echo.Add(method, path, func(c echo.Context) error {
		return run(c, stages, h)
	})
}

// Mount registers a plain echo handler that bypasses route stages, for
// endpoints such as /metrics and /swagger.
func (r *Router) Mount(method, path string, h echo.HandlerFunc) {
	r.echo.Add(method, path, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// Echo exposes the underlying instance, e.g. for Shutdown.
func (r *Router) Echo() *echo.Echo {
	return r.echo
}

func run(c echo.Context, stages []middleware.Stage, next echo.HandlerFunc) error {
	for _, stage := range stages {
		outcome, err := stage(c)
		if err != nil {
			return err
		}
		if outcome == middleware.Halt {
			return nil
		}
	}
	return next(c)
}
