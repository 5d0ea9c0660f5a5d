package middleware

import "github.com/labstack/echo/v4"

// Outcome tells the dispatcher whether to run the next stage.
type Outcome int

const (
	// Continue passes control to the next stage or the handler.
	Continue Outcome = iota
	// Halt stops the chain. The stage has already written the response.
	Halt
)

// Stage is one step of a route's pipeline. A non-nil error stops the chain
// and is rendered by the HTTP error handler.
type Stage func(c echo.Context) (Outcome, error)

// halt writes a JSON error body unless something was already written.
func halt(c echo.Context, status int, msg string) (Outcome, error) {
	if !c.Response().Committed {
		if err := c.JSON(status, map[string]string{"error": msg}); err != nil {
			return Halt, err
		}
	}
	return Halt, nil
}
