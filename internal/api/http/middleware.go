package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/fullstack-starter/internal/config"
	"github.com/spec-kit/fullstack-starter/internal/observability"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

// ErrorResponder turns any handler failure into the stable JSON error
// contract. It performs no I/O of its own; the only environment-sensitive
// branch is the development-mode diagnostic leak on unclassified errors,
// fixed at construction.
type ErrorResponder struct {
	logger      *zap.Logger
	metrics     *observability.Metrics
	development bool
}

// NewErrorResponder constructs the responder.
func NewErrorResponder(logger *zap.Logger, metrics *observability.Metrics, development bool) *ErrorResponder {
	return &ErrorResponder{logger: logger, metrics: metrics, development: development}
}

// panicError carries a recovered panic and the stack captured at the
// recovery site through the classifier as an ordinary error.
type panicError struct {
	value interface{}
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Respond classifies err and writes the matching response. The client always
// receives a JSON object with at least an "error" string.
func (r *ErrorResponder) Respond(c *fiber.Ctx, err error) error {
	var stack []byte
	var pErr *panicError
	if errors.As(err, &pErr) {
		stack = pErr.stack
	}

	// Fiber's own routing errors (404, 405, body limits) carry a status and
	// a message; fold them into the application-error branch.
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		err = apperr.New(fiberErr.Message, fiberErr.Code)
	}

	classified := apperr.Classify(err)
	r.metrics.RecordError(c.Path(), c.Method(), classified.Kind.String())

	switch classified.Kind {
	case apperr.KindValidation:
		r.logger.Warn("validation failed",
			zap.String("path", c.Path()),
			zap.Int("fields", len(classified.Details)),
		)
		return c.Status(classified.Status).JSON(fiber.Map{
			"error":   classified.Message,
			"details": classified.Details,
		})

	case apperr.KindUnauthenticated:
		r.logger.Warn("unauthenticated request", zap.String("path", c.Path()))
		return c.Status(classified.Status).JSON(fiber.Map{"error": classified.Message})

	case apperr.KindApplication:
		r.logger.Warn("application error",
			zap.String("path", c.Path()),
			zap.Int("status", classified.Status),
			zap.String("code", classified.Code),
			zap.String("message", classified.Message),
		)
		body := fiber.Map{"error": classified.Message}
		if classified.Code != "" {
			body["code"] = classified.Code
		}
		return c.Status(classified.Status).JSON(body)

	default:
		if stack == nil {
			stack = debug.Stack()
		}
		// Full diagnostics always go to the log; only the client-visible
		// payload depends on deployment mode.
		r.logger.Error("unhandled error",
			zap.String("path", c.Path()),
			zap.Error(classified.Err),
			zap.ByteString("stack", stack),
		)
		body := fiber.Map{"error": classified.Message}
		if r.development {
			body["message"] = classified.Err.Error()
			body["stack"] = string(stack)
		}
		return c.Status(classified.Status).JSON(body)
	}
}

// Middleware is the pipeline-wide error boundary: individual routes do not
// need to wrap themselves.
func (r *ErrorResponder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = &panicError{value: rec, stack: debug.Stack()}
			}
			if err != nil {
				err = r.Respond(c, err)
			}
		}()
		return c.Next()
	}
}

// WithErrorBoundary wraps a single handler so failures are caught and
// responded even when the handler runs outside the pipeline boundary.
// Successful return values pass through unchanged.
func (r *ErrorResponder) WithErrorBoundary(handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = r.Respond(c, &panicError{value: rec, stack: debug.Stack()})
			}
		}()
		if err = handler(c); err != nil {
			return r.Respond(c, err)
		}
		return nil
	}
}

// FiberErrorHandler adapts the responder to fiber's app-level hook, the
// final fallback for errors raised outside the middleware chain.
func (r *ErrorResponder) FiberErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return r.Respond(c, err)
	}
}

// RegisterMiddlewares attaches global middlewares in order: timeout, CORS,
// request logging, error boundary. The request logger sits outside the
// boundary so it observes the final response status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, responder *ErrorResponder, cfg config.Config) {
	if timeout := cfg.App.RequestTimeout(); timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.AllowOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(responder.Middleware())
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
