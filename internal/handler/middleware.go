package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/gearstock/console/internal/errs"
	"github.com/gearstock/console/internal/session"
	"github.com/gearstock/console/pkg/logger"
)

const (
	// SessionCookie carries the server-side session id; the bearer token
	// itself never reaches the browser.
	SessionCookie = "console_sid"

	sessionIDKey = "sessionIDKey"
	sessionKey   = "sessionKey"
)

// sessionAuth resolves the session cookie against the store before any
// protected handler runs. No session, no content.
func (h *Handler) sessionAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no session")
		}
		sess, err := h.sessions.Get(c.Request().Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, errs.ErrNoSession) {
				return echo.NewHTTPError(http.StatusUnauthorized, errs.ErrSessionExpired.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		c.Set(sessionIDKey, cookie.Value)
		c.Set(sessionKey, sess)
		return next(c)
	}
}

// adminOnly gates admin affordances on the normalized role.
func (h *Handler) adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "no session")
		}
		if !sess.User.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "solo administradores")
		}
		return next(c)
	}
}

func currentSession(c echo.Context) (session.Session, error) {
	sess, ok := c.Get(sessionKey).(session.Session)
	if !ok {
		return session.Session{}, errors.New("invalid sessionKey")
	}
	return sess, nil
}

func currentSessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}

// remoteErr maps a failed remote call to an HTTP error. A terminal session
// expiry is always a 401, whatever endpoint tripped it.
func remoteErr(code int, err error) error {
	if errors.Is(err, errs.ErrSessionExpired) {
		return echo.NewHTTPError(http.StatusUnauthorized, errs.ErrSessionExpired.Error())
	}
	if code < http.StatusBadRequest {
		code = http.StatusBadGateway
	}
	return echo.NewHTTPError(code, err.Error())
}

func requestLoggerConfig() middleware.RequestLoggerConfig {
	cfg := logger.Log{LogLevel: zapcore.DebugLevel, Sink: ""}
	log := logger.NewLogger(cfg, "echo")
	c := middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
	return c
}

func newRateLimiterMW(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}
