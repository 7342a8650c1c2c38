package handler

import (
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/gearstock/console/config"
	"github.com/gearstock/console/internal/identity"
	"github.com/gearstock/console/internal/menu"
	"github.com/gearstock/console/internal/model"
	"github.com/gearstock/console/internal/service/auth"
	"github.com/gearstock/console/internal/service/equipment"
	"github.com/gearstock/console/internal/service/fetch"
	"github.com/gearstock/console/internal/service/loan"
	"github.com/gearstock/console/internal/session"
	"github.com/gearstock/console/pkg/validate"
)

type Handler struct {
	authSvc      AuthService
	equipmentSvc EquipmentService
	loanSvc      LoanService
	sessions     session.Store
	enqueuer     Enqueuer
	log          *zap.Logger
	sessionCfg   session.Config
}

func New(log *zap.Logger, cfg config.Config, producer sarama.SyncProducer) *Handler {
	sessions := session.NewStore(cfg.Session)
	client := fetch.NewClient(log, cfg.API, sessions)
	return NewWithServices(
		log,
		cfg.Session,
		auth.NewService(log, client),
		equipment.NewService(log, client),
		loan.NewService(log, client),
		sessions,
		NewEnqueuer(producer),
	)
}

// NewWithServices wires a handler from explicit collaborators.
func NewWithServices(log *zap.Logger, sessionCfg session.Config, authSvc AuthService, equipmentSvc EquipmentService, loanSvc LoanService, sessions session.Store, enqueuer Enqueuer) *Handler {
	return &Handler{
		authSvc:      authSvc,
		equipmentSvc: equipmentSvc,
		loanSvc:      loanSvc,
		sessions:     sessions,
		enqueuer:     enqueuer,
		log:          log,
		sessionCfg:   sessionCfg,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig()),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)

	authd := api.Group("", h.sessionAuth)
	authd.POST("/auth/logout", h.Logout)
	authd.GET("/session", h.Session)
	authd.GET("/navigation", h.Navigation)

	authd.GET("/equipment", h.ListEquipment)
	authd.GET("/loans", h.ListLoans)
	authd.GET("/loans/stream", h.LoanStream)
	authd.GET("/dashboard", h.Dashboard)

	admin := authd.Group("", h.adminOnly)
	admin.POST("/equipment", h.CreateEquipment)
	admin.PUT("/equipment/:id", h.UpdateEquipment)
	admin.DELETE("/equipment/:id", h.DeleteEquipment)
	admin.POST("/loans", h.RegisterLoan)
	admin.PUT("/loans/:id/return", h.ReturnLoan)
	admin.GET("/users", h.ListUsers)
	admin.GET("/users/:id", h.GetUser)
	admin.PUT("/users/:id", h.UpdateUser)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.GET("/reports", h.Reports)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type loginResponse struct {
	User model.User  `json:"user"`
	Menu []menu.Item `json:"menu"`
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	var lr model.LoginResponse
	if err := h.authSvc.CB().Do(func() error {
		var (
			code int
			err  error
		)
		lr, code, err = h.authSvc.Login(ctx, req.Email, req.Password)
		if err != nil {
			return echo.NewHTTPError(code, err.Error())
		}
		return nil
	}); err != nil {
		return err
	}

	user, src, err := identity.DeriveUser(lr, req.Email, h.log)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	h.log.Debug("login user derived", zap.String("source", string(src)), zap.String("email", user.Email))

	id, err := h.sessions.Create(ctx, session.Session{
		Token:    lr.Token,
		User:     user,
		Remember: req.Remember,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ttl := h.sessionCfg.TTL
	if req.Remember {
		ttl = h.sessionCfg.RememberTTL
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{User: user, Menu: menu.ForUser(user)})
}

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if code, err := h.authSvc.Register(c.Request().Context(), req); err != nil {
		return remoteErr(code, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "usuario registrado exitosamente"})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.sessions.Delete(c.Request().Context(), currentSessionID(c)); err != nil {
		h.log.Warn("logout", zap.Error(err))
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Session(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return c.JSON(http.StatusOK, sess.User)
}

func (h *Handler) Navigation(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return c.JSON(http.StatusOK, menu.ForUser(sess.User))
}

// callerAuth builds the per-request identity for remote calls.
func callerAuth(c echo.Context) (fetch.Auth, session.Session, error) {
	sess, err := currentSession(c)
	if err != nil {
		return fetch.Auth{}, session.Session{}, err
	}
	return fetch.Auth{SessionID: currentSessionID(c), Token: sess.Token}, sess, nil
}
