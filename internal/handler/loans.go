package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gearstock/console/internal/model"
	"github.com/gearstock/console/internal/poller"
	"github.com/gearstock/console/internal/service/fetch"
	"github.com/gearstock/console/pkg/kafka"
)

// loanPollInterval matches the console's fixed re-poll cadence.
const loanPollInterval = 30 * time.Second

// fetchLoans is role-scoped: admins see every loan, students their own.
func (h *Handler) fetchLoans(ctx context.Context, auth fetch.Auth, isAdmin bool) ([]model.Loan, error) {
	var loans []model.Loan
	err := h.loanSvc.CB().Do(func() error {
		list := h.loanSvc.Mine
		if isAdmin {
			list = h.loanSvc.All
		}
		got, code, err := list(ctx, auth)
		if err != nil {
			return remoteErr(code, err)
		}
		loans = got
		return nil
	})
	return loans, err
}

func (h *Handler) ListLoans(c echo.Context) error {
	auth, sess, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	loans, err := h.fetchLoans(c.Request().Context(), auth, sess.User.IsAdmin())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) RegisterLoan(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	var req model.RegisterLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	msg, code, err := h.loanSvc.Register(c.Request().Context(), req, auth)
	if err != nil {
		return remoteErr(code, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": msg})
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	auth, sess, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	msg, code, err := h.loanSvc.Return(c.Request().Context(), id, auth)
	if err != nil {
		if code == http.StatusServiceUnavailable {
			retry := model.ReturnRetryMsg{LoanID: id, By: sess.User.Email}
			if qErr := h.enqueuer.Enqueue(kafka.ReturnRetryTopic, retry); qErr != nil {
				h.log.Warn("Return h.enqueuer.Enqueue()", zap.Error(qErr))
				return remoteErr(code, err)
			}
			return c.JSON(http.StatusAccepted, echo.Map{"message": "devolución encolada para reintento"})
		}
		return remoteErr(code, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// LoanStream pushes the role-scoped loan list as server-sent events: one
// snapshot on connect, then a fresh one every 30 seconds until the client
// goes away. Stale fetches lapped by a newer tick are dropped by the poller.
func (h *Handler) LoanStream(c echo.Context) error {
	auth, sess, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	isAdmin := sess.User.IsAdmin()
	var writeMu sync.Mutex
	p := poller.New(
		loanPollInterval,
		func(ctx context.Context) ([]model.Loan, error) {
			return h.fetchLoans(ctx, auth, isAdmin)
		},
		func(loans []model.Loan) {
			data, err := json.Marshal(loans)
			if err != nil {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			fmt.Fprintf(w, "data: %s\n\n", data)
			w.Flush()
		},
		func(err error) {
			h.log.Warn("loan stream fetch", zap.Error(err))
		},
	)
	p.Run(c.Request().Context())
	return nil
}
