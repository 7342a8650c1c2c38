package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/gearstock/console/internal/model"
	"github.com/gearstock/console/internal/report"
)

// Dashboard serves the landing counters. Equipment and the role-scoped loan
// list are fetched in parallel; the numbers are recomputed on every request.
func (h *Handler) Dashboard(c echo.Context) error {
	auth, sess, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	ctx := c.Request().Context()

	var (
		items []model.Equipment
		loans []model.Loan
	)
	gg, ctxCancel := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return h.equipmentSvc.CB().Do(func() error {
			got, code, err := h.equipmentSvc.List(ctxCancel, auth)
			if err != nil {
				return remoteErr(code, err)
			}
			items = got
			return nil
		})
	})
	gg.Go(func() error {
		var err error
		loans, err = h.fetchLoans(ctxCancel, auth, sess.User.IsAdmin())
		return err
	})
	if err := gg.Wait(); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report.BuildDashboard(items, loans))
}

type reportsResponse struct {
	Equipment  report.EquipmentStats  `json:"implementos"`
	Loans      report.LoanStats       `json:"prestamos"`
	Categories []report.CategoryCount `json:"categorias"`
	TopLoaned  []report.TopItem       `json:"masPrestados"`
	Monthly    report.Monthly         `json:"porMes"`
}

// Reports assembles the full derived-statistics view over equipment and the
// complete loan history.
func (h *Handler) Reports(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	ctx := c.Request().Context()

	var (
		items []model.Equipment
		loans []model.Loan
	)
	gg, ctxCancel := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return h.equipmentSvc.CB().Do(func() error {
			got, code, err := h.equipmentSvc.List(ctxCancel, auth)
			if err != nil {
				return remoteErr(code, err)
			}
			items = got
			return nil
		})
	})
	gg.Go(func() error {
		return h.loanSvc.CB().Do(func() error {
			got, code, err := h.loanSvc.All(ctxCancel, auth)
			if err != nil {
				return remoteErr(code, err)
			}
			loans = got
			return nil
		})
	})
	if err := gg.Wait(); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reportsResponse{
		Equipment:  report.EquipmentByStatus(items),
		Loans:      report.LoansByStatus(loans),
		Categories: report.ByCategory(items),
		TopLoaned:  report.TopLoaned(loans),
		Monthly:    report.PerMonth(loans),
	})
}
