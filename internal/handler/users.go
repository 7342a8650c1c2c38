package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gearstock/console/internal/model"
)

func (h *Handler) ListUsers(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	ctx := c.Request().Context()

	var users []model.User
	if err := h.authSvc.CB().Do(func() error {
		var (
			code int
			err  error
		)
		users, code, err = h.authSvc.ListUsers(ctx, auth)
		if err != nil {
			return remoteErr(code, err)
		}
		return nil
	}); err != nil {
		return err
	}

	if q := c.QueryParam("q"); q != "" {
		users = filterUsers(users, q)
	}
	return c.JSON(http.StatusOK, users)
}

// filterUsers matches a search term against id, name or email, the way the
// loan registration form looks borrowers up.
func filterUsers(users []model.User, term string) []model.User {
	lower := strings.ToLower(term)
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strconv.Itoa(u.ID), term) ||
			strings.Contains(strings.ToLower(u.Name), lower) ||
			strings.Contains(strings.ToLower(u.Email), lower) {
			out = append(out, u)
		}
	}
	return out
}

func (h *Handler) GetUser(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	user, code, err := h.authSvc.GetUser(c.Request().Context(), id, auth)
	if err != nil {
		return remoteErr(code, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var u model.WireUser
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if code, err := h.authSvc.UpdateUser(c.Request().Context(), id, u, auth); err != nil {
		return remoteErr(code, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if code, err := h.authSvc.DeleteUser(c.Request().Context(), id, auth); err != nil {
		return remoteErr(code, err)
	}
	return c.NoContent(http.StatusNoContent)
}
