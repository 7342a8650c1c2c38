package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gearstock/console/internal/model"
)

func (h *Handler) ListEquipment(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	ctx := c.Request().Context()

	var items []model.Equipment
	if err := h.equipmentSvc.CB().Do(func() error {
		var (
			code int
			err  error
		)
		items, code, err = h.equipmentSvc.List(ctx, auth)
		if err != nil {
			return remoteErr(code, err)
		}
		return nil
	}); err != nil {
		return err
	}

	// the loan form only offers equipment the API reports as available;
	// the API stays the final arbiter on registration
	if estado := c.QueryParam("estado"); estado != "" {
		filtered := make([]model.Equipment, 0, len(items))
		for _, it := range items {
			if it.Status == estado {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateEquipment(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	body, contentType, err := repackMultipart(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, code, err := h.equipmentSvc.Create(c.Request().Context(), body, contentType, auth)
	if err != nil {
		return remoteErr(code, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateEquipment(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	body, contentType, err := repackMultipart(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, code, err := h.equipmentSvc.Update(c.Request().Context(), id, body, contentType, auth)
	if err != nil {
		return remoteErr(code, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteEquipment(c echo.Context) error {
	auth, _, err := callerAuth(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if code, err := h.equipmentSvc.Delete(c.Request().Context(), id, auth); err != nil {
		return remoteErr(code, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// repackMultipart re-encodes the incoming form, fields and files alike, so
// the optional image upload reaches the lending API unchanged.
func repackMultipart(c echo.Context) (io.Reader, string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", err
	}

	buf := bytes.NewBuffer(nil)
	w := multipart.NewWriter(buf)
	for field, values := range form.Value {
		for _, v := range values {
			if err := w.WriteField(field, v); err != nil {
				return nil, "", err
			}
		}
	}
	for field, files := range form.File {
		for _, fh := range files {
			src, err := fh.Open()
			if err != nil {
				return nil, "", err
			}
			dst, err := w.CreateFormFile(field, fh.Filename)
			if err != nil {
				src.Close()
				return nil, "", err
			}
			if _, err := io.Copy(dst, src); err != nil {
				src.Close()
				return nil, "", err
			}
			src.Close()
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
