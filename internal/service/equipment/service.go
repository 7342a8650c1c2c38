package equipment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gearstock/console/internal/model"
	"github.com/gearstock/console/internal/service/fetch"
	"github.com/gearstock/console/pkg/breaker"
)

// Service wraps the lending API's equipment CRUD. Create and update are
// multipart because the form may carry an image file; the handler re-encodes
// the incoming form and passes the body through untouched.
type Service struct {
	log    *zap.Logger
	client *fetch.Client
	cb     *breaker.Breaker
}

func NewService(log *zap.Logger, client *fetch.Client) *Service {
	return &Service{
		log:    log,
		client: client,
		cb:     breaker.New(20, 10*time.Second, 0.5, 5),
	}
}

func (s *Service) CB() *breaker.Breaker { return s.cb }

func (s *Service) List(ctx context.Context, auth fetch.Auth) ([]model.Equipment, int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodGet, "/api/Implementos", nil, auth)
	if err != nil {
		return nil, http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al obtener implementos"))
	}
	var items []model.Equipment
	if err := fetch.DecodeJSON(resp, &items); err != nil {
		return nil, http.StatusBadGateway, err
	}
	return items, resp.StatusCode, nil
}

func (s *Service) Create(ctx context.Context, body io.Reader, contentType string, auth fetch.Auth) (model.Equipment, int, error) {
	resp, err := s.client.Do(ctx, http.MethodPost, "/api/Implementos", body, contentType, auth)
	if err != nil {
		return model.Equipment{}, http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return model.Equipment{}, resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al crear implemento"))
	}
	var item model.Equipment
	if err := fetch.DecodeJSON(resp, &item); err != nil {
		return model.Equipment{}, http.StatusBadGateway, err
	}
	return item, resp.StatusCode, nil
}

func (s *Service) Update(ctx context.Context, id int, body io.Reader, contentType string, auth fetch.Auth) (model.Equipment, int, error) {
	resp, err := s.client.Do(ctx, http.MethodPut, fmt.Sprintf("/api/Implementos/%d", id), body, contentType, auth)
	if err != nil {
		return model.Equipment{}, http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return model.Equipment{}, resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al actualizar implemento"))
	}
	var item model.Equipment
	if err := fetch.DecodeJSON(resp, &item); err != nil {
		return model.Equipment{}, http.StatusBadGateway, err
	}
	return item, resp.StatusCode, nil
}

func (s *Service) Delete(ctx context.Context, id int, auth fetch.Auth) (int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/Implementos/%d", id), nil, auth)
	if err != nil {
		return http.StatusBadGateway, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al eliminar implemento"))
	}
	return resp.StatusCode, nil
}
