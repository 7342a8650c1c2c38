package loan

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

// Service wraps the lending API's loan endpoints. State transitions live
// server-side; this client only lists, registers and triggers returns.
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

// Mine lists the session user's own loans.
func (s *Service) Mine(ctx context.Context, auth fetch.Auth) ([]model.Loan, int, error) {
	return s.list(ctx, "/api/Prestamos/mis-prestamos", auth)
}

// All lists every loan; the lending API enforces the admin requirement.
func (s *Service) All(ctx context.Context, auth fetch.Auth) ([]model.Loan, int, error) {
	return s.list(ctx, "/api/Prestamos/todos", auth)
}

func (s *Service) list(ctx context.Context, path string, auth fetch.Auth) ([]model.Loan, int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodGet, path, nil, auth)
	if err != nil {
		return nil, http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al obtener préstamos"))
	}
	var loans []model.Loan
	if err := fetch.DecodeJSON(resp, &loans); err != nil {
		return nil, http.StatusBadGateway, err
	}
	return loans, resp.StatusCode, nil
}

// Register submits a new loan. The success body is free text.
func (s *Service) Register(ctx context.Context, req model.RegisterLoanRequest, auth fetch.Auth) (string, int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodPost, "/api/Prestamos/registrar", req, auth)
	if err != nil {
		return "", http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al registrar préstamo"))
	}
	return readText(resp), resp.StatusCode, nil
}

// Return records a loan return.
func (s *Service) Return(ctx context.Context, id int, auth fetch.Auth) (string, int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodPut, fmt.Sprintf("/api/Prestamos/devolucion/%d", id), nil, auth)
	if err != nil {
		return "", http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al registrar devolución"))
	}
	return readText(resp), resp.StatusCode, nil
}

func readText(resp *http.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(data)
}
