package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gearstock/console/internal/errs"
	"github.com/gearstock/console/internal/model"
	"github.com/gearstock/console/internal/service/fetch"
	"github.com/gearstock/console/pkg/breaker"
)

// Service talks to the lending API's credential and user endpoints.
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

// Login exchanges credentials. The response body may carry the user under
// `usuario`, under `user`, or only inside the token; derivation happens in
// the handler so the precedence stays in one place.
func (s *Service) Login(ctx context.Context, email, password string) (model.LoginResponse, int, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := s.client.DoJSON(ctx, http.MethodPost, "/api/Auth/login", body, fetch.Auth{})
	if err != nil {
		return model.LoginResponse{}, http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return model.LoginResponse{}, resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al iniciar sesión"))
	}
	var lr model.LoginResponse
	if err := fetch.DecodeJSON(resp, &lr); err != nil {
		return model.LoginResponse{}, http.StatusBadGateway, errs.ErrBadPayload
	}
	return lr, resp.StatusCode, nil
}

type registerBody struct {
	Name string `json:"nombre"`
	Mail string `json:"email"`
	// the lending API validates the field under this name
	PasswordHash string `json:"PasswordHash"`
	Role         string `json:"rol"`
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (int, error) {
	role := req.Role
	if role == "" {
		role = string(model.RoleStudent)
	}
	body := registerBody{Name: req.Name, Mail: req.Email, PasswordHash: req.Password, Role: role}
	resp, err := s.client.DoJSON(ctx, http.MethodPost, "/api/Auth/registro", body, fetch.Auth{})
	if err != nil {
		return http.StatusBadGateway, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al registrar usuario"))
	}
	return resp.StatusCode, nil
}

func (s *Service) ListUsers(ctx context.Context, auth fetch.Auth) ([]model.User, int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodGet, "/api/Auth/usuarios", nil, auth)
	if err != nil {
		return nil, http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al obtener usuarios"))
	}
	var users []model.User
	if err := fetch.DecodeJSON(resp, &users); err != nil {
		return nil, http.StatusBadGateway, err
	}
	return users, resp.StatusCode, nil
}

func (s *Service) GetUser(ctx context.Context, id int, auth fetch.Auth) (model.User, int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodGet, fmt.Sprintf("/api/Auth/usuarios/%d", id), nil, auth)
	if err != nil {
		return model.User{}, http.StatusBadGateway, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return model.User{}, resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al obtener usuario"))
	}
	var u model.User
	if err := fetch.DecodeJSON(resp, &u); err != nil {
		return model.User{}, http.StatusBadGateway, err
	}
	return u, resp.StatusCode, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int, u model.WireUser, auth fetch.Auth) (int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodPut, fmt.Sprintf("/api/Auth/usuarios/%d", id), u, auth)
	if err != nil {
		return http.StatusBadGateway, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al actualizar usuario"))
	}
	return resp.StatusCode, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int, auth fetch.Auth) (int, error) {
	resp, err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/Auth/usuarios/%d", id), nil, auth)
	if err != nil {
		return http.StatusBadGateway, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, fmt.Errorf("%s", fetch.ErrorMessage(resp, "error al eliminar usuario"))
	}
	return resp.StatusCode, nil
}
