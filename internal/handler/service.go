package handler

import (
	"context"
	"io"

	"github.com/gearstock/console/internal/model"
	"github.com/gearstock/console/internal/service/auth"
	"github.com/gearstock/console/internal/service/equipment"
	"github.com/gearstock/console/internal/service/fetch"
	"github.com/gearstock/console/internal/service/loan"
	"github.com/gearstock/console/pkg/breaker"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ AuthService      = (*auth.Service)(nil)
	_ EquipmentService = (*equipment.Service)(nil)
	_ LoanService      = (*loan.Service)(nil)
)

type AuthService interface {
	CB() *breaker.Breaker
	Login(ctx context.Context, email, password string) (model.LoginResponse, int, error)
	Register(ctx context.Context, req model.RegisterRequest) (int, error)
	ListUsers(ctx context.Context, auth fetch.Auth) ([]model.User, int, error)
	GetUser(ctx context.Context, id int, auth fetch.Auth) (model.User, int, error)
	UpdateUser(ctx context.Context, id int, u model.WireUser, auth fetch.Auth) (int, error)
	DeleteUser(ctx context.Context, id int, auth fetch.Auth) (int, error)
}

type EquipmentService interface {
	CB() *breaker.Breaker
	List(ctx context.Context, auth fetch.Auth) ([]model.Equipment, int, error)
	Create(ctx context.Context, body io.Reader, contentType string, auth fetch.Auth) (model.Equipment, int, error)
	Update(ctx context.Context, id int, body io.Reader, contentType string, auth fetch.Auth) (model.Equipment, int, error)
	Delete(ctx context.Context, id int, auth fetch.Auth) (int, error)
}

type LoanService interface {
	CB() *breaker.Breaker
	Mine(ctx context.Context, auth fetch.Auth) ([]model.Loan, int, error)
	All(ctx context.Context, auth fetch.Auth) ([]model.Loan, int, error)
	Register(ctx context.Context, req model.RegisterLoanRequest, auth fetch.Auth) (string, int, error)
	Return(ctx context.Context, id int, auth fetch.Auth) (string, int, error)
}
