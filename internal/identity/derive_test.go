package identity_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gearstock/console/internal/errs"
	"github.com/gearstock/console/internal/identity"
	"github.com/gearstock/console/internal/model"
)

func token(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestDeriveUser_UsuarioWins(t *testing.T) {
	t.Parallel()
	// the token claims disagree with `usuario`; `usuario` must win
	resp := model.LoginResponse{
		Token:   token(t, map[string]any{"email": "token@b.com", "rol": "admin", "id": 99}),
		Usuario: &model.WireUser{ID: 7, Name: "Laura", Email: "laura@u.edu", Role: "ADMIN"},
	}
	u, src, err := identity.DeriveUser(resp, "form@u.edu", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, identity.SourceUsuario, src)
	require.Equal(t, model.User{ID: 7, Name: "Laura", Email: "laura@u.edu", Role: model.RoleAdmin}, u)
}

func TestDeriveUser_UserField(t *testing.T) {
	t.Parallel()
	resp := model.LoginResponse{
		Token: token(t, nil),
		User:  &model.WireUser{ID: 3, Role: "estudiante"},
	}
	u, src, err := identity.DeriveUser(resp, "pepe@u.edu", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, identity.SourceUser, src)
	// missing name and email fall back to the submitted email
	require.Equal(t, "pepe", u.Name)
	require.Equal(t, "pepe@u.edu", u.Email)
	require.Equal(t, model.RoleStudent, u.Role)
}

func TestDeriveUser_ClaimsFallback(t *testing.T) {
	t.Parallel()
	resp := model.LoginResponse{
		Token: token(t, map[string]any{"email": "a@b.com", "rol": "admin", "sub": "42", "name": "Ana"}),
	}
	u, src, err := identity.DeriveUser(resp, "form@u.edu", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, identity.SourceClaims, src)
	require.Equal(t, model.User{ID: 42, Name: "Ana", Email: "a@b.com", Role: model.RoleAdmin}, u)
}

func TestDeriveUser_ClaimAliases(t *testing.T) {
	t.Parallel()
	resp := model.LoginResponse{
		Token: token(t, map[string]any{
			"nameid":      float64(11),
			"unique_name": "carlos@u.edu",
			"http://schemas.microsoft.com/ws/2008/06/identity/claims/role": "ADMIN",
		}),
	}
	u, _, err := identity.DeriveUser(resp, "form@u.edu", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 11, u.ID)
	require.Equal(t, "carlos@u.edu", u.Name) // unique_name doubles as name alias
	require.Equal(t, "carlos@u.edu", u.Email)
	require.Equal(t, model.RoleAdmin, u.Role)
}

func TestDeriveUser_SyntheticOnUndecodableToken(t *testing.T) {
	t.Parallel()
	resp := model.LoginResponse{Token: "not-a-jwt"}
	u, src, err := identity.DeriveUser(resp, "maria@u.edu", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, identity.SourceSynthetic, src)
	require.Equal(t, model.User{ID: 0, Name: "maria", Email: "maria@u.edu", Role: model.RoleStudent}, u)
}

func TestDeriveUser_NoToken(t *testing.T) {
	t.Parallel()
	_, _, err := identity.DeriveUser(model.LoginResponse{}, "a@b.com", zap.NewNop())
	require.ErrorIs(t, err, errs.ErrNoToken)
}

func TestDeriveUser_NoEmailAnywhere(t *testing.T) {
	t.Parallel()
	_, _, err := identity.DeriveUser(model.LoginResponse{Token: "x"}, "", zap.NewNop())
	require.ErrorIs(t, err, errs.ErrNoEmail)
}
