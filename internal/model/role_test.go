package model_test

import (
	"testing"

	"github.com/gearstock/console/internal/model"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name string
		in   string
		want model.Role
	}{
		{name: "admin lower", in: "admin", want: model.RoleAdmin},
		{name: "admin upper", in: "ADMIN", want: model.RoleAdmin},
		{name: "admin canonical", in: "Admin", want: model.RoleAdmin},
		{name: "student lower", in: "estudiante", want: model.RoleStudent},
		{name: "student mixed", in: "eStUdIaNtE", want: model.RoleStudent},
		{name: "empty defaults to student", in: "", want: model.RoleStudent},
		{name: "unknown defaults to student", in: "superuser", want: model.RoleStudent},
		{name: "whitespace is not trimmed", in: " admin", want: model.RoleStudent},
		{name: "multi-byte leading rune stays whole", in: "ádmin", want: model.RoleStudent},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, model.NormalizeRole(tt.in))
		})
	}
}

func TestNormalizeRole_Idempotent(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"admin", "ADMIN", "estudiante", "", "whatever"} {
		once := model.NormalizeRole(in)
		require.Equal(t, once, model.NormalizeRole(string(once)))
	}
}

func TestUser_IsAdmin(t *testing.T) {
	t.Parallel()
	require.True(t, model.User{Role: "admin"}.IsAdmin())
	require.True(t, model.User{Role: model.RoleAdmin}.IsAdmin())
	require.False(t, model.User{Role: model.RoleStudent}.IsAdmin())
	require.False(t, model.User{}.IsAdmin())
}
