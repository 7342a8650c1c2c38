package menu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gearstock/console/internal/menu"
	"github.com/gearstock/console/internal/model"
)

func paths(items []menu.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Path)
	}
	return out
}

func TestForUser_Student(t *testing.T) {
	t.Parallel()
	items := menu.ForUser(model.User{Role: model.RoleStudent})
	require.Equal(t, []string{"/dashboard", "/inventario", "/prestamos"}, paths(items))
}

func TestForUser_Admin(t *testing.T) {
	t.Parallel()
	items := menu.ForUser(model.User{Role: model.RoleAdmin})
	require.Equal(t, []string{"/dashboard", "/inventario", "/prestamos", "/reportes", "/configuracion"}, paths(items))
}

func TestForUser_NormalizesRawRole(t *testing.T) {
	t.Parallel()
	items := menu.ForUser(model.User{Role: "ADMIN"})
	require.Contains(t, paths(items), "/reportes")
}

func TestVisible_EmptyRolesMeansEveryone(t *testing.T) {
	t.Parallel()
	it := menu.Item{Title: "Dashboard", Path: "/dashboard"}
	require.True(t, menu.Visible(it, model.RoleStudent))
	require.True(t, menu.Visible(it, model.RoleAdmin))
}
