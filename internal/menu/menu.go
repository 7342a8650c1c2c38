package menu

import (
	"github.com/gearstock/console/internal/model"
)

// Item is one navigation entry. An empty Roles list means every
// authenticated user sees it.
type Item struct {
	Title string       `json:"title"`
	Path  string       `json:"path"`
	Icon  string       `json:"icon"`
	Roles []model.Role `json:"-"`
}

var commonItems = []Item{
	{Title: "Dashboard", Path: "/dashboard", Icon: "dashboard"},
	{Title: "Inventario", Path: "/inventario", Icon: "inventory"},
	{Title: "Mis Préstamos", Path: "/prestamos", Icon: "loans"},
}

var restrictedItems = []Item{
	{Title: "Reportes", Path: "/reportes", Icon: "reports", Roles: []model.Role{model.RoleAdmin}},
	// link exists for admins; the page itself is out of scope
	{Title: "Configuración", Path: "/configuracion", Icon: "settings", Roles: []model.Role{model.RoleAdmin}},
}

// ForUser returns the common items plus every restricted item whose allowed
// roles include the user's normalized role.
func ForUser(u model.User) []Item {
	items := make([]Item, 0, len(commonItems)+len(restrictedItems))
	items = append(items, commonItems...)
	role := model.NormalizeRole(string(u.Role))
	for _, it := range restrictedItems {
		if Visible(it, role) {
			items = append(items, it)
		}
	}
	return items
}

// Visible is the single gate consulted for menu filtering.
func Visible(it Item, role model.Role) bool {
	if len(it.Roles) == 0 {
		return true
	}
	for _, r := range it.Roles {
		if r == role {
			return true
		}
	}
	return false
}
