package domain

import "strings"

type Role string

const (
	RoleCustomer         Role = "Customer"
	RoleInventoryManager Role = "Inventory Manager"
	RoleSupplier         Role = "Supplier"
	RoleCourier          Role = "Courier Service"
)

var Roles = []Role{RoleCustomer, RoleInventoryManager, RoleSupplier, RoleCourier}

// ParseRole matches the registration form value case-insensitively.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// Home is the landing page a user is sent to after login or registration.
func (r Role) Home() string {
	switch r {
	case RoleInventoryManager:
		return "/inventory"
	case RoleCustomer:
		return "/customer_orders"
	case RoleSupplier:
		return "/supplier_monitor"
	case RoleCourier:
		return "/courier_shipments"
	}
	return "/"
}

type User struct {
	ID        string `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Name      string `db:"name" json:"name"`
	Hash      string `db:"password_hash" json:"-"`
	Role      Role   `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
