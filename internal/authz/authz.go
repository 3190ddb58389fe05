// Package authz maps roles to the workflow operations they may invoke.
package authz

import (
	"github.com/pkg/errors"

	"rapidxcel/internal/domain"
)

type Operation string

const (
	BrowseCatalog Operation = "browse_catalog"
	AddToCart     Operation = "add_to_cart"
	PlaceOrder    Operation = "place_order"
	ViewOwnOrders Operation = "view_own_orders"
	TrackOrder    Operation = "track_order"
	ViewStock     Operation = "view_stock"
	ManageStock   Operation = "manage_stock"
	MonitorSupply Operation = "monitor_supply"
	ViewShipments Operation = "view_shipments"
	UpdateStatus  Operation = "update_status"
)

type Policy struct {
	allowed map[domain.Role]map[Operation]struct{}
}

func NewPolicy(table map[domain.Role][]Operation) Policy {
	p := Policy{allowed: make(map[domain.Role]map[Operation]struct{}, len(table))}
	for role, ops := range table {
		set := make(map[Operation]struct{}, len(ops))
		for _, op := range ops {
			set[op] = struct{}{}
		}
		p.allowed[role] = set
	}
	return p
}

// Default is the production role table.
var Default = NewPolicy(map[domain.Role][]Operation{
	domain.RoleCustomer:         {BrowseCatalog, AddToCart, PlaceOrder, ViewOwnOrders, TrackOrder},
	domain.RoleInventoryManager: {ViewStock, ManageStock},
	domain.RoleSupplier:         {ViewStock, MonitorSupply},
	domain.RoleCourier:          {ViewShipments, UpdateStatus},
})

func (p Policy) Allows(role domain.Role, op Operation) bool {
	_, ok := p.allowed[role][op]
	return ok
}

// Authorize fails with ErrUnauthenticated for a nil user and ErrForbidden
// when the user's role does not carry op.
func (p Policy) Authorize(u *domain.User, op Operation) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if !p.Allows(u.Role, op) {
		return errors.Wrapf(domain.ErrForbidden, "%s may not %s", u.Role, op)
	}
	return nil
}

// RequireRole is an exact single-role match, no hierarchy.
func RequireRole(u *domain.User, role domain.Role) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if u.Role != role {
		return errors.Wrapf(domain.ErrForbidden, "requires role %s", role)
	}
	return nil
}
