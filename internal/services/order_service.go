package services

import (
	"github.com/pkg/errors"

	"rapidxcel/internal/authz"
	"rapidxcel/internal/domain"
	"rapidxcel/internal/pricing"
	"rapidxcel/internal/qrcode"
	"rapidxcel/internal/repos"
	"rapidxcel/internal/validate"
)

type OrderService struct {
	Orders          *repos.OrderRepo
	Calc            pricing.Calculator
	Policy          authz.Policy
	QR              *qrcode.Tracker
	RejectEmptyCart bool
}

func NewOrderService(orders *repos.OrderRepo, calc pricing.Calculator, policy authz.Policy, qr *qrcode.Tracker) *OrderService {
	return &OrderService{Orders: orders, Calc: calc, Policy: policy, QR: qr}
}

// Placed is the outcome of PlaceOrder. Cart is the cart the caller should
// store afterwards: cleared on success, untouched on failure.
type Placed struct {
	Order  *domain.Order      `json:"order"`
	Lines  []domain.OrderLine `json:"items"`
	Totals pricing.Totals     `json:"totals"`
	Cart   domain.Cart        `json:"-"`
}

// PlaceOrder turns the cart into a Processing order. The order, its lines
// and every stock decrement commit together or not at all.
func (s *OrderService) PlaceOrder(u *domain.User, cart domain.Cart, in validate.OrderInput) (Placed, error) {
	keep := Placed{Cart: cart}
	if err := s.Policy.Authorize(u, authz.PlaceOrder); err != nil {
		return keep, err
	}
	if err := validate.Order(&in); err != nil {
		return keep, err
	}
	if !s.Calc.IsServiceable(in.Pincode) {
		return keep, errors.Wrapf(domain.ErrUnserviceable, "pincode %s", in.Pincode)
	}
	if cart.Empty() && s.RejectEmptyCart {
		return keep, domain.ErrEmptyCart
	}

	totals := s.Calc.ComputeTotals(cart.Lines)
	o := &domain.Order{
		CustomerID:   u.ID,
		CustomerName: u.Name,
		GoodsTotal:   totals.GoodsTotal,
		ShippingCost: totals.ShippingCost,
		GrandTotal:   totals.GrandTotal,
		Address:      in.Address,
		Pincode:      in.Pincode,
		Phone:        in.Phone,
	}
	lines, err := s.Orders.Place(o, cart.Lines)
	if err != nil {
		return keep, err
	}
	return Placed{Order: o, Lines: lines, Totals: totals, Cart: domain.Cart{}}, nil
}

// UpdateStatus applies a courier status change. Unknown statuses are a
// validation error; moves not in the transition table are
// domain.ErrIllegalTransition.
func (s *OrderService) UpdateStatus(u *domain.User, orderID int64, raw string) (*domain.Order, error) {
	if err := s.Policy.Authorize(u, authz.UpdateStatus); err != nil {
		return nil, err
	}
	next, ok := domain.ParseOrderStatus(raw)
	if !ok {
		return nil, domain.NewValidationError("status", "Unknown order status.")
	}
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, errors.Wrapf(domain.ErrIllegalTransition, "order %d cannot move from %s to %s", o.ID, o.Status, next)
	}
	if err := s.Orders.UpdateStatus(o.ID, o.Status, next, u.ID); err != nil {
		return nil, err
	}
	return s.Orders.Get(o.ID)
}

type OrderDetails struct {
	Order  *domain.Order       `json:"order"`
	Lines  []domain.OrderLine  `json:"items"`
	Events []domain.OrderEvent `json:"events,omitempty"`
	URL    string              `json:"tracking_url,omitempty"`
}

// owned loads an order the caller may see under op.
func (s *OrderService) owned(u *domain.User, orderID int64, op authz.Operation) (*domain.Order, error) {
	if err := s.Policy.Authorize(u, op); err != nil {
		return nil, err
	}
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != u.ID {
		return nil, errors.Wrapf(domain.ErrForbidden, "order %d belongs to another customer", orderID)
	}
	return o, nil
}

func (s *OrderService) GetOrderDetails(u *domain.User, orderID int64) (OrderDetails, error) {
	o, err := s.owned(u, orderID, authz.ViewOwnOrders)
	if err != nil {
		return OrderDetails{}, err
	}
	lines, err := s.Orders.Lines(o.ID)
	if err != nil {
		return OrderDetails{}, err
	}
	return OrderDetails{Order: o, Lines: lines}, nil
}

// Track is GetOrderDetails plus the status timeline.
func (s *OrderService) Track(u *domain.User, orderID int64) (OrderDetails, error) {
	o, err := s.owned(u, orderID, authz.TrackOrder)
	if err != nil {
		return OrderDetails{}, err
	}
	lines, err := s.Orders.Lines(o.ID)
	if err != nil {
		return OrderDetails{}, err
	}
	events, err := s.Orders.Events(o.ID)
	if err != nil {
		return OrderDetails{}, err
	}
	d := OrderDetails{Order: o, Lines: lines, Events: events}
	if s.QR != nil {
		d.URL = s.QR.URL(o.ID)
	}
	return d, nil
}

// TrackingQR renders a PNG QR code of the order's tracking URL.
func (s *OrderService) TrackingQR(u *domain.User, orderID int64) ([]byte, error) {
	o, err := s.owned(u, orderID, authz.TrackOrder)
	if err != nil {
		return nil, err
	}
	if s.QR == nil {
		return nil, errors.New("tracking qr not configured")
	}
	return s.QR.PNG(o.ID)
}

// History lists the caller's own orders, newest first.
func (s *OrderService) History(u *domain.User) ([]domain.Order, error) {
	if err := s.Policy.Authorize(u, authz.ViewOwnOrders); err != nil {
		return nil, err
	}
	return s.Orders.ListByCustomer(u.ID)
}

// Shipments lists every order for the courier dashboard.
func (s *OrderService) Shipments(u *domain.User) ([]domain.Order, error) {
	if err := s.Policy.Authorize(u, authz.ViewShipments); err != nil {
		return nil, err
	}
	return s.Orders.ListAll()
}
