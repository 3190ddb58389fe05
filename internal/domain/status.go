package domain

import "strings"

type OrderStatus string

const (
	StatusProcessing     OrderStatus = "Processing"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

var Statuses = []OrderStatus{
	StatusProcessing, StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled,
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery: {StatusDelivered},
}

// ParseOrderStatus accepts the display label in any case; underscores and
// hyphens stand in for spaces ("out_for_delivery").
func ParseOrderStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(s))
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Next lists the states reachable from s, for the courier dashboard.
func (s OrderStatus) Next() []OrderStatus {
	return transitions[s]
}

func (s OrderStatus) String() string { return string(s) }
