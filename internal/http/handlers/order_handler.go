package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"rapidxcel/internal/domain"
	applog "rapidxcel/internal/log"
	"rapidxcel/internal/services"
	"rapidxcel/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func orderID(c *fiber.Ctx) (int64, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return 0, errors.Wrap(domain.ErrNotFound, "order")
	}
	return id, nil
}

// Place commits the session cart as an order. An unserviceable pincode sends
// the customer back to the catalog with the cart intact.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in validate.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "order.place", "/order_review_page", domain.NewValidationError("", "All fields are required!"))
	}
	placed, err := h.Orders.PlaceOrder(currentUser(c), loadCart(c), in)
	if err != nil {
		back := "/order_review_page"
		if errors.Is(err, domain.ErrUnserviceable) {
			back = "/customer_orders"
		}
		return fail(c, "order.place", back, err)
	}
	saveCart(c, placed.Cart)
	applog.Audit(c, "order.place", map[string]any{
		"order_id":    placed.Order.ID,
		"lines":       len(placed.Lines),
		"grand_total": placed.Order.GrandTotal,
	})
	if !wantsJSON(c) {
		// Redirect so a refresh cannot resubmit the form.
		flash(c, "success", "Order placed successfully!")
		return c.Redirect("/order_confirmation/" + strconv.FormatInt(placed.Order.ID, 10))
	}
	return renderStatus(c, fiber.StatusCreated, "order_confirmation", fiber.Map{
		"Order":  placed.Order,
		"Items":  placed.Lines,
		"Totals": placed.Totals,
	})
}

func (h *OrderHandler) Confirmation(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return fail(c, "order.confirmation", "", err)
	}
	d, err := h.Orders.GetOrderDetails(currentUser(c), id)
	if err != nil {
		return fail(c, "order.confirmation", "", err)
	}
	return render(c, "order_confirmation", fiber.Map{"Order": d.Order, "Items": d.Lines})
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.History(currentUser(c))
	if err != nil {
		return fail(c, "order.history", "", err)
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

func (h *OrderHandler) Details(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return fail(c, "order.details", "", err)
	}
	d, err := h.Orders.GetOrderDetails(currentUser(c), id)
	if err != nil {
		return fail(c, "order.details", "", err)
	}
	return render(c, "order_details", fiber.Map{"Order": d.Order, "Items": d.Lines})
}

func (h *OrderHandler) Track(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return fail(c, "order.track", "", err)
	}
	d, err := h.Orders.Track(currentUser(c), id)
	if err != nil {
		return fail(c, "order.track", "", err)
	}
	return render(c, "track_delivery", fiber.Map{
		"Order": d.Order, "Items": d.Lines, "Events": d.Events, "TrackingURL": d.URL,
	})
}

func (h *OrderHandler) TrackQR(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return fail(c, "order.track.qr", "", err)
	}
	png, err := h.Orders.TrackingQR(currentUser(c), id)
	if err != nil {
		return fail(c, "order.track.qr", "", err)
	}
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	c.Type("png")
	return c.Send(png)
}

type CourierHandler struct {
	Orders *services.OrderService
}

func (h *CourierHandler) Shipments(c *fiber.Ctx) error {
	orders, err := h.Orders.Shipments(currentUser(c))
	if err != nil {
		return fail(c, "courier.shipments", "", err)
	}
	return render(c, "courier_shipments", fiber.Map{"Orders": orders})
}

func (h *CourierHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return fail(c, "courier.status", "", err)
	}
	var in struct {
		Status string `form:"status" json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, "courier.status", "/courier_shipments", malformed(err))
	}
	o, err := h.Orders.UpdateStatus(currentUser(c), id, in.Status)
	if err != nil {
		return fail(c, "courier.status", "/courier_shipments", err)
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": o.ID, "status": o.Status})
	return done(c, "/courier_shipments", "Order status updated successfully!", fiber.Map{"order": o})
}
