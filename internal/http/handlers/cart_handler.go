package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"rapidxcel/internal/domain"
	applog "rapidxcel/internal/log"
	"rapidxcel/internal/services"
)

type CartHandler struct {
	Carts     *services.CartService
	Inventory *services.InventoryService
}

func (h *CartHandler) cartData(c *fiber.Ctx) fiber.Map {
	cart := loadCart(c)
	return fiber.Map{
		"Cart":     cart.Lines,
		"Totals":   h.Carts.Summarize(cart),
		"Pincodes": h.Carts.Calc.Pincodes(),
	}
}

// Catalog shows the products alongside the current cart and its totals.
func (h *CartHandler) Catalog(c *fiber.Ctx) error {
	products, err := h.Inventory.Catalog(currentUser(c))
	if err != nil {
		return fail(c, "catalog.list", "", err)
	}
	data := h.cartData(c)
	data["Products"] = products
	return render(c, "customer_orders", data)
}

func (h *CartHandler) Review(c *fiber.Ctx) error {
	return render(c, "order_review", h.cartData(c))
}

// selections reads the parallel product_ids[] / quantities[] form fields,
// or an {"items": [...]} JSON body.
func selections(c *fiber.Ctx) ([]domain.Selection, error) {
	if c.Is("json") {
		var body struct {
			Items []struct {
				ProductID int64  `json:"product_id"`
				Quantity  string `json:"quantity"`
			} `json:"items"`
		}
		if err := c.BodyParser(&body); err != nil {
			return nil, domain.NewValidationError("items", "Malformed cart request.")
		}
		out := make([]domain.Selection, 0, len(body.Items))
		for _, it := range body.Items {
			out = append(out, domain.Selection{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		return out, nil
	}

	args := c.Request().PostArgs()
	ids := args.PeekMulti("product_ids[]")
	qtys := args.PeekMulti("quantities[]")
	out := make([]domain.Selection, 0, len(ids))
	for i := 0; i < len(ids) && i < len(qtys); i++ {
		id, err := strconv.ParseInt(string(ids[i]), 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("product_ids", "Malformed cart request.")
		}
		out = append(out, domain.Selection{ProductID: id, Quantity: string(qtys[i])})
	}
	return out, nil
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sel, err := selections(c)
	if err != nil {
		return fail(c, "cart.add", "/customer_orders", err)
	}
	cart, warnings, err := h.Carts.AddItems(loadCart(c), sel)
	if err != nil {
		return err
	}
	saveCart(c, cart)
	if warnings == nil {
		warnings = []string{}
	}
	if !wantsJSON(c) {
		for _, w := range warnings {
			flash(c, "danger", w)
		}
	}
	applog.Info(c, "cart.add", map[string]any{"lines": len(cart.Lines), "skipped": len(warnings)})

	data := h.cartData(c)
	data["Warnings"] = warnings
	return done(c, "/order_review_page", "Products added to your cart.", data)
}
