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

type InventoryHandler struct {
	Inventory *services.InventoryService
}

func stockID(c *fiber.Ctx) (int64, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return 0, errors.Wrap(domain.ErrNotFound, "stock")
	}
	return id, nil
}

func warningFlashes(warnings []string) []Flash {
	out := make([]Flash, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, Flash{Kind: "warning", Message: w})
	}
	return out
}

// List shows every stock record; low ones are flagged and announced.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	listing, err := h.Inventory.List(currentUser(c))
	if err != nil {
		return fail(c, "inventory.list", "", err)
	}
	data := fiber.Map{
		"Stocks":    listing.Stocks,
		"Warnings":  listing.Warnings,
		"CanManage": h.Inventory.CanManage(currentUser(c)),
	}
	if !wantsJSON(c) {
		data["Flashes"] = warningFlashes(listing.Warnings)
	}
	return render(c, "inventory", data)
}

func (h *InventoryHandler) AddForm(c *fiber.Ctx) error {
	return render(c, "stock_form", fiber.Map{"Action": "/inventory/add", "Stock": domain.Stock{}})
}

func (h *InventoryHandler) EditForm(c *fiber.Ctx) error {
	id, err := stockID(c)
	if err != nil {
		return fail(c, "inventory.edit", "", err)
	}
	s, err := h.Inventory.Get(currentUser(c), id)
	if err != nil {
		return fail(c, "inventory.edit", "", err)
	}
	return render(c, "stock_form", fiber.Map{"Action": "/inventory/edit/" + strconv.FormatInt(id, 10), "Stock": s})
}

func stockInput(c *fiber.Ctx) (validate.StockInput, error) {
	var in validate.StockInput
	if err := c.BodyParser(&in); err != nil {
		return in, malformed(err)
	}
	return in, nil
}

func (h *InventoryHandler) Add(c *fiber.Ctx) error {
	in, err := stockInput(c)
	if err != nil {
		return fail(c, "inventory.add", "/inventory/add", err)
	}
	s, err := h.Inventory.Create(currentUser(c), in)
	if err != nil {
		return fail(c, "inventory.add", "/inventory/add", err)
	}
	applog.Audit(c, "inventory.add", map[string]any{"stock_id": s.ID, "name": s.Name, "quantity": s.Quantity})
	return done(c, "/inventory", "Stock added successfully!", fiber.Map{"stock": s})
}

func (h *InventoryHandler) Edit(c *fiber.Ctx) error {
	id, err := stockID(c)
	if err != nil {
		return fail(c, "inventory.edit", "", err)
	}
	back := "/inventory/edit/" + strconv.FormatInt(id, 10)
	in, err := stockInput(c)
	if err != nil {
		return fail(c, "inventory.edit", back, err)
	}
	s, err := h.Inventory.Update(currentUser(c), id, in)
	if err != nil {
		return fail(c, "inventory.edit", back, err)
	}
	applog.Audit(c, "inventory.edit", map[string]any{"stock_id": s.ID, "quantity": s.Quantity})
	return done(c, "/inventory", "Stock updated successfully!", fiber.Map{"stock": s})
}

func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := stockID(c)
	if err != nil {
		return fail(c, "inventory.delete", "", err)
	}
	if err := h.Inventory.Delete(currentUser(c), id); err != nil {
		return fail(c, "inventory.delete", "/inventory", err)
	}
	applog.Audit(c, "inventory.delete", map[string]any{"stock_id": id})
	return done(c, "/inventory", "Stock deleted successfully!", nil)
}

// SupplierMonitor lists the records below the low-stock threshold.
func (h *InventoryHandler) SupplierMonitor(c *fiber.Ctx) error {
	report, err := h.Inventory.SupplyReport(currentUser(c))
	if err != nil {
		return fail(c, "supplier.monitor", "", err)
	}
	return render(c, "supplier_monitor", fiber.Map{"Stocks": report.Stocks, "Warnings": report.Warnings})
}
