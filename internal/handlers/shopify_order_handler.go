package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopgate/internal/shopify"
)

// ShopifyOrderHandler passes order requests through to the remote
// platform.
type ShopifyOrderHandler struct {
	service *shopify.OrderService
}

// NewShopifyOrderHandler creates a new ShopifyOrderHandler.
func NewShopifyOrderHandler(service *shopify.OrderService) *ShopifyOrderHandler {
	return &ShopifyOrderHandler{service: service}
}

// RegisterRoutes registers the order proxy routes. Mutating routes go
// behind the auth middleware; pass nil to leave them open.
func (h *ShopifyOrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/bulk", h.HandleGetOrdersBulk)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id", auth, h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", auth, h.HandleDeleteOrder)
}

// HandleListOrders lists completed orders.
func (h *ShopifyOrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.QueryInt("first", 10))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return rawJSON(c, fiber.StatusOK, orders)
}

// HandleGetOrdersBulk fetches multiple orders by comma-separated ids.
func (h *ShopifyOrderHandler) HandleGetOrdersBulk(c *fiber.Ctx) error {
	idsParam := c.Query("ids")
	if idsParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing or empty ids query parameter",
		})
	}

	orders, err := h.service.GetOrdersByIDs(strings.Split(idsParam, ","))
	if err != nil {
		log.Printf("Error getting orders in bulk: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID fetches a single order.
func (h *ShopifyOrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	return rawJSON(c, fiber.StatusOK, order)
}

// HandleUpdateOrder forwards a platform-shaped order update.
func (h *ShopifyOrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	result, err := h.service.UpdateOrder(json.RawMessage(c.Body()))
	if err != nil {
		log.Printf("Error updating order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusOK, result)
}

// HandleDeleteOrder deletes a completed order.
func (h *ShopifyOrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	result, err := h.service.DeleteOrder(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting order %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusOK, result)
}

// rawJSON writes an already-encoded JSON payload.
func rawJSON(c *fiber.Ctx, status int, payload json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(payload)
}

// writeMutationResult surfaces the platform's userErrors as a client
// error, otherwise forwards the payload.
func writeMutationResult(c *fiber.Ctx, status int, result *shopify.MutationResult) error {
	if len(result.UserErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": result.UserErrors})
	}
	return rawJSON(c, status, result.Payload)
}
