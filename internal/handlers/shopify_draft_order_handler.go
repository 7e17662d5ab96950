package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"shopgate/internal/shopify"
)

// ShopifyDraftOrderHandler passes draft order requests through to the
// remote platform.
type ShopifyDraftOrderHandler struct {
	service *shopify.DraftOrderService
}

// NewShopifyDraftOrderHandler creates a new ShopifyDraftOrderHandler.
func NewShopifyDraftOrderHandler(service *shopify.DraftOrderService) *ShopifyDraftOrderHandler {
	return &ShopifyDraftOrderHandler{service: service}
}

// RegisterRoutes registers the draft order proxy routes.
func (h *ShopifyDraftOrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}

	draftRoutes := router.Group("/draft-orders")
	draftRoutes.Get("/", h.HandleListDraftOrders)
	draftRoutes.Get("/:id", h.HandleGetDraftOrderByID)
	draftRoutes.Post("/", auth, h.HandleCreateDraftOrder)
	draftRoutes.Post("/:id/complete", auth, h.HandleCompleteDraftOrder)
	draftRoutes.Delete("/:id", auth, h.HandleDeleteDraftOrder)
}

// HandleListDraftOrders lists draft orders.
func (h *ShopifyDraftOrderHandler) HandleListDraftOrders(c *fiber.Ctx) error {
	draftOrders, err := h.service.ListDraftOrders(c.QueryInt("first", 10))
	if err != nil {
		log.Printf("Error listing draft orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return rawJSON(c, fiber.StatusOK, draftOrders)
}

// HandleGetDraftOrderByID fetches a single draft order.
func (h *ShopifyDraftOrderHandler) HandleGetDraftOrderByID(c *fiber.Ctx) error {
	draftOrder, err := h.service.GetDraftOrderByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting draft order %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if draftOrder == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft order not found"})
	}
	return rawJSON(c, fiber.StatusOK, draftOrder)
}

// HandleCreateDraftOrder forwards a platform-shaped draft order input.
func (h *ShopifyDraftOrderHandler) HandleCreateDraftOrder(c *fiber.Ctx) error {
	result, err := h.service.CreateDraftOrder(json.RawMessage(c.Body()))
	if err != nil {
		log.Printf("Error creating draft order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusCreated, result)
}

// HandleCompleteDraftOrder turns a draft order into a real order.
func (h *ShopifyDraftOrderHandler) HandleCompleteDraftOrder(c *fiber.Ctx) error {
	result, err := h.service.CompleteDraftOrder(c.Params("id"))
	if err != nil {
		log.Printf("Error completing draft order %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusOK, result)
}

// HandleDeleteDraftOrder deletes a draft order.
func (h *ShopifyDraftOrderHandler) HandleDeleteDraftOrder(c *fiber.Ctx) error {
	result, err := h.service.DeleteDraftOrder(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting draft order %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusOK, result)
}
