package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"shopgate/internal/shopify"
)

// ShopifyProductHandler exposes proxy-mode product CRUD: requests travel
// to the remote platform's REST API untouched and responses come back in
// the platform's own wire format.
type ShopifyProductHandler struct {
	service *shopify.ProductProxyService
}

// NewShopifyProductHandler creates a new ShopifyProductHandler.
func NewShopifyProductHandler(service *shopify.ProductProxyService) *ShopifyProductHandler {
	return &ShopifyProductHandler{service: service}
}

// RegisterRoutes registers the proxy product routes under
// /shopify/products, keeping them distinct from the local catalog.
func (h *ShopifyProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}

	productRoutes := router.Group("/shopify/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)
}

// HandleListProducts lists remote products.
func (h *ShopifyProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.QueryInt("limit", 10))
	if err != nil {
		log.Printf("Error listing remote products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return rawJSON(c, fiber.StatusOK, products)
}

// HandleGetProduct fetches a remote product.
func (h *ShopifyProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.Params("id"))
	if err != nil {
		log.Printf("Error getting remote product %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return rawJSON(c, fiber.StatusOK, product)
}

// HandleCreateProduct forwards a platform-shaped product payload.
func (h *ShopifyProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	created, err := h.service.CreateProduct(json.RawMessage(c.Body()))
	if err != nil {
		log.Printf("Error creating remote product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return rawJSON(c, fiber.StatusCreated, created)
}

// HandleUpdateProduct forwards a platform-shaped product update.
func (h *ShopifyProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	updated, err := h.service.UpdateProduct(c.Params("id"), json.RawMessage(c.Body()))
	if err != nil {
		log.Printf("Error updating remote product %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return rawJSON(c, fiber.StatusOK, updated)
}

// HandleDeleteProduct deletes a remote product.
func (h *ShopifyProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteProduct(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting remote product %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return rawJSON(c, fiber.StatusOK, deleted)
}
