package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopgate/internal/shopify"
)

// ShopifyVariantHandler passes remote variant requests through to the
// platform's GraphQL API.
type ShopifyVariantHandler struct {
	service *shopify.VariantService
}

// NewShopifyVariantHandler creates a new ShopifyVariantHandler.
func NewShopifyVariantHandler(service *shopify.VariantService) *ShopifyVariantHandler {
	return &ShopifyVariantHandler{service: service}
}

// RegisterRoutes registers the variant proxy routes. The static /bulk
// route is registered before /:id so it is not shadowed.
func (h *ShopifyVariantHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}

	variantRoutes := router.Group("/product-variants")
	variantRoutes.Get("/bulk", h.HandleGetVariantsBulk)
	variantRoutes.Get("/product/:productId", h.HandleGetVariantsByProduct)
	variantRoutes.Post("/product/:productId", auth, h.HandleCreateVariants)
	variantRoutes.Get("/:id", h.HandleGetVariantByID)
}

// HandleGetVariantByID fetches one remote variant.
func (h *ShopifyVariantHandler) HandleGetVariantByID(c *fiber.Ctx) error {
	variant, err := h.service.GetVariantByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product variant %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if variant == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product variant not found"})
	}
	return rawJSON(c, fiber.StatusOK, variant)
}

// HandleGetVariantsBulk fetches multiple remote variants by
// comma-separated ids.
func (h *ShopifyVariantHandler) HandleGetVariantsBulk(c *fiber.Ctx) error {
	idsParam := c.Query("ids")
	if idsParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ids parameter is required",
		})
	}

	variants, err := h.service.GetVariantsByIDs(strings.Split(idsParam, ","))
	if err != nil {
		log.Printf("Error getting product variants: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(variants)
}

// HandleGetVariantsByProduct pages through a remote product's variants.
func (h *ShopifyVariantHandler) HandleGetVariantsByProduct(c *fiber.Ctx) error {
	product, err := h.service.GetVariantsByProductID(
		c.Params("productId"),
		c.QueryInt("first", 10),
		c.Query("after"),
	)
	if err != nil {
		log.Printf("Error getting variants for product %s: %v", c.Params("productId"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return rawJSON(c, fiber.StatusOK, product)
}

// HandleCreateVariants bulk-creates variants on a remote product.
func (h *ShopifyVariantHandler) HandleCreateVariants(c *fiber.Ctx) error {
	var body struct {
		Variants json.RawMessage `json:"variants"`
	}
	if err := c.BodyParser(&body); err != nil || body.Variants == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "variants array is required in request body",
		})
	}

	result, err := h.service.CreateVariants(c.Params("productId"), body.Variants)
	if err != nil {
		log.Printf("Error creating product variants: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusCreated, result)
}
