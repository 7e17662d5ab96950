package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"shopgate/internal/shopify"
)

// ShopifyOptionHandler passes product option requests through to the
// platform's GraphQL API.
type ShopifyOptionHandler struct {
	service *shopify.OptionService
}

// NewShopifyOptionHandler creates a new ShopifyOptionHandler.
func NewShopifyOptionHandler(service *shopify.OptionService) *ShopifyOptionHandler {
	return &ShopifyOptionHandler{service: service}
}

// RegisterRoutes registers the product option proxy routes. All option
// operations mutate the remote product, so everything is auth-guarded.
func (h *ShopifyOptionHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}

	optionRoutes := router.Group("/product-options")
	optionRoutes.Post("/:productId", auth, h.HandleCreateOptions)
	optionRoutes.Put("/:productId", auth, h.HandleUpdateOption)
	optionRoutes.Delete("/:productId", auth, h.HandleDeleteOptions)
}

// HandleCreateOptions creates options and values on a remote product.
func (h *ShopifyOptionHandler) HandleCreateOptions(c *fiber.Ctx) error {
	var body struct {
		Options         json.RawMessage `json:"options"`
		VariantStrategy string          `json:"variantStrategy"`
	}
	if err := c.BodyParser(&body); err != nil || body.Options == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "options array is required in request body",
		})
	}

	result, err := h.service.CreateOptions(c.Params("productId"), body.Options, body.VariantStrategy)
	if err != nil {
		log.Printf("Error creating product options: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusCreated, result)
}

// HandleUpdateOption updates one option and its values on a remote
// product.
func (h *ShopifyOptionHandler) HandleUpdateOption(c *fiber.Ctx) error {
	var body struct {
		Option               json.RawMessage `json:"option"`
		OptionValuesToAdd    json.RawMessage `json:"optionValuesToAdd"`
		OptionValuesToUpdate json.RawMessage `json:"optionValuesToUpdate"`
		OptionValuesToDelete json.RawMessage `json:"optionValuesToDelete"`
		VariantStrategy      string          `json:"variantStrategy"`
	}
	if err := c.BodyParser(&body); err != nil || body.Option == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "option object is required in request body",
		})
	}

	result, err := h.service.UpdateOption(
		c.Params("productId"),
		body.Option,
		body.OptionValuesToAdd,
		body.OptionValuesToUpdate,
		body.OptionValuesToDelete,
		body.VariantStrategy,
	)
	if err != nil {
		log.Printf("Error updating product option: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusOK, result)
}

// HandleDeleteOptions deletes options from a remote product.
func (h *ShopifyOptionHandler) HandleDeleteOptions(c *fiber.Ctx) error {
	var body struct {
		Options  []string `json:"options"`
		Strategy string   `json:"strategy"`
	}
	if err := c.BodyParser(&body); err != nil || body.Options == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "options array is required in request body",
		})
	}

	result, err := h.service.DeleteOptions(c.Params("productId"), body.Options, body.Strategy)
	if err != nil {
		log.Printf("Error deleting product options: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return writeMutationResult(c, fiber.StatusOK, result)
}
