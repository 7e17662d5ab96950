package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"shopgate/internal/models"
	"shopgate/internal/services"
)

// ProductHandler handles HTTP requests for the local catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes. Mutating routes go behind
// the auth middleware; pass nil to leave them open (tests).
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)

	productRoutes.Post("/:id/variants", auth, h.HandleAddVariant)
	productRoutes.Put("/:id/variants/:variantId", auth, h.HandleUpdateVariant)
	productRoutes.Delete("/:id/variants/:variantId", auth, h.HandleRemoveVariant)

	productRoutes.Post("/:id/images", auth, h.HandleAddImage)
	productRoutes.Delete("/:id/images/:imageId", auth, h.HandleRemoveImage)
}

// HandleListProducts returns a filtered, paginated product page.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	params := services.ListProductsParams{
		Vendor:      c.Query("vendor"),
		ProductType: c.Query("productType"),
		Limit:       c.QueryInt("limit", 10),
		Offset:      c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := models.ProductStatus(status)
		params.Status = &s
	}

	result, err := h.service.GetAllProducts(params)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleSearchProducts matches the query against title, description and
// tags.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'q' is required",
		})
	}

	products, err := h.service.SearchProducts(query, c.QueryInt("limit", 10))
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not search products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product aggregate.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		return h.writeServiceError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct merges the payload over an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input models.ProductUpdateInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(c.Params("id"), input)
	if err != nil {
		return h.writeServiceError(c, "Could not update product", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteProduct(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleAddVariant appends a variant to a product.
func (h *ProductHandler) HandleAddVariant(c *fiber.Ctx) error {
	var input models.VariantInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.AddProductVariant(c.Params("id"), input)
	if err != nil {
		return h.writeServiceError(c, "Could not add variant", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateVariant merges the payload over a variant of a product.
func (h *ProductHandler) HandleUpdateVariant(c *fiber.Ctx) error {
	var input models.VariantUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	input.ID = c.Params("variantId")

	product, err := h.service.UpdateProductVariant(c.Params("id"), input)
	if err != nil {
		return h.writeServiceError(c, "Could not update variant", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product or variant not found",
		})
	}
	return c.JSON(product)
}

// HandleRemoveVariant removes a variant. Removing the last variant is a
// business-rule violation and maps to 400, not 404.
func (h *ProductHandler) HandleRemoveVariant(c *fiber.Ctx) error {
	product, err := h.service.RemoveProductVariant(c.Params("id"), c.Params("variantId"))
	if err != nil {
		return h.writeServiceError(c, "Could not remove variant", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product or variant not found",
		})
	}
	return c.JSON(product)
}

// HandleAddImage appends an image to a product.
func (h *ProductHandler) HandleAddImage(c *fiber.Ctx) error {
	var input models.ImageInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.AddProductImage(c.Params("id"), input)
	if err != nil {
		return h.writeServiceError(c, "Could not add image", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleRemoveImage removes an image from a product.
func (h *ProductHandler) HandleRemoveImage(c *fiber.Ctx) error {
	product, err := h.service.RemoveProductImage(c.Params("id"), c.Params("imageId"))
	if err != nil {
		return h.writeServiceError(c, "Could not remove image", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product or image not found",
		})
	}
	return c.JSON(product)
}

// writeServiceError maps typed service errors to responses: validation
// failures and invariant violations are client errors, everything else is
// a storage-level failure.
func (h *ProductHandler) writeServiceError(c *fiber.Ctx, message string, err error) error {
	if ve := services.AsValidationError(err); ve != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  ve.Errors,
		})
	}
	if errors.Is(err, services.ErrLastVariant) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
