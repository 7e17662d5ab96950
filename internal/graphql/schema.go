// Package graphql exposes the local catalog over GraphQL. Queries and
// mutations wrap the product service and always resolve to an envelope
// (success, message, errors) instead of raising transport-level errors for
// expected failures.
package graphql

import (
	"encoding/json"

	"github.com/graphql-go/graphql"

	"shopgate/internal/models"
	"shopgate/internal/services"
)

type productResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Product *models.Product `json:"product"`
	Errors  []string        `json:"errors"`
}

type productsResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Products   []models.Product `json:"products"`
	TotalCount int              `json:"totalCount"`
	Errors     []string         `json:"errors"`
}

type deleteResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func failedProduct(message string, err error) productResponse {
	return productResponse{Success: false, Message: message, Errors: errorList(err)}
}

func notFoundProduct(message string) productResponse {
	return productResponse{Success: false, Message: message, Errors: []string{message}}
}

// errorList expands a validation error into its full message list; any
// other error contributes its single message.
func errorList(err error) []string {
	if ve := services.AsValidationError(err); ve != nil {
		return ve.Errors
	}
	return []string{err.Error()}
}

// decodeArg converts a resolved argument map into a typed input struct via
// its json tags.
func decodeArg(arg interface{}, dst interface{}) error {
	b, err := json.Marshal(arg)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// NewSchema builds the catalog schema over the product service.
func NewSchema(svc *services.ProductService) (graphql.Schema, error) {
	productStatusEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "ProductStatus",
		// Values carry the model's named type: the enum serializer matches
		// resolved field values by exact equality, so a bare string would
		// never match a models.ProductStatus.
		Values: graphql.EnumValueConfigMap{
			"ACTIVE":   &graphql.EnumValueConfig{Value: models.StatusActive},
			"ARCHIVED": &graphql.EnumValueConfig{Value: models.StatusArchived},
			"DRAFT":    &graphql.EnumValueConfig{Value: models.StatusDraft},
		},
	})

	weightUnitEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "WeightUnit",
		Values: graphql.EnumValueConfigMap{
			"GRAMS":     &graphql.EnumValueConfig{Value: models.WeightGrams},
			"KILOGRAMS": &graphql.EnumValueConfig{Value: models.WeightKilograms},
			"OUNCES":    &graphql.EnumValueConfig{Value: models.WeightOunces},
			"POUNDS":    &graphql.EnumValueConfig{Value: models.WeightPounds},
		},
	})

	variantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductVariant",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price":             &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"compareAtPrice":    &graphql.Field{Type: graphql.Float},
			"sku":               &graphql.Field{Type: graphql.String},
			"inventoryQuantity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"weight":            &graphql.Field{Type: graphql.Float},
			"weightUnit":        &graphql.Field{Type: weightUnitEnum},
			"requiresShipping":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"taxable":           &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"barcode":           &graphql.Field{Type: graphql.String},
			"createdAt":         &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":         &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	imageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductImage",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"src":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"altText":   &graphql.Field{Type: graphql.String},
			"width":     &graphql.Field{Type: graphql.Int},
			"height":    &graphql.Field{Type: graphql.Int},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"vendor":      &graphql.Field{Type: graphql.String},
			"productType": &graphql.Field{Type: graphql.String},
			"tags":        &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"status":      &graphql.Field{Type: graphql.NewNonNull(productStatusEnum)},
			"variants":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(variantType)))},
			"images":      &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(imageType))},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	createVariantInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateProductVariantInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"price":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"compareAtPrice":    &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"sku":               &graphql.InputObjectFieldConfig{Type: graphql.String},
			"inventoryQuantity": &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"weight":            &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"weightUnit":        &graphql.InputObjectFieldConfig{Type: weightUnitEnum},
			"requiresShipping":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"taxable":           &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"barcode":           &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	createImageInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateProductImageInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"src":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"altText": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"width":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"height":  &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	createProductInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"vendor":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"productType": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"tags":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"status":      &graphql.InputObjectFieldConfig{Type: productStatusEnum},
			"variants":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(createVariantInput)))},
			"images":      &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(createImageInput))},
		},
	})

	updateProductInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"vendor":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"productType": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"tags":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"status":      &graphql.InputObjectFieldConfig{Type: productStatusEnum},
		},
	})

	updateVariantInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateProductVariantInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":                &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":             &graphql.InputObjectFieldConfig{Type: graphql.String},
			"price":             &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"compareAtPrice":    &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"sku":               &graphql.InputObjectFieldConfig{Type: graphql.String},
			"inventoryQuantity": &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"weight":            &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"weightUnit":        &graphql.InputObjectFieldConfig{Type: weightUnitEnum},
			"requiresShipping":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"taxable":           &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"barcode":           &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	productResponseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductResponse",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message": &graphql.Field{Type: graphql.String},
			"product": &graphql.Field{Type: productType},
			"errors":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	productsResponseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductsResponse",
		Fields: graphql.Fields{
			"success":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message":    &graphql.Field{Type: graphql.String},
			"products":   &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(productType))},
			"totalCount": &graphql.Field{Type: graphql.Int},
			"errors":     &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	deleteResponseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeleteResponse",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message": &graphql.Field{Type: graphql.String},
			"errors":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(productsResponseType),
				Args: graphql.FieldConfigArgument{
					"status":      &graphql.ArgumentConfig{Type: productStatusEnum},
					"vendor":      &graphql.ArgumentConfig{Type: graphql.String},
					"productType": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
					"offset":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					params := services.ListProductsParams{}
					if v, ok := p.Args["status"].(models.ProductStatus); ok {
						params.Status = &v
					}
					if v, ok := p.Args["vendor"].(string); ok {
						params.Vendor = v
					}
					if v, ok := p.Args["productType"].(string); ok {
						params.ProductType = v
					}
					if v, ok := p.Args["limit"].(int); ok {
						params.Limit = v
					}
					if v, ok := p.Args["offset"].(int); ok {
						params.Offset = v
					}

					result, err := svc.GetAllProducts(params)
					if err != nil {
						return productsResponse{Success: false, Products: []models.Product{}, Errors: errorList(err)}, nil
					}
					return productsResponse{
						Success:    true,
						Products:   result.Products,
						TotalCount: result.TotalCount,
						Errors:     []string{},
					}, nil
				},
			},
			"product": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := svc.GetProductByID(p.Args["id"].(string))
					if err != nil {
						return failedProduct("", err), nil
					}
					if product == nil {
						return notFoundProduct("Product not found"), nil
					}
					return productResponse{Success: true, Product: product, Errors: []string{}}, nil
				},
			},
			"searchProducts": &graphql.Field{
				Type: graphql.NewNonNull(productsResponseType),
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := 10
					if v, ok := p.Args["limit"].(int); ok {
						limit = v
					}
					products, err := svc.SearchProducts(p.Args["query"].(string), limit)
					if err != nil {
						return productsResponse{Success: false, Products: []models.Product{}, Errors: errorList(err)}, nil
					}
					return productsResponse{
						Success:    true,
						Products:   products,
						TotalCount: len(products),
						Errors:     []string{},
					}, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProduct": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createProductInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input models.ProductInput
					if err := decodeArg(p.Args["input"], &input); err != nil {
						return failedProduct("Failed to create product", err), nil
					}
					product, err := svc.CreateProduct(input)
					if err != nil {
						return failedProduct("Failed to create product", err), nil
					}
					return productResponse{Success: true, Message: "Product created successfully", Product: product, Errors: []string{}}, nil
				},
			},
			"updateProduct": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateProductInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input models.ProductUpdateInput
					if err := decodeArg(p.Args["input"], &input); err != nil {
						return failedProduct("Failed to update product", err), nil
					}
					product, err := svc.UpdateProduct(p.Args["id"].(string), input)
					if err != nil {
						return failedProduct("Failed to update product", err), nil
					}
					if product == nil {
						return notFoundProduct("Product not found"), nil
					}
					return productResponse{Success: true, Message: "Product updated successfully", Product: product, Errors: []string{}}, nil
				},
			},
			"deleteProduct": &graphql.Field{
				Type: graphql.NewNonNull(deleteResponseType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					deleted, err := svc.DeleteProduct(p.Args["id"].(string))
					if err != nil {
						return deleteResponse{Success: false, Message: "Failed to delete product", Errors: errorList(err)}, nil
					}
					if !deleted {
						return deleteResponse{Success: false, Message: "Product not found", Errors: []string{"Product not found"}}, nil
					}
					return deleteResponse{Success: true, Message: "Product deleted successfully", Errors: []string{}}, nil
				},
			},
			"addProductVariant": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"variant":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(createVariantInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input models.VariantInput
					if err := decodeArg(p.Args["variant"], &input); err != nil {
						return failedProduct("Failed to add variant", err), nil
					}
					product, err := svc.AddProductVariant(p.Args["productId"].(string), input)
					if err != nil {
						return failedProduct("Failed to add variant", err), nil
					}
					if product == nil {
						return notFoundProduct("Product not found"), nil
					}
					return productResponse{Success: true, Message: "Variant added successfully", Product: product, Errors: []string{}}, nil
				},
			},
			"updateProductVariant": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"variant":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateVariantInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input models.VariantUpdateInput
					if err := decodeArg(p.Args["variant"], &input); err != nil {
						return failedProduct("Failed to update variant", err), nil
					}
					product, err := svc.UpdateProductVariant(p.Args["productId"].(string), input)
					if err != nil {
						return failedProduct("Failed to update variant", err), nil
					}
					if product == nil {
						return notFoundProduct("Product or variant not found"), nil
					}
					return productResponse{Success: true, Message: "Variant updated successfully", Product: product, Errors: []string{}}, nil
				},
			},
			"removeProductVariant": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"variantId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := svc.RemoveProductVariant(p.Args["productId"].(string), p.Args["variantId"].(string))
					if err != nil {
						return failedProduct("Failed to remove variant", err), nil
					}
					if product == nil {
						return notFoundProduct("Product or variant not found"), nil
					}
					return productResponse{Success: true, Message: "Variant removed successfully", Product: product, Errors: []string{}}, nil
				},
			},
			"addProductImage": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"image":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(createImageInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var input models.ImageInput
					if err := decodeArg(p.Args["image"], &input); err != nil {
						return failedProduct("Failed to add image", err), nil
					}
					product, err := svc.AddProductImage(p.Args["productId"].(string), input)
					if err != nil {
						return failedProduct("Failed to add image", err), nil
					}
					if product == nil {
						return notFoundProduct("Product not found"), nil
					}
					return productResponse{Success: true, Message: "Image added successfully", Product: product, Errors: []string{}}, nil
				},
			},
			"removeProductImage": &graphql.Field{
				Type: graphql.NewNonNull(productResponseType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"imageId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := svc.RemoveProductImage(p.Args["productId"].(string), p.Args["imageId"].(string))
					if err != nil {
						return failedProduct("Failed to remove image", err), nil
					}
					if product == nil {
						return notFoundProduct("Product or image not found"), nil
					}
					return productResponse{Success: true, Message: "Image removed successfully", Product: product, Errors: []string{}}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
