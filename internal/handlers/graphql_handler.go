package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// GraphQLHandler serves the catalog GraphQL endpoint.
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler creates a new GraphQLHandler over a built schema.
func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// RegisterRoutes registers the /graphql endpoint.
func (h *GraphQLHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/graphql", h.HandleQuery)
}

// graphQLRequest is the standard POST body of a GraphQL request.
type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// HandleQuery executes one GraphQL operation. Resolver-level failures are
// carried in the response envelope; only a malformed request is an HTTP
// error.
func (h *GraphQLHandler) HandleQuery(c *fiber.Ctx) error {
	var req graphQLRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing GraphQL request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query is required",
		})
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
	})
	return c.JSON(result)
}
