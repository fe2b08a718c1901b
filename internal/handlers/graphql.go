package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	gql "github.com/localnerve/reserva/internal/graphql"
	"github.com/localnerve/reserva/internal/middleware"
	"github.com/localnerve/reserva/internal/utils"
)

// GraphQLHandler serves POST /graphql. Unlike the form surface it
// reports failures as structured errors instead of redirects.
type GraphQLHandler struct {
	Schema graphql.Schema
	Log    *log.Logger
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Post handles POST /graphql
// @Summary Execute a GraphQL query or mutation
// @Tags GraphQL
// @Accept json
// @Produce json
// @Param body body graphqlRequest true "GraphQL request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /graphql [post]
func (h *GraphQLHandler) Post(c *fiber.Ctx) error {
	var req graphqlRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "graphql.request")
	}
	if req.Query == "" {
		return utils.ErrorResponse(c, "Missing query", fiber.StatusBadRequest, "graphql.request")
	}

	ctx := gql.WithPrincipal(context.Background(), middleware.Principal(c))

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	return c.JSON(result)
}
