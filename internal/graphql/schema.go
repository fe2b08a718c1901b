// Package graphql exposes the query/mutation surface over the same
// entities and ownership rules as the form routes. The schema is a
// value constructed once at process start and handed to the transport
// handler; there is no package-level schema singleton.
package graphql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/internal/types"
	"gorm.io/gorm"
)

type principalKey struct{}

// WithPrincipal attaches the request principal to the resolver context.
func WithPrincipal(ctx context.Context, p types.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom reads the request principal from the resolver context.
// Resolvers derive ownership from here only, never from client input.
func PrincipalFrom(ctx context.Context) types.Principal {
	if p, ok := ctx.Value(principalKey{}).(types.Principal); ok {
		return p
	}
	return types.Anonymous()
}

// NewSchema builds the schema over the given database handle.
func NewSchema(db *gorm.DB) (graphql.Schema, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return categoryFromSource(p.Source).CategoryID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return categoryFromSource(p.Source).CategoryName, nil
				},
			},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return orderFromSource(p.Source).OrderID, nil
				},
			},
			"user": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return orderFromSource(p.Source).UserID, nil
				},
			},
			"category": &graphql.Field{
				Type: categoryType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return orderFromSource(p.Source).Category, nil
				},
			},
		},
	})

	numberPhoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NumberPhone",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return phoneFromSource(p.Source).NumberPhoneID, nil
				},
			},
			"user": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return phoneFromSource(p.Source).UserID, nil
				},
			},
			"number_phone": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return phoneFromSource(p.Source).Number, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			// Soft reads: anonymous principals get empty lists, never errors.
			"my_orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return services.ListOrders(db, PrincipalFrom(p.Context))
				},
			},
			"my_numbers": &graphql.Field{
				Type: graphql.NewList(numberPhoneType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					phone, err := services.GetNumberPhone(db, PrincipalFrom(p.Context))
					if err != nil {
						return nil, err
					}
					if phone == nil {
						return []models.NumberPhone{}, nil
					}
					return []models.NumberPhone{*phone}, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"create_order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"category_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					categoryID, err := coerceID(p.Args["category_id"])
					if err != nil {
						return nil, err
					}
					return services.CreateOrder(db, PrincipalFrom(p.Context), categoryID)
				},
			},
			"delete_order": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					orderID, err := coerceID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					err = services.DeleteOrder(db, PrincipalFrom(p.Context), orderID)
					if errors.Is(err, types.ErrNotFound) {
						// Missing and not-yours both read as ok=false.
						return false, nil
					}
					if err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"create_number_phone": &graphql.Field{
				Type: numberPhoneType,
				Args: graphql.FieldConfigArgument{
					"number_phone": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					number, _ := p.Args["number_phone"].(string)
					return services.CreateNumberPhone(db, PrincipalFrom(p.Context), number)
				},
			},
			"update_number_phone": &graphql.Field{
				Type: numberPhoneType,
				Args: graphql.FieldConfigArgument{
					"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"number_phone": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					phoneID, err := coerceID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					number, _ := p.Args["number_phone"].(string)
					return services.UpdateNumberPhone(db, PrincipalFrom(p.Context), phoneID, number)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// coerceID accepts the string/number forms the ID scalar can arrive in.
func coerceID(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid id %q", types.ErrValidation, v)
		}
		return id, nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: invalid id %d", types.ErrValidation, v)
		}
		return uint64(v), nil
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("%w: invalid id %v", types.ErrValidation, v)
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("%w: invalid id", types.ErrValidation)
	}
}

func orderFromSource(source interface{}) models.Order {
	switch s := source.(type) {
	case models.Order:
		return s
	case *models.Order:
		return *s
	}
	return models.Order{}
}

func phoneFromSource(source interface{}) models.NumberPhone {
	switch s := source.(type) {
	case models.NumberPhone:
		return s
	case *models.NumberPhone:
		return *s
	}
	return models.NumberPhone{}
}

func categoryFromSource(source interface{}) models.Category {
	switch s := source.(type) {
	case models.Category:
		return s
	case *models.Category:
		return *s
	}
	return models.Category{}
}
