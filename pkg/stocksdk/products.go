package stocksdk

import (
	"context"
	"fmt"
	"net/http"
)

// ============================================================================
// Products
// ============================================================================

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := c.doAPI(ctx, http.MethodGet, "products/", nil, nil)
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := decodeJSON(resp, &products, http.StatusOK); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	resp, err := c.doAPI(ctx, http.MethodPost, "products/", nil, in.wire())
	if err != nil {
		return nil, err
	}

	var p Product
	if err := decodeJSON(resp, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces name and unit, and the recipe when in carries one.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	resp, err := c.doAPI(ctx, http.MethodPut, fmt.Sprintf("products/%d/", id), nil, in.wire())
	if err != nil {
		return nil, err
	}

	var p Product
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	resp, err := c.doAPI(ctx, http.MethodDelete, fmt.Sprintf("products/%d/", id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// wire always sends an ingredients array; the serializer rejects null.
func (p ProductInput) wire() ProductInput {
	if p.Ingredients == nil {
		p.Ingredients = []IngredientInput{}
	}
	return p
}

// ============================================================================
// Ingredients
// ============================================================================

// AddIngredient attaches one recipe line to a product.
func (c *Client) AddIngredient(ctx context.Context, in IngredientInput) (*Ingredient, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	resp, err := c.doAPI(ctx, http.MethodPost, "ingredients/", nil, in)
	if err != nil {
		return nil, err
	}

	var ing Ingredient
	if err := decodeJSON(resp, &ing, http.StatusCreated); err != nil {
		return nil, err
	}
	return &ing, nil
}

func (c *Client) DeleteIngredient(ctx context.Context, id int64) error {
	resp, err := c.doAPI(ctx, http.MethodDelete, fmt.Sprintf("ingredients/%d/", id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
