package stocksdk

import (
	"context"
	"fmt"
	"net/http"
)

// ListStock returns every stock item owned by the user.
func (c *Client) ListStock(ctx context.Context) ([]StockItem, error) {
	resp, err := c.doAPI(ctx, http.MethodGet, "stock/", nil, nil)
	if err != nil {
		return nil, err
	}

	var items []StockItem
	if err := decodeJSON(resp, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateStock adds a stock item. The API rejects duplicate names.
func (c *Client) CreateStock(ctx context.Context, in StockItemInput) (*StockItem, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	resp, err := c.doAPI(ctx, http.MethodPost, "stock/", nil, in)
	if err != nil {
		return nil, err
	}

	var item StockItem
	if err := decodeJSON(resp, &item, http.StatusCreated); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStock replaces a stock item.
func (c *Client) UpdateStock(ctx context.Context, id int64, in StockItemInput) (*StockItem, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	resp, err := c.doAPI(ctx, http.MethodPut, stockPath(id), nil, in)
	if err != nil {
		return nil, err
	}

	var item StockItem
	if err := decodeJSON(resp, &item, http.StatusOK); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteStock removes a stock item.
func (c *Client) DeleteStock(ctx context.Context, id int64) error {
	resp, err := c.doAPI(ctx, http.MethodDelete, stockPath(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func stockPath(id int64) string {
	return fmt.Sprintf("stock/%d/", id)
}
