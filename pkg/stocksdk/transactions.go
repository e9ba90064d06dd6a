package stocksdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListTransactions returns sales, newest first, optionally for one product.
func (c *Client) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	resp, err := c.doAPI(ctx, http.MethodGet, "transactions/", productQuery(filter.ProductID), nil)
	if err != nil {
		return nil, err
	}

	var txs []Transaction
	if err := decodeJSON(resp, &txs, http.StatusOK); err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateTransaction records a sale. The API depletes stock as a side effect.
func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (*Transaction, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	resp, err := c.doAPI(ctx, http.MethodPost, "transactions/", nil, in)
	if err != nil {
		return nil, err
	}

	var tx Transaction
	if err := decodeJSON(resp, &tx, http.StatusCreated); err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTransaction removes a sale and restores the stock it consumed.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	resp, err := c.doAPI(ctx, http.MethodDelete, fmt.Sprintf("transactions/%d/", id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func productQuery(productID int64) url.Values {
	if productID <= 0 {
		return nil
	}
	return url.Values{"product_id": {strconv.FormatInt(productID, 10)}}
}
