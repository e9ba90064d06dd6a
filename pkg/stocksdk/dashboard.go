package stocksdk

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Dashboard returns weekly sales totals, optionally for one product.
func (c *Client) Dashboard(ctx context.Context, filter DashboardFilter) (*Dashboard, error) {
	resp, err := c.doAPI(ctx, http.MethodGet, "dashboard/", productQuery(filter.ProductID), nil)
	if err != nil {
		return nil, err
	}

	var d Dashboard
	if err := decodeJSON(resp, &d, http.StatusOK); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadCatalog fetches stock and products concurrently. The first failure
// cancels the other call.
func (c *Client) LoadCatalog(ctx context.Context) (*Catalog, error) {
	var cat Catalog

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.ListStock(gctx)
		if err != nil {
			return err
		}
		cat.Stock = items
		return nil
	})
	g.Go(func() error {
		products, err := c.ListProducts(gctx)
		if err != nil {
			return err
		}
		cat.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &cat, nil
}
