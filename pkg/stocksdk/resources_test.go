package stocksdk

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStockCRUD(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"PUT stock/4/":    respond(http.StatusOK, StockItem{ID: 4, Name: "Flour", Quantity: 20, Unit: "kg"}),
		"DELETE stock/4/": bearerRoute("A1", nil),
		"POST stock/": respond(http.StatusBadRequest, map[string]any{
			"error": []string{"Stock item already exists."},
		}),
	})
	c := api.client(t, seeded("7", "A1", "R1"))
	ctx := context.Background()

	updated, err := c.UpdateStock(ctx, 4, StockItemInput{Name: "Flour", Quantity: 20, Unit: "kg"})
	require.NoError(t, err)
	require.Equal(t, 20.0, updated.Quantity)

	require.NoError(t, c.DeleteStock(ctx, 4))

	_, err = c.CreateStock(ctx, StockItemInput{Name: "Flour", Unit: "kg"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "Stock item already exists.", apiErr.Detail)
	require.Zero(t, api.Hits("POST token/refresh/"), "only 401 triggers a refresh")

	_, err = c.CreateStock(ctx, StockItemInput{Name: "", Unit: "kg"})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, 1, api.Hits("POST stock/"))
}

func TestDeleteNotFound(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, nil)
	c := api.client(t, seeded("7", "A1", "R1"))

	err := c.DeleteProduct(context.Background(), 99)
	require.True(t, IsNotFound(err))
}

func TestProducts(t *testing.T) {
	t.Parallel()

	bread := Product{ID: 2, Name: "Bread", Unit: "pcs", Ingredients: []Ingredient{
		{StockItem: 1, StockItemName: "Flour", QuantityRequired: 0.25},
	}}
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET products/":         respond(http.StatusOK, []Product{bread}),
		"POST products/":        respond(http.StatusCreated, Product{ID: 3, Name: "Bun", Unit: "pcs", Ingredients: []Ingredient{}}),
		"PUT products/2/":       respond(http.StatusOK, bread),
		"POST ingredients/":     respond(http.StatusCreated, Ingredient{StockItem: 1, StockItemName: "Flour", QuantityRequired: 1}),
		"DELETE ingredients/5/": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) },
	})
	c := api.client(t, seeded("7", "A1", "R1"))
	ctx := context.Background()

	list, err := c.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, []Product{bread}, list)

	_, err = c.CreateProduct(ctx, ProductInput{Name: "Bun", Unit: "pcs"})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Bun","unit":"pcs","ingredients":[]}`, api.Bodies("POST products/")[0])

	_, err = c.UpdateProduct(ctx, 2, ProductInput{Name: "Bread", Unit: "pcs", Ingredients: []IngredientInput{
		{StockItem: 1, QuantityRequired: 0.25},
	}})
	require.NoError(t, err)
	require.JSONEq(t,
		`{"name":"Bread","unit":"pcs","ingredients":[{"stock_item":1,"quantity_required":0.25}]}`,
		api.Bodies("PUT products/2/")[0])

	ing, err := c.AddIngredient(ctx, IngredientInput{Product: 2, StockItem: 1, QuantityRequired: 1})
	require.NoError(t, err)
	require.Equal(t, "Flour", ing.StockItemName)
	require.JSONEq(t, `{"product":2,"stock_item":1,"quantity_required":1}`, api.Bodies("POST ingredients/")[0])

	require.NoError(t, c.DeleteIngredient(ctx, 5))
}

func TestTransactionsAndDashboardFilters(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		queries []string
	)
	record := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			queries = append(queries, r.URL.RawQuery)
			mu.Unlock()
			h(w, r)
		}
	}

	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET transactions/": record(respond(http.StatusOK, []Transaction{
			{ID: 1, Product: 2, ProductName: "Bread", QuantitySold: 3, Date: "2024-10-01T08:00:00+07:00", FormattedDate: "2024-10-01 08:00:00"},
		})),
		"GET dashboard/": record(respond(http.StatusOK, Dashboard{WeeklySales: []WeeklySales{
			{WeekDay: "2024-09-30T00:00:00+07:00", TotalSales: 42, Date: "2024-09-30"},
		}})),
		"POST transactions/":     respond(http.StatusCreated, Transaction{ID: 8, Product: 2, QuantitySold: 1}),
		"DELETE transactions/8/": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) },
	})
	c := api.client(t, seeded("7", "A1", "R1"))
	ctx := context.Background()

	txs, err := c.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Equal(t, "Bread", txs[0].ProductName)

	_, err = c.ListTransactions(ctx, TransactionFilter{ProductID: 2})
	require.NoError(t, err)

	d, err := c.Dashboard(ctx, DashboardFilter{ProductID: 2})
	require.NoError(t, err)
	require.Equal(t, 42.0, d.WeeklySales[0].TotalSales)

	mu.Lock()
	require.Equal(t, []string{"", "product_id=2", "product_id=2"}, queries)
	mu.Unlock()

	tx, err := c.CreateTransaction(ctx, TransactionInput{Product: 2, QuantitySold: 1})
	require.NoError(t, err)
	require.NoError(t, c.DeleteTransaction(ctx, tx.ID))
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	type received struct {
		fields map[string]string
		file   string
		name   string
	}
	var (
		mu  sync.Mutex
		got []received
	)
	snapshot := func() []received {
		mu.Lock()
		defer mu.Unlock()
		return append([]received(nil), got...)
	}

	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST token/refresh/": refreshRoute("R1", "A2"),
		"PUT profile/7/update/": func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			rec := received{fields: map[string]string{}}
			for k, v := range r.MultipartForm.Value {
				rec.fields[k] = v[0]
			}
			if f, hdr, err := r.FormFile("profile_picture"); err == nil {
				b, _ := io.ReadAll(f)
				rec.file, rec.name = string(b), hdr.Filename
			}
			mu.Lock()
			got = append(got, rec)
			mu.Unlock()

			if r.Header.Get("Authorization") != "Bearer A2" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
				return
			}
			writeJSON(w, http.StatusOK, Profile{Username: "warung", Address: rec.fields["address"]})
		},
	})
	c := api.client(t, seeded("7", "A1", "R1"))
	ctx := context.Background()

	p, err := c.UpdateProfile(ctx, "7", ProfileUpdate{
		Address: "Jl. Merdeka 1",
		Picture: &ProfilePicture{Filename: "me.png", Content: strings.NewReader("png-bytes")},
	})
	require.NoError(t, err)
	require.Equal(t, "Jl. Merdeka 1", p.Address)

	require.Len(t, snapshot(), 2, "multipart body is replayed after refresh")
	for _, rec := range snapshot() {
		require.Equal(t, map[string]string{"address": "Jl. Merdeka 1"}, rec.fields, "empty fields are not sent")
		require.Equal(t, "png-bytes", rec.file)
		require.Equal(t, "me.png", rec.name)
	}

	_, err = c.UpdateProfile(ctx, "7", ProfileUpdate{})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	_, err = c.UpdateProfile(ctx, "", ProfileUpdate{Address: "x"})
	require.ErrorAs(t, err, &valErr)
	require.Len(t, snapshot(), 2)
}

func TestProfileAndPassword(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET profile/": respond(http.StatusOK, map[string]any{
			"username": "warung", "email": "owner@example.com", "business_name": "Warung Kopi", "profile_picture": nil,
		}),
		"POST profile/change-password/": func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `"current_password":"old"`) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Current password is incorrect"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
		},
	})
	c := api.client(t, seeded("7", "A1", "R1"))
	ctx := context.Background()

	p, err := c.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Warung Kopi", p.BusinessName)
	require.Empty(t, p.ProfilePicture)

	msg, err := c.ChangePassword(ctx, "old", "new-password")
	require.NoError(t, err)
	require.Equal(t, "Password updated successfully", msg.Message)

	_, err = c.ChangePassword(ctx, "wrong", "new-password")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Current password is incorrect", apiErr.Detail)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
		err  bool
	}{
		{raw: "http://localhost:8000/api", want: "http://localhost:8000/api/"},
		{raw: "https://shop.example.com/api/?x=1", want: "https://shop.example.com/api/"},
		{raw: "https://shop.example.com", want: "https://shop.example.com/"},
		{raw: "", err: true},
		{raw: "ftp://shop.example.com", err: true},
		{raw: "/api/", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			c, err := NewClient(tt.raw, nil)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, c.BaseURL())
			require.Equal(t, tt.want+"stock/4/", c.endpoint(stockPath(4), nil))
		})
	}
}
