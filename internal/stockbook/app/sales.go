package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

func (app *Application) dashboard(ctx context.Context, args []string) error {
	fs := app.newFlags("dashboard")
	var filter stocksdk.DashboardFilter
	fs.Int64Var(&filter.ProductID, "product", 0, "only count sales of this product id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	d, err := app.client.Dashboard(ctx, filter)
	if err != nil {
		return err
	}

	title := "Weekly sales"
	if filter.ProductID > 0 {
		title = fmt.Sprintf("Weekly sales for product #%d", filter.ProductID)
	}
	fmt.Fprintln(app.out, headingStyle.Render(title))
	fmt.Fprintln(app.out, renderWeeklySales(d.WeeklySales))
	return nil
}

func (app *Application) transactionsList(ctx context.Context, args []string) error {
	fs := app.newFlags("transactions list")
	var filter stocksdk.TransactionFilter
	fs.Int64Var(&filter.ProductID, "product", 0, "only list sales of this product id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	txs, err := app.client.ListTransactions(ctx, filter)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, renderTransactions(txs))
	return nil
}

func (app *Application) transactionsAdd(ctx context.Context, args []string) error {
	fs := app.newFlags("transactions add")
	var in stocksdk.TransactionInput
	fs.Int64Var(&in.Product, "product", 0, "product id sold")
	fs.Float64Var(&in.QuantitySold, "quantity", 0, "units sold")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	tx, err := app.client.CreateTransaction(ctx, in)
	if err != nil {
		return err
	}

	name := tx.ProductName
	if name == "" {
		name = fmt.Sprintf("product #%d", tx.Product)
	}
	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("Recorded sale #%d: %s x%s", tx.ID, name, formatQuantity(tx.QuantitySold))))
	return nil
}

func (app *Application) transactionsDelete(ctx context.Context, args []string) error {
	fs := app.newFlags("transactions delete")
	id := fs.Int64("id", 0, "transaction id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	if err := app.client.DeleteTransaction(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Deleted transaction #%d\n", *id)
	return nil
}
