package app

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

// ============================================================================
// Stock
// ============================================================================

func (app *Application) stockList(ctx context.Context, args []string) error {
	if err := parseFlags(app.newFlags("stock list"), args); err != nil {
		return err
	}

	items, err := app.client.ListStock(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, renderStock(items))
	return nil
}

func (app *Application) stockAdd(ctx context.Context, args []string) error {
	fs := app.newFlags("stock add")
	var in stocksdk.StockItemInput
	fs.StringVar(&in.Name, "name", "", "stock item name")
	fs.Float64Var(&in.Quantity, "quantity", 0, "quantity on hand")
	fs.StringVar(&in.Unit, "unit", "", "unit of measure, e.g. kg")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)

	// Validate before listing so bad input costs no requests.
	if fields := in.Validate(); fields != nil {
		return &stocksdk.ValidationError{Fields: fields}
	}

	existing, err := app.client.ListStock(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(existing, func(s stocksdk.StockItem) bool { return s.Name == in.Name }) {
		return fmt.Errorf("stock item %q already exists", in.Name)
	}

	item, err := app.client.CreateStock(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("Added %s (#%d)", item.Name, item.ID)))
	return nil
}

// stockUpdate replaces a stock item. Flags left out keep their current
// value.
func (app *Application) stockUpdate(ctx context.Context, args []string) error {
	fs := app.newFlags("stock update")
	id := fs.Int64("id", 0, "stock item id")
	name := fs.String("name", "", "new name")
	quantity := fs.Float64("quantity", 0, "new quantity")
	unit := fs.String("unit", "", "new unit")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	items, err := app.client.ListStock(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(items, func(s stocksdk.StockItem) bool { return s.ID == *id })
	if idx < 0 {
		return fmt.Errorf("stock item #%d not found", *id)
	}

	current := items[idx]
	in := stocksdk.StockItemInput{Name: current.Name, Quantity: current.Quantity, Unit: current.Unit}
	set := setFlags(fs)
	if set["name"] {
		in.Name = strings.TrimSpace(*name)
	}
	if set["quantity"] {
		in.Quantity = *quantity
	}
	if set["unit"] {
		in.Unit = *unit
	}

	item, err := app.client.UpdateStock(ctx, *id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("Updated %s (#%d)", item.Name, item.ID)))
	return nil
}

func (app *Application) stockDelete(ctx context.Context, args []string) error {
	fs := app.newFlags("stock delete")
	id := fs.Int64("id", 0, "stock item id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	if err := app.client.DeleteStock(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Deleted stock item #%d\n", *id)
	return nil
}

// ============================================================================
// Products
// ============================================================================

func (app *Application) productsList(ctx context.Context, args []string) error {
	if err := parseFlags(app.newFlags("products list"), args); err != nil {
		return err
	}

	products, err := app.client.ListProducts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, renderProducts(products))
	return nil
}

func (app *Application) productsAdd(ctx context.Context, args []string) error {
	fs := app.newFlags("products add")
	var in stocksdk.ProductInput
	var recipe ingredientFlags
	fs.StringVar(&in.Name, "name", "", "product name")
	fs.StringVar(&in.Unit, "unit", "", "unit sold, e.g. cup")
	fs.Var(&recipe, "ingredient", "recipe line STOCK_ID:QUANTITY (repeatable)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Ingredients = recipe

	product, err := app.client.CreateProduct(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("Added %s (#%d)", product.Name, product.ID)))
	return nil
}

// productsUpdate replaces a product. Without -ingredient the existing
// recipe is kept.
func (app *Application) productsUpdate(ctx context.Context, args []string) error {
	fs := app.newFlags("products update")
	id := fs.Int64("id", 0, "product id")
	name := fs.String("name", "", "new name")
	unit := fs.String("unit", "", "new unit")
	var recipe ingredientFlags
	fs.Var(&recipe, "ingredient", "replacement recipe line STOCK_ID:QUANTITY (repeatable)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	products, err := app.client.ListProducts(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(products, func(p stocksdk.Product) bool { return p.ID == *id })
	if idx < 0 {
		return fmt.Errorf("product #%d not found", *id)
	}

	in := stocksdk.ProductInput{Name: products[idx].Name, Unit: products[idx].Unit, Ingredients: recipe}
	set := setFlags(fs)
	if set["name"] {
		in.Name = strings.TrimSpace(*name)
	}
	if set["unit"] {
		in.Unit = *unit
	}

	product, err := app.client.UpdateProduct(ctx, *id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("Updated %s (#%d)", product.Name, product.ID)))
	return nil
}

func (app *Application) productsDelete(ctx context.Context, args []string) error {
	fs := app.newFlags("products delete")
	id := fs.Int64("id", 0, "product id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	if err := app.client.DeleteProduct(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Deleted product #%d\n", *id)
	return nil
}

// ============================================================================
// Ingredients
// ============================================================================

func (app *Application) ingredientsAdd(ctx context.Context, args []string) error {
	fs := app.newFlags("ingredients add")
	var in stocksdk.IngredientInput
	fs.Int64Var(&in.Product, "product", 0, "product id")
	fs.Int64Var(&in.StockItem, "stock", 0, "stock item id")
	fs.Float64Var(&in.QuantityRequired, "quantity", 0, "stock consumed per unit sold")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("product", in.Product); err != nil {
		return err
	}

	ing, err := app.client.AddIngredient(ctx, in)
	if err != nil {
		return err
	}
	label := ing.StockItemName
	if label == "" {
		label = fmt.Sprintf("stock item #%d", ing.StockItem)
	}
	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("Added %s x%s to product #%d", label, formatQuantity(ing.QuantityRequired), in.Product)))
	return nil
}

func (app *Application) ingredientsDelete(ctx context.Context, args []string) error {
	fs := app.newFlags("ingredients delete")
	id := fs.Int64("id", 0, "ingredient id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	if err := app.client.DeleteIngredient(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Deleted ingredient #%d\n", *id)
	return nil
}

// ============================================================================
// Catalog
// ============================================================================

func (app *Application) catalog(ctx context.Context, args []string) error {
	if err := parseFlags(app.newFlags("catalog"), args); err != nil {
		return err
	}

	cat, err := app.client.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, headingStyle.Render("Stock"))
	fmt.Fprintln(app.out, renderStock(cat.Stock))
	fmt.Fprintln(app.out, headingStyle.Render("Products"))
	fmt.Fprintln(app.out, renderProducts(cat.Products))
	return nil
}

// ingredientFlags collects repeated -ingredient STOCK_ID:QUANTITY values.
type ingredientFlags []stocksdk.IngredientInput

func (f *ingredientFlags) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, len(*f))
	for i, in := range *f {
		parts[i] = fmt.Sprintf("%d:%s", in.StockItem, formatQuantity(in.QuantityRequired))
	}
	return strings.Join(parts, ",")
}

func (f *ingredientFlags) Set(v string) error {
	idPart, qtyPart, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("want STOCK_ID:QUANTITY, got %q", v)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid stock id %q", idPart)
	}
	qty, err := strconv.ParseFloat(strings.TrimSpace(qtyPart), 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", qtyPart)
	}
	*f = append(*f, stocksdk.IngredientInput{StockItem: id, QuantityRequired: qty})
	return nil
}
