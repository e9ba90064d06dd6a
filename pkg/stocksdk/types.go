package stocksdk

import "github.com/aussiebroadwan/stockbook/pkg/jwtx"

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the body of POST token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by POST token/.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`

	// UserID is numeric on the wire but some deployments send a string.
	UserID jwtx.FlexibleID `json:"user_id,omitempty"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// RegisterRequest is the body of POST register/.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Address      string `json:"address,omitempty"`
	BusinessName string `json:"business_name"`
}

// MessageResponse is the {"message": ...} acknowledgement several
// endpoints return.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Profile Types
// ============================================================================

// Profile is the authenticated user's account record.
type Profile struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Address        string `json:"address"`
	BusinessName   string `json:"business_name"`
	ProfilePicture string `json:"profile_picture"`
}

// ChangePasswordRequest is the body of POST profile/change-password/.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ============================================================================
// Inventory Types
// ============================================================================

// StockItem is a raw material on hand.
type StockItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// StockItemInput creates or replaces a stock item.
type StockItemInput struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Product is something sold, made from stock items.
type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Unit        string       `json:"unit"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Ingredient links a product to the stock it consumes per unit sold.
type Ingredient struct {
	StockItem        int64   `json:"stock_item"`
	StockItemName    string  `json:"stock_item_name,omitempty"`
	QuantityRequired float64 `json:"quantity_required"`
}

// ProductInput creates or replaces a product. On update an empty
// Ingredients list leaves the existing recipe alone.
type ProductInput struct {
	Name        string            `json:"name"`
	Unit        string            `json:"unit"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// IngredientInput is one recipe line. Product is only set when posting to
// ingredients/ directly.
type IngredientInput struct {
	Product          int64   `json:"product,omitempty"`
	StockItem        int64   `json:"stock_item"`
	QuantityRequired float64 `json:"quantity_required"`
}

// Transaction is a recorded sale.
type Transaction struct {
	ID            int64   `json:"id"`
	Product       int64   `json:"product"`
	ProductName   string  `json:"product_name"`
	QuantitySold  float64 `json:"quantity_sold"`
	Date          string  `json:"date"`
	FormattedDate string  `json:"formatted_date"`
}

// TransactionInput records a sale.
type TransactionInput struct {
	Product      int64   `json:"product"`
	QuantitySold float64 `json:"quantity_sold"`
}

// TransactionFilter narrows ListTransactions. Zero values mean no filter.
type TransactionFilter struct {
	ProductID int64
}

// ============================================================================
// Dashboard Types
// ============================================================================

// Dashboard is the weekly sales aggregate.
type Dashboard struct {
	WeeklySales []WeeklySales `json:"weekly_sales"`
}

// WeeklySales is the total sold in the week starting at Date.
type WeeklySales struct {
	WeekDay    string  `json:"week_day"`
	TotalSales float64 `json:"total_sales"`
	Date       string  `json:"date"`
}

// DashboardFilter narrows Dashboard to one product.
type DashboardFilter struct {
	ProductID int64
}

// Catalog is the stock and product lists fetched together.
type Catalog struct {
	Stock    []StockItem
	Products []Product
}
