package stocksdk

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	requiredReason = "required"
	minPassword    = 8
)

// Validate checks if the login fields are present.
// Returns a map of field names to error messages, or nil if all fields are valid.
func (r LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	requireText(errs, "username", r.Username)
	if r.Password == "" {
		errs["password"] = requiredReason
	}
	return nilIfEmpty(errs)
}

// Validate checks the registration fields the API rejects outright.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	requireText(errs, "username", r.Username)
	requireText(errs, "business_name", r.BusinessName)

	switch {
	case r.Password == "":
		errs["password"] = requiredReason
	case len(r.Password) < minPassword:
		errs["password"] = fmt.Sprintf("too short (min %d)", minPassword)
	}

	email := strings.TrimSpace(r.Email)
	switch {
	case email == "":
		errs["email"] = requiredReason
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			errs["email"] = "not a valid address"
		}
	}

	return nilIfEmpty(errs)
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.CurrentPassword == "" {
		errs["current_password"] = requiredReason
	}
	if r.NewPassword == "" {
		errs["new_password"] = requiredReason
	}
	return nilIfEmpty(errs)
}

func (s StockItemInput) Validate() map[string]string {
	errs := make(map[string]string)
	requireText(errs, "name", s.Name)
	requireText(errs, "unit", s.Unit)
	if s.Quantity < 0 {
		errs["quantity"] = "must not be negative"
	}
	return nilIfEmpty(errs)
}

func (p ProductInput) Validate() map[string]string {
	errs := make(map[string]string)
	requireText(errs, "name", p.Name)
	requireText(errs, "unit", p.Unit)
	for i, ing := range p.Ingredients {
		ing.validateInto(errs, fmt.Sprintf("ingredients[%d].", i))
	}
	return nilIfEmpty(errs)
}

func (i IngredientInput) Validate() map[string]string {
	errs := make(map[string]string)
	i.validateInto(errs, "")
	return nilIfEmpty(errs)
}

func (i IngredientInput) validateInto(errs map[string]string, prefix string) {
	if i.StockItem <= 0 {
		errs[prefix+"stock_item"] = requiredReason
	}
	if i.QuantityRequired <= 0 {
		errs[prefix+"quantity_required"] = "must be positive"
	}
}

func (t TransactionInput) Validate() map[string]string {
	errs := make(map[string]string)
	if t.Product <= 0 {
		errs["product"] = requiredReason
	}
	if t.QuantitySold <= 0 {
		errs["quantity_sold"] = "must be positive"
	}
	return nilIfEmpty(errs)
}

func requireText(errs map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = requiredReason
	}
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validate wraps a Validate result as an error.
func validate(v interface{ Validate() map[string]string }) error {
	if errs := v.Validate(); errs != nil {
		return &ValidationError{Fields: errs}
	}
	return nil
}
