package domain

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCartEmpty       = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrOutOfStock      = &Error{Code: EINVALID, Message: "Product is out of stock"}
)

// CartLine is one row in the cart: a single product and its chosen quantity.
// Name, Slug, ImageURL and UnitPriceCents are copied from the catalog when the
// line is created. They are a snapshot, not a live feed; later catalog changes
// do not propagate into existing lines.
type CartLine struct {
	ProductID      int64
	Name           string
	Slug           string
	ImageURL       string
	UnitPriceCents int64
	Quantity       int
	AvailableStock int
}

// SubtotalCents returns quantity x unit price in minor currency units.
func (l CartLine) SubtotalCents() int64 {
	return int64(l.Quantity) * l.UnitPriceCents
}

// UnitPrice returns the unit price as a decimal with two fractional digits.
func (l CartLine) UnitPrice() decimal.Decimal {
	return decimal.New(l.UnitPriceCents, -2)
}

// Subtotal returns the line subtotal as a decimal with two fractional digits.
func (l CartLine) Subtotal() decimal.Decimal {
	return decimal.New(l.SubtotalCents(), -2)
}

// LineCandidate is the input to an add-to-cart operation. It carries the
// product facts read from the catalog at the moment of the add, including the
// stock figure used as the quantity clamp.
type LineCandidate struct {
	ProductID      int64  `validate:"required,gt=0"`
	Name           string `validate:"required"`
	Slug           string `validate:"required"`
	ImageURL       string
	UnitPriceCents int64 `validate:"gte=0"`
	Quantity       int   `validate:"gte=0"`
	AvailableStock int   `validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCandidate checks a line candidate before it can enter a cart.
// A zero Quantity is allowed here; the store treats it as "one".
func ValidateCandidate(c LineCandidate) error {
	if err := validate.Struct(c); err != nil {
		return WrapError(err, EINVALID, "cart.candidate", "invalid cart line candidate")
	}
	return nil
}

// CartSummary is a read-only snapshot of a cart: the ordered lines plus the
// derived totals. Lines is a copy; mutating it does not touch the store.
type CartSummary struct {
	Lines         []CartLine
	ItemCount     int
	SubtotalCents int64
}

// Subtotal returns the cart total as a decimal, exact to the cent.
func (s CartSummary) Subtotal() decimal.Decimal {
	return decimal.New(s.SubtotalCents, -2)
}
