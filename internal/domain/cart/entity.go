// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"

	productdom "github.com/alpesh377/e-commerce-store/internal/domain/product"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be >= 1")
	ErrInvalidProduct  = errors.New("cart: product id is empty")
)

// Line is one cart line: a full product snapshot taken at add time plus a
// quantity. Catalog price changes after the add do not flow into the line.
//
// Remote shape (Firestore, collection "carts", docId = uid):
//
//	{ items: [ { ...product fields..., quantity } ] }
type Line struct {
	productdom.Product
	Quantity int `json:"quantity" firestore:"quantity"`
}

// Lines is an ordered cart line list.
//   - order is insertion order; not semantically significant but stable
//   - at most one line per product id
//   - quantity >= 1 on every line (a line reduced to 0 is removed)
//
// Methods return the updated list; the receiver is treated as immutable
// input so callers can swap state wholesale.
type Lines []Line

func findLine(ls Lines, productID string) int {
	for i := range ls {
		if ls[i].ID == productID {
			return i
		}
	}
	return -1
}

// Add accumulates qty onto an existing line for p.ID, or appends a new line
// holding the full product snapshot. Repeated adds are additive.
func (ls Lines) Add(p productdom.Product, qty int) (Lines, error) {
	if strings.TrimSpace(p.ID) == "" {
		return ls, ErrInvalidProduct
	}
	if qty < 1 {
		return ls, ErrInvalidQuantity
	}

	out := ls.Clone()
	if idx := findLine(out, p.ID); idx >= 0 {
		out[idx].Quantity += qty
		return out, nil
	}
	return append(out, Line{Product: p, Quantity: qty}), nil
}

// SetQuantity replaces the quantity of the line for productID.
// qty <= 0 removes the line (never stored as 0 or negative).
// Unknown productID is a no-op.
func (ls Lines) SetQuantity(productID string, qty int) Lines {
	idx := findLine(ls, productID)
	if idx < 0 {
		return ls
	}
	if qty < 1 {
		return ls.Remove(productID)
	}
	out := ls.Clone()
	out[idx].Quantity = qty
	return out
}

// Remove drops the line for productID. Unknown productID is a no-op, not an
// error.
func (ls Lines) Remove(productID string) Lines {
	idx := findLine(ls, productID)
	if idx < 0 {
		return ls
	}
	out := make(Lines, 0, len(ls)-1)
	out = append(out, ls[:idx]...)
	out = append(out, ls[idx+1:]...)
	return out
}

// Total is the sum of price x quantity over all lines.
// Recomputed on every call; never cached.
func (ls Lines) Total() float64 {
	var total float64
	for i := range ls {
		total += ls[i].Price * float64(ls[i].Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (ls Lines) ItemCount() int {
	var n int
	for i := range ls {
		n += ls[i].Quantity
	}
	return n
}

// Clone returns a copy safe to hand across goroutine boundaries.
func (ls Lines) Clone() Lines {
	if ls == nil {
		return nil
	}
	out := make(Lines, len(ls))
	copy(out, ls)
	return out
}
