// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidProduct = errors.New("product: invalid")
)

// Specification is a display name/value pair (e.g. "Material" -> "Cotton").
type Specification struct {
	Name  string `json:"name" firestore:"name"`
	Value string `json:"value" firestore:"value"`
}

// Review is a customer review embedded in the product document.
type Review struct {
	UserID   string    `json:"userId" firestore:"userId"`
	UserName string    `json:"userName" firestore:"userName"`
	Rating   float64   `json:"rating" firestore:"rating"`
	Comment  string    `json:"comment" firestore:"comment"`
	Date     time.Time `json:"date" firestore:"date"`
}

// Product is an immutable catalog record.
//   - docId = product id (Firestore, collection "products")
//   - created/edited outside this system; the storefront only reads
//   - CreatedAt is the sort key for catalog listings (newest first)
type Product struct {
	// ID is the Firestore docId. Filled from the snapshot ref by the
	// repository even when the document body has no id field.
	ID string `json:"id" firestore:"id"`

	Name            string  `json:"name" firestore:"name"`
	Description     string  `json:"description" firestore:"description"`
	FullDescription string  `json:"fullDescription,omitempty" firestore:"fullDescription,omitempty"`
	Price           float64 `json:"price" firestore:"price"`
	OriginalPrice   float64 `json:"originalPrice,omitempty" firestore:"originalPrice,omitempty"`
	ImageURL        string  `json:"imageUrl" firestore:"imageUrl"`
	Category        string  `json:"category" firestore:"category"`
	CategoryID      string  `json:"categoryId" firestore:"categoryId"`
	InStock         bool    `json:"inStock" firestore:"inStock"`
	OnSale          bool    `json:"onSale,omitempty" firestore:"onSale,omitempty"`
	Featured        bool    `json:"featured,omitempty" firestore:"featured,omitempty"`

	// Rating is 0..5 in half steps. ReviewCount is >= 0.
	Rating      float64 `json:"rating" firestore:"rating"`
	ReviewCount int     `json:"reviewCount" firestore:"reviewCount"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`

	Specifications []Specification `json:"specifications,omitempty" firestore:"specifications,omitempty"`
	Reviews        []Review        `json:"reviews,omitempty" firestore:"reviews,omitempty"`
}

// Validate checks the invariants the storefront relies on.
// Catalog writes happen elsewhere, so this is a read-side sanity check only.
func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidProduct
	}
	if p.Price < 0 {
		return ErrInvalidProduct
	}
	if p.Rating < 0 || p.Rating > 5 {
		return ErrInvalidProduct
	}
	if p.ReviewCount < 0 {
		return ErrInvalidProduct
	}
	return nil
}
