package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductSnapshot is the denormalized display data a line item copies from a
// product at pick time, so later catalog edits cannot drift a draft.
type ProductSnapshot struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCost  decimal.Decimal `json:"unitCost"`
}

// Snapshot copies the fields a line item needs from a product.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		Thumbnail: p.Thumbnail,
		UnitPrice: p.UnitPrice,
		UnitCost:  p.UnitCost,
	}
}

// Page is the pagination envelope every list endpoint returns.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}
