package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CustomerInfo is the recipient record a draft carries through the wizard.
type CustomerInfo struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName,omitempty"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
	Status        string `json:"status"`
}

type Order struct {
	ID           string          `json:"id"`
	Customer     CustomerInfo    `json:"customer"`
	ProductCost  decimal.Decimal `json:"productCost"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// LineItem is one picked variant attached to an order draft. ItemID is the
// variant id and acts as the unique key within a draft; DetailID is the
// persisted order-detail id, empty until the backend has stored the item.
type LineItem struct {
	ItemID          string          `json:"itemId"`
	DetailID        string          `json:"detailId,omitempty"`
	OrderID         string          `json:"orderId,omitempty"`
	Product         ProductSnapshot `json:"product"`
	Color           Color           `json:"color"`
	Size            Size            `json:"size"`
	Quantity        int             `json:"quantity"`
	LimitedQuantity int             `json:"limitedQuantity"`
	LineTotal       decimal.Decimal `json:"lineTotal"`

	// PersistedQuantity is the quantity the backend already holds for this
	// item, set when an order is loaded for editing. The backend's available
	// stock excludes these units, so stock checks compare against the delta.
	PersistedQuantity int `json:"-"`
}

// Persisted reports whether the backend already stores this item.
func (li LineItem) Persisted() bool {
	return li.DetailID != ""
}
