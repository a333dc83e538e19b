package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/domain"
)

type OrderCreate struct {
	Customer     domain.CustomerInfo `json:"customer"`
	ProductCost  decimal.Decimal     `json:"productCost"`
	ShippingCost decimal.Decimal     `json:"shippingCost"`
	Total        decimal.Decimal     `json:"total"`
	Items        []LineItemCreate    `json:"items,omitempty"`
}

type OrderUpdate struct {
	Customer     domain.CustomerInfo `json:"customer"`
	ProductCost  decimal.Decimal     `json:"productCost"`
	ShippingCost decimal.Decimal     `json:"shippingCost"`
	Total        decimal.Decimal     `json:"total"`
}

type LineItemCreate struct {
	OrderID   string          `json:"orderId"`
	VariantID string          `json:"variantId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type LineItemUpdate struct {
	Quantity int `json:"quantity"`
}

func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return decode[domain.Order](c, ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetOrderLineItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	return decode[[]domain.LineItem](c, ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID)+"/details", nil, nil)
}

func (c *Client) CreateOrder(ctx context.Context, in OrderCreate) (domain.Order, error) {
	return decode[domain.Order](c, ctx, http.MethodPost, "/api/orders", nil, in)
}

func (c *Client) UpdateOrder(ctx context.Context, id string, in OrderUpdate) (domain.Order, error) {
	return decode[domain.Order](c, ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id), nil, in)
}

func (c *Client) CreateLineItem(ctx context.Context, in LineItemCreate) (domain.LineItem, error) {
	return decode[domain.LineItem](c, ctx, http.MethodPost, "/api/order-details", nil, in)
}

func (c *Client) UpdateLineItem(ctx context.Context, detailID string, in LineItemUpdate) (domain.LineItem, error) {
	return decode[domain.LineItem](c, ctx, http.MethodPut, "/api/order-details/"+url.PathEscape(detailID), nil, in)
}
