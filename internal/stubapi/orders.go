package stubapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop-backoffice/internal/domain"
)

type lineItemCreateReq struct {
	OrderID   string          `json:"orderId"`
	VariantID string          `json:"variantId" binding:"required"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type orderCreateReq struct {
	Customer     domain.CustomerInfo `json:"customer" binding:"required"`
	ProductCost  decimal.Decimal     `json:"productCost"`
	ShippingCost decimal.Decimal     `json:"shippingCost"`
	Total        decimal.Decimal     `json:"total"`
	Items        []lineItemCreateReq `json:"items"`
}

type orderUpdateReq struct {
	Customer     domain.CustomerInfo `json:"customer" binding:"required"`
	ProductCost  decimal.Decimal     `json:"productCost"`
	ShippingCost decimal.Decimal     `json:"shippingCost"`
	Total        decimal.Decimal     `json:"total"`
}

type lineItemUpdateReq struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *handlers) getOrder(c *gin.Context) {
	order, found := h.store.Order(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *handlers) getOrderDetails(c *gin.Context) {
	details, found := h.store.OrderDetails(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, details)
}

func (h *handlers) createOrder(c *gin.Context) {
	var req orderCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid order payload: "+err.Error())
		return
	}
	order := h.store.CreateOrder(domain.Order{
		Customer:     req.Customer,
		ProductCost:  req.ProductCost,
		ShippingCost: req.ShippingCost,
		Total:        req.Total,
	})
	for _, item := range req.Items {
		if _, err := h.store.CreateDetail(order.ID, item.VariantID, item.Quantity, item.UnitPrice); err != nil {
			h.log.Warn("seed order detail rejected", zap.String("order", order.ID), zap.Error(err))
			fail(c, http.StatusConflict, err.Error())
			return
		}
	}
	h.log.Info("order created", zap.String("order", order.ID), zap.Int("items", len(req.Items)))
	ok(c, http.StatusCreated, order)
}

func (h *handlers) updateOrder(c *gin.Context) {
	var req orderUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid order payload: "+err.Error())
		return
	}
	order, found := h.store.UpdateOrder(c.Param("id"), domain.Order{
		Customer:     req.Customer,
		ProductCost:  req.ProductCost,
		ShippingCost: req.ShippingCost,
		Total:        req.Total,
	})
	if !found {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *handlers) createDetail(c *gin.Context) {
	var req lineItemCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid line item payload: "+err.Error())
		return
	}
	li, err := h.store.CreateDetail(req.OrderID, req.VariantID, req.Quantity, req.UnitPrice)
	if err != nil {
		fail(c, http.StatusConflict, err.Error())
		return
	}
	ok(c, http.StatusCreated, li)
}

func (h *handlers) updateDetail(c *gin.Context) {
	var req lineItemUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid line item payload: "+err.Error())
		return
	}
	li, err := h.store.UpdateDetail(c.Param("id"), req.Quantity)
	if err != nil {
		fail(c, http.StatusConflict, err.Error())
		return
	}
	ok(c, http.StatusOK, li)
}
