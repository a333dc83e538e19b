package stubapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handlers struct {
	store *Store
	log   *zap.Logger
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func (h *handlers) listProducts(c *gin.Context) {
	page := h.store.ListProducts(
		intQuery(c, "page", 1),
		intQuery(c, "pageSize", 10),
		c.Query("sort"),
		c.Query("category"),
		c.Query("search"),
	)
	ok(c, http.StatusOK, page)
}

func (h *handlers) listVariants(c *gin.Context) {
	id := c.Param("id")
	variants, found := h.store.Variants(id)
	if !found {
		fail(c, http.StatusNotFound, "product not found")
		return
	}
	ok(c, http.StatusOK, variants)
}
