package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"shop-backoffice/internal/domain"
)

// ListProductsParams select one page of the catalog.
type ListProductsParams struct {
	Page     int
	PageSize int
	Sort     string
	Category string
	Search   string
}

// ListProducts returns one catalog page. Pagination is entirely the
// backend's; this is a pass-through.
func (c *Client) ListProducts(ctx context.Context, p ListProductsParams) (domain.Page[domain.Product], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("pageSize", strconv.Itoa(p.PageSize))
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return decode[domain.Page[domain.Product]](c, ctx, http.MethodGet, "/api/products", q, nil)
}

// ListVariants returns every color/size variant of a product with its
// current stock ceiling.
func (c *Client) ListVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	return decode[[]domain.Variant](c, ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID)+"/variants", nil, nil)
}
