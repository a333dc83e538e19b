package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shop-backoffice/internal/domain"
)

type PostInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Published bool   `json:"published"`
}

func (c *Client) ListPosts(ctx context.Context, page, pageSize int) (domain.Page[domain.Post], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return decode[domain.Page[domain.Post]](c, ctx, http.MethodGet, "/api/posts", q, nil)
}

func (c *Client) CreatePost(ctx context.Context, in PostInput) (domain.Post, error) {
	return decode[domain.Post](c, ctx, http.MethodPost, "/api/posts", nil, in)
}

func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (domain.Post, error) {
	return decode[domain.Post](c, ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), nil, in)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil)
	return err
}

// SalesSummary fetches the revenue aggregate for a reporting window.
func (c *Client) SalesSummary(ctx context.Context, from, to time.Time) (domain.SalesSummary, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	return decode[domain.SalesSummary](c, ctx, http.MethodGet, "/api/statistics/sales", q, nil)
}
