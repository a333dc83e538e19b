package stubapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop-backoffice/internal/domain"
)

type postReq struct {
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
	Thumbnail string `json:"thumbnail"`
	Published bool   `json:"published"`
}

func (h *handlers) listPosts(c *gin.Context) {
	ok(c, http.StatusOK, h.store.ListPosts(intQuery(c, "page", 1), intQuery(c, "pageSize", 10)))
}

func (h *handlers) createPost(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid post payload: "+err.Error())
		return
	}
	post := h.store.CreatePost(domain.Post{
		Title:     req.Title,
		Body:      req.Body,
		Thumbnail: req.Thumbnail,
		Published: req.Published,
	})
	ok(c, http.StatusCreated, post)
}

func (h *handlers) updatePost(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid post payload: "+err.Error())
		return
	}
	post, found := h.store.UpdatePost(c.Param("id"), domain.Post{
		Title:     req.Title,
		Body:      req.Body,
		Thumbnail: req.Thumbnail,
		Published: req.Published,
	})
	if !found {
		fail(c, http.StatusNotFound, "post not found")
		return
	}
	ok(c, http.StatusOK, post)
}

func (h *handlers) deletePost(c *gin.Context) {
	if !h.store.DeletePost(c.Param("id")) {
		fail(c, http.StatusNotFound, "post not found")
		return
	}
	ok(c, http.StatusOK, nil)
}

func (h *handlers) salesSummary(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid from timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid to timestamp")
		return
	}
	ok(c, http.StatusOK, h.store.SalesSummary(from, to))
}
