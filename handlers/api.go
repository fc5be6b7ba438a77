package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"procurement-dashboard/query"
	"procurement-dashboard/view"
)

type SearchRequest struct {
	Text string `json:"text" form:"text"`
}

type TagRequest struct {
	Tag string `json:"tag" form:"tag"`
}

type RecommendedRequest struct {
	Enabled bool `json:"enabled" form:"enabled"`
}

// LikeRequest carries the article id in the body; ids are opaque and may
// hold characters a path segment cannot.
type LikeRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View(c.Request.Context()))
}

func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View(c.Request.Context()).Stats)
}

func (h *Handler) GetTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View(c.Request.Context()).TagOptions)
}

func (h *Handler) GetCharts(c *gin.Context) {
	charts := h.session.View(c.Request.Context()).Charts
	if charts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "themes not loaded"})
		return
	}
	c.JSON(http.StatusOK, charts)
}

func (h *Handler) SetSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.respond(c, h.session.OnSearchChange(c.Request.Context(), req.Text))
}

func (h *Handler) SetTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.respond(c, h.session.OnTagChange(c.Request.Context(), req.Tag))
}

func (h *Handler) SetRecommended(c *gin.Context) {
	var req RecommendedRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.respond(c, h.session.OnRecommendedToggle(c.Request.Context(), req.Enabled))
}

func (h *Handler) ClickSort(c *gin.Context) {
	m, err := h.session.OnSortColumnClick(c.Request.Context(), query.SortKey(c.Param("key")))
	if err != nil {
		if errors.Is(err, query.ErrUnknownSortKey) {
			h.fail(c, http.StatusBadRequest, err.Error())
			return
		}
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	h.respond(c, m)
}

func (h *Handler) ToggleLike(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	m, err := h.session.OnLikeToggle(c.Request.Context(), req.ID)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to save like")
		return
	}
	h.respond(c, m)
}

// respond answers API clients with the model and sends browsers that
// submitted a dashboard form back to the page.
func (h *Handler) respond(c *gin.Context, m view.Model) {
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) fail(c *gin.Context, status int, msg string) {
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		c.HTML(status, "error.html", gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": msg})
}
