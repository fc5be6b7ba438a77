package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"procurement-dashboard/query"
	"procurement-dashboard/view"
)

type DashboardData struct {
	Model        view.Model
	Columns      []Column
	ThemesMax    int
	SolutionsMax int
}

// Column is a sortable table header.
type Column struct {
	Key    query.SortKey
	Label  string
	Active bool
	Dir    query.Direction
}

var tableColumns = []struct {
	key   query.SortKey
	label string
}{
	{query.KeyDate, "Date"},
	{query.KeyTitle, "Title"},
	{query.KeySource, "Source"},
	{query.KeyRelevance, "Score"},
	{query.KeyTags, "Tags"},
}

func (h *Handler) Dashboard(c *gin.Context) {
	m := h.session.View(c.Request.Context())
	c.HTML(http.StatusOK, "dashboard.html", newDashboardData(m))
}

func newDashboardData(m view.Model) DashboardData {
	data := DashboardData{Model: m}
	for _, col := range tableColumns {
		data.Columns = append(data.Columns, Column{
			Key:    col.key,
			Label:  col.label,
			Active: m.State.SortKey == col.key,
			Dir:    m.State.SortDir,
		})
	}
	if m.Charts != nil {
		data.ThemesMax = maxCount(m.Charts.Themes)
		data.SolutionsMax = maxCount(m.Charts.Solutions)
	}
	return data
}

func maxCount(bars []view.Bar) int {
	n := 0
	for _, b := range bars {
		n = max(n, b.Count)
	}
	return n
}
