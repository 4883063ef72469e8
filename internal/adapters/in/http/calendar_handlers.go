package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (c *CalendarController) viewID(ctx *gin.Context) (uuid.UUID, bool) {
	viewID, err := uuid.Parse(ctx.Param("viewId"))
	if err != nil {
		badRequest(ctx, "Invalid view ID format")
		return uuid.Nil, false
	}
	return viewID, true
}

func (c *CalendarController) openView(ctx *gin.Context) {
	var req MonthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	snapshot, err := c.calendar.OpenView(ctx.Request.Context(), req.Key())
	if err != nil {
		c.respondError(ctx, "http.calendar.open_view.failed", err)
		return
	}

	ctx.JSON(http.StatusCreated, snapshot)
}

func (c *CalendarController) getView(ctx *gin.Context) {
	viewID, ok := c.viewID(ctx)
	if !ok {
		return
	}

	snapshot, err := c.calendar.Snapshot(viewID)
	if err != nil {
		c.respondError(ctx, "http.calendar.snapshot.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *CalendarController) closeView(ctx *gin.Context) {
	viewID, ok := c.viewID(ctx)
	if !ok {
		return
	}

	c.calendar.CloseView(viewID)
	ctx.Status(http.StatusNoContent)
}

func (c *CalendarController) refreshView(ctx *gin.Context) {
	viewID, ok := c.viewID(ctx)
	if !ok {
		return
	}

	var req MonthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	snapshot, err := c.calendar.Refresh(ctx.Request.Context(), viewID, req.Key())
	if err != nil {
		c.respondError(ctx, "http.calendar.refresh.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *CalendarController) applyFilter(ctx *gin.Context) {
	viewID, ok := c.viewID(ctx)
	if !ok {
		return
	}

	var req FilterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	snapshot, err := c.calendar.ApplyFilter(viewID, req.toDomain(c.logger))
	if err != nil {
		c.respondError(ctx, "http.calendar.apply_filter.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *CalendarController) clearFilter(ctx *gin.Context) {
	viewID, ok := c.viewID(ctx)
	if !ok {
		return
	}

	snapshot, err := c.calendar.ClearFilter(viewID)
	if err != nil {
		c.respondError(ctx, "http.calendar.clear_filter.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *CalendarController) navigate(ctx *gin.Context) {
	viewID, ok := c.viewID(ctx)
	if !ok {
		return
	}

	var req DateRangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	visible, err := req.toDomain()
	if err != nil {
		badRequest(ctx, "Invalid visible range: "+err.Error())
		return
	}

	snapshot, err := c.calendar.Navigate(viewID, visible)
	if err != nil {
		c.respondError(ctx, "http.calendar.navigate.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *CalendarController) searchDoctors(ctx *gin.Context) {
	viewID, ok := c.viewID(ctx)
	if !ok {
		return
	}

	result, err := c.calendar.SearchDoctors(ctx.Request.Context(), viewID, ctx.Query("q"))
	if err != nil {
		c.respondError(ctx, "http.calendar.search_doctors.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *CalendarController) monthStats(ctx *gin.Context) {
	var req MonthStatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	stats, err := c.calendar.MonthStats(ctx.Request.Context(), req.Key(), req.Filter.toDomain(c.logger))
	if err != nil {
		c.respondError(ctx, "http.calendar.month_stats.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
