package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

func (c *CalendarController) createForDates(ctx *gin.Context) {
	var req CreateForDatesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	created, err := c.schedules.CreateForDates(ctx.Request.Context(), req.DoctorID, req.Dates)
	if err != nil {
		c.respondError(ctx, "http.schedules.create_dates.failed", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"schedules": created})
}

func (c *CalendarController) createForMonth(ctx *gin.Context) {
	var req CreateForMonthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	month := domain.MonthKey{Month: req.Month, Year: req.Year}
	created, err := c.schedules.CreateForMonth(ctx.Request.Context(), req.DoctorID, month, req.ExcludeWeekends)
	if err != nil {
		c.respondError(ctx, "http.schedules.create_month.failed", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"schedules": created})
}

func (c *CalendarController) planMonth(ctx *gin.Context) {
	month, ok := monthFromQuery(ctx.Query("month"), ctx.Query("year"))
	if !ok {
		badRequest(ctx, "Invalid month or year")
		return
	}

	excludeWeekends, _ := strconv.ParseBool(ctx.DefaultQuery("excludeWeekends", "false"))

	plan, err := c.schedules.PlanMonth(month, excludeWeekends)
	if err != nil {
		c.respondError(ctx, "http.schedules.plan_month.failed", err)
		return
	}

	ctx.JSON(http.StatusOK, plan)
}

func (c *CalendarController) deleteSchedule(ctx *gin.Context) {
	var month *domain.MonthKey
	if key, ok := monthFromQuery(ctx.Query("month"), ctx.Query("year")); ok {
		month = &key
	}

	if err := c.schedules.DeleteSchedule(ctx.Request.Context(), ctx.Param("scheduleId"), month); err != nil {
		c.respondError(ctx, "http.schedules.delete.failed", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *CalendarController) updateSlotStatus(ctx *gin.Context) {
	var req UpdateSlotStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	status, err := domain.ParseSlotStatus(req.Status)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	var month *domain.MonthKey
	if key := (domain.MonthKey{Month: req.Month, Year: req.Year}); key.Valid() {
		month = &key
	}

	err = c.schedules.UpdateSlotStatus(ctx.Request.Context(), ctx.Param("scheduleId"), ctx.Param("slotId"), status, month)
	if err != nil {
		c.respondError(ctx, "http.schedules.slot_status.failed", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
