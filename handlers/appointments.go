package handlers

import (
	"net/http"

	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler serves the staff calendar.
type AppointmentHandler struct {
	Service booking.BookingService
}

func NewAppointmentHandler(s booking.BookingService) *AppointmentHandler {
	return &AppointmentHandler{Service: s}
}

// ListHandler lists one day (?date) or the week starting at ?weekStart.
func (h *AppointmentHandler) ListHandler(c *gin.Context) {
	ctx, biz := c.Request.Context(), businessID(c)
	if week := c.Query("weekStart"); week != "" {
		appts, err := h.Service.ListWeek(ctx, biz, week)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, appts)
		return
	}
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date or weekStart is required", "")
		return
	}
	appts, err := h.Service.ListByDate(ctx, biz, date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) CreateHandler(c *gin.Context) {
	var req booking.StaffAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Service.Create(c.Request.Context(), businessID(c), req, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) GetHandler(c *gin.Context) {
	appt, err := h.Service.Get(c.Request.Context(), businessID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) UpdateHandler(c *gin.Context) {
	var req booking.UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Service.Update(c.Request.Context(), businessID(c), c.Param("id"), req, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) DeleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), businessID(c), c.Param("id"), actorID(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AppointmentHandler) PayHandler(c *gin.Context) {
	var req booking.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Service.MarkPaid(c.Request.Context(), businessID(c), c.Param("id"), req, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) RefundHandler(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Service.Refund(c.Request.Context(), businessID(c), c.Param("id"), req.Reason, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) NoShowHandler(c *gin.Context) {
	appt, err := h.Service.MarkNoShow(c.Request.Context(), businessID(c), c.Param("id"), actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ReconcileHandler runs the ledger check on demand.
func (h *AppointmentHandler) ReconcileHandler(c *gin.Context) {
	report, err := h.Service.Reconcile(c.Request.Context(), businessID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
