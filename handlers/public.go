package handlers

import (
	"net/http"

	"salonbook/services/booking"
	"salonbook/services/catalog"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated booking page.
type PublicHandler struct {
	Catalog catalog.CatalogService
	Booking booking.BookingService
}

func NewPublicHandler(cs catalog.CatalogService, bs booking.BookingService) *PublicHandler {
	return &PublicHandler{Catalog: cs, Booking: bs}
}

// ListServicesHandler returns the service catalogue.
func (h *PublicHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Catalog.ListServices(c.Request.Context(), businessID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// SlotsHandler returns the bookable start times of ?serviceId on ?date.
func (h *PublicHandler) SlotsHandler(c *gin.Context) {
	serviceID, date := c.Query("serviceId"), c.Query("date")
	if serviceID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "serviceId and date are required", "")
		return
	}
	slots, err := h.Booking.Slots(c.Request.Context(), businessID(c), serviceID, date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "serviceId": serviceID, "slots": slots})
}

// BookHandler creates a public appointment.
func (h *PublicHandler) BookHandler(c *gin.Context) {
	var req booking.BookingRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Booking.Book(c.Request.Context(), businessID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("public booking", zap.String("appointmentID", appt.ID))
	c.JSON(http.StatusCreated, appt)
}
