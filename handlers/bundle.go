package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers for route registration.
type HandlerBundle struct {
	Public       *PublicHandler
	Appointments *AppointmentHandler
	Cash         *CashHandler
	Catalog      *CatalogHandler
	CRM          *CRMHandler
	Health       gin.HandlerFunc
}
