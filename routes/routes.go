package routes

import (
	"time"

	"salonbook/handlers"
	"salonbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries what the route groups need besides the handlers.
type Options struct {
	BusinessID        string
	Verifier          middleware.TokenVerifier
	MaxRequestsPerMin int
}

// RegisterPublicRoutes registers the booking page endpoints, rate limited
// per client IP.
func RegisterPublicRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, opts Options) {
	public := api.Group("/public")
	public.Use(middleware.RateLimitMiddleware(opts.MaxRequestsPerMin))
	{
		public.GET("/services", hb.Public.ListServicesHandler)
		public.GET("/slots", hb.Public.SlotsHandler)
		public.POST("/appointments", hb.Public.BookHandler)
	}
}

// RegisterCatalogRoutes registers catalogue, schedule and time block
// administration.
func RegisterCatalogRoutes(staff *gin.RouterGroup, hb *handlers.HandlerBundle) {
	services := staff.Group("/services")
	{
		services.GET("", hb.Catalog.ListServicesHandler)
		services.POST("", hb.Catalog.CreateServiceHandler)
		services.PUT("/:id", hb.Catalog.UpdateServiceHandler)
		services.DELETE("/:id", hb.Catalog.DeleteServiceHandler)
	}
	staff.GET("/work-config", hb.Catalog.GetWorkConfigHandler)
	staff.PUT("/work-config", hb.Catalog.PutWorkConfigHandler)

	blocks := staff.Group("/time-blocks")
	{
		blocks.GET("", hb.Catalog.ListTimeBlocksHandler)
		blocks.POST("", hb.Catalog.CreateTimeBlockHandler)
		blocks.DELETE("/:id", hb.Catalog.DeleteTimeBlockHandler)
	}
}

// RegisterAppointmentRoutes registers the staff calendar.
func RegisterAppointmentRoutes(staff *gin.RouterGroup, hb *handlers.HandlerBundle) {
	appts := staff.Group("/appointments")
	{
		appts.GET("", hb.Appointments.ListHandler)
		appts.POST("", hb.Appointments.CreateHandler)
		appts.POST("/reconcile", hb.Appointments.ReconcileHandler)
		appts.GET("/:id", hb.Appointments.GetHandler)
		appts.PATCH("/:id", hb.Appointments.UpdateHandler)
		appts.DELETE("/:id", hb.Appointments.DeleteHandler)
		appts.POST("/:id/pay", hb.Appointments.PayHandler)
		appts.POST("/:id/refund", hb.Appointments.RefundHandler)
		appts.POST("/:id/no-show", hb.Appointments.NoShowHandler)
	}
}

// RegisterCashRoutes registers the cash register.
func RegisterCashRoutes(staff *gin.RouterGroup, hb *handlers.HandlerBundle) {
	sessions := staff.Group("/cash/sessions")
	{
		sessions.GET("", hb.Cash.ListHandler)
		sessions.POST("", hb.Cash.OpenHandler)
		sessions.GET("/current", hb.Cash.CurrentHandler)
		sessions.GET("/:id", hb.Cash.GetHandler)
		sessions.POST("/:id/entries", hb.Cash.AddEntryHandler)
		sessions.POST("/:id/close", hb.Cash.CloseHandler)
	}
	entries := staff.Group("/cash/entries")
	{
		entries.GET("/:entryId", hb.Cash.GetEntryHandler)
		entries.PATCH("/:entryId", hb.Cash.AmendHandler)
		entries.POST("/:entryId/void", hb.Cash.VoidHandler)
	}
}

// RegisterCRMRoutes registers customers, tasks, leads and campaigns.
func RegisterCRMRoutes(staff *gin.RouterGroup, hb *handlers.HandlerBundle) {
	crm := staff.Group("/crm")
	{
		crm.GET("/customers", hb.CRM.ListCustomersHandler)
		crm.POST("/customers", hb.CRM.CreateCustomerHandler)
		crm.GET("/customers/:id", hb.CRM.GetCustomerHandler)
		crm.PUT("/customers/:id", hb.CRM.UpdateCustomerHandler)
		crm.POST("/customers/:id/tags", hb.CRM.AddTagHandler)
		crm.DELETE("/customers/:id/tags/:tag", hb.CRM.RemoveTagHandler)
		crm.GET("/customers/:id/timeline", hb.CRM.TimelineHandler)
		crm.POST("/customers/:id/notes", hb.CRM.AddNoteHandler)

		crm.GET("/tasks", hb.CRM.ListTasksHandler)
		crm.POST("/tasks", hb.CRM.CreateTaskHandler)
		crm.POST("/tasks/:id/complete", hb.CRM.CompleteTaskHandler)

		crm.GET("/leads", hb.CRM.ListLeadsHandler)
		crm.POST("/leads", hb.CRM.CreateLeadHandler)
		crm.PUT("/leads/:id/status", hb.CRM.SetLeadStatusHandler)
		crm.POST("/leads/:id/convert", hb.CRM.ConvertLeadHandler)

		crm.GET("/campaigns", hb.CRM.ListCampaignsHandler)
		crm.POST("/campaigns", hb.CRM.CreateCampaignHandler)
		crm.POST("/campaigns/:id/send", hb.CRM.SendCampaignHandler)

		crm.POST("/churn-scan", hb.CRM.ChurnScanHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if hb.Health != nil {
		r.GET("/health", hb.Health)
	}

	api := r.Group("/api")
	api.Use(middleware.BusinessScope(opts.BusinessID))
	RegisterPublicRoutes(api, hb, opts)

	staff := api.Group("")
	staff.Use(middleware.IdentityMiddleware(opts.Verifier))
	RegisterCatalogRoutes(staff, hb)
	RegisterAppointmentRoutes(staff, hb)
	RegisterCashRoutes(staff, hb)
	RegisterCRMRoutes(staff, hb)
}
