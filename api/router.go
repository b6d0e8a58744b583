package api

import (
	"foodhub/auth"
	"foodhub/config"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Server wires config into the handlers.
type Server struct {
	cfg *config.Config
}

// NewRouter builds the gin engine with all storefront, admin and rider
// routes registered.
func NewRouter(cfg *config.Config) *gin.Engine {
	s := &Server{cfg: cfg}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("clocktime", validClockTime)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	pub := r.Group("/api")
	{
		pub.POST("/orders/quote", s.quoteOrder)
		pub.POST("/orders", s.checkout)
		pub.GET("/orders/:id", s.getOrder)
		pub.POST("/orders/:id/rating", s.submitRating)
		pub.GET("/orders/:id/rider-location", s.orderRiderLocation)
		pub.POST("/orders/:id/chat/:channel", s.postChatMessage)
		pub.GET("/orders/:id/chat/:channel", s.listChatMessages)
	}

	admin := r.Group("/api/admin", requireRole(cfg.Auth.JWTSecret, auth.RoleAdmin))
	{
		admin.GET("/orders", s.adminListOrders)
		admin.POST("/orders", s.adminCreateOrder)
		admin.GET("/orders/:id", s.adminGetOrder)
		admin.POST("/orders/:id/advance", s.adminAdvanceOrder)
		admin.POST("/orders/:id/assign", s.adminAssignRider)
		admin.DELETE("/orders/:id/assign", s.adminUnassignRider)
		admin.POST("/orders/:id/payments", s.adminRecordPayment)
		admin.POST("/orders/:id/invoice", s.adminIssueInvoice)
		admin.POST("/orders/:id/chat/:channel", s.postChatMessage)
		admin.GET("/orders/:id/chat/:channel", s.listChatMessages)
		admin.GET("/promos", s.adminListPromos)
		admin.POST("/promos", s.adminUpsertPromo)
		admin.DELETE("/promos/:code", s.adminDeactivatePromo)
		admin.GET("/riders", s.adminListRiders)
		admin.POST("/riders", s.adminCreateRider)
		admin.PATCH("/riders/:rider_id", s.adminSetRiderActive)
		admin.GET("/stats/daily", s.adminDailyStats)
		admin.GET("/settings", s.adminGetSettings)
		admin.PUT("/settings", s.adminSaveSettings)
	}

	rider := r.Group("/api/rider", requireRole(cfg.Auth.JWTSecret, auth.RoleRider))
	{
		rider.GET("/orders", s.riderListOrders)
		rider.POST("/orders/:id/deliver", s.riderDeliver)
		rider.POST("/location", s.riderReportLocation)
		rider.POST("/orders/:id/chat/:channel", s.postChatMessage)
		rider.GET("/orders/:id/chat/:channel", s.listChatMessages)
	}

	return r
}

// validClockTime accepts "HH:MM" 24-hour values.
func validClockTime(fl validator.FieldLevel) bool {
	return clockTimeOK(fl.Field().String())
}

func clockTimeOK(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	h := (int(s[0]-'0'))*10 + int(s[1]-'0')
	m := (int(s[3]-'0'))*10 + int(s[4]-'0')
	return h <= 23 && m <= 59
}
