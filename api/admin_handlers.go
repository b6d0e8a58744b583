package api

import (
	"net/http"
	"strconv"
	"time"

	"foodhub/models"
	"foodhub/services"

	"github.com/gin-gonic/gin"
)

func (s *Server) adminListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := services.ListOrders(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": viewOrders(orders)})
}

// adminCreateOrder is the walk-in POS path: same checkout, staff actor.
func (s *Server) adminCreateOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := services.CreateOrder(c.Request.Context(), s.cfg.Pricing, actorFrom(c), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOrder(o))
}

func (s *Server) adminGetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	o, err := services.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	items, err := services.GetOrderItems(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	payments, err := services.ListPayments(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": viewOrder(o), "items": items, "payments": payments})
}

type advanceRequest struct {
	// To is optional; empty means "one step forward".
	To string `json:"to"`
}

func (s *Server) adminAdvanceOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req advanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	o, err := services.AdvanceStatus(c.Request.Context(), actorFrom(c), id, req.To)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrder(o))
}

type assignRequest struct {
	RiderID string `json:"rider_id" binding:"required,uuid"`
}

func (s *Server) adminAssignRider(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := services.AssignRider(c.Request.Context(), actorFrom(c), id, req.RiderID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) adminUnassignRider(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	if err := services.UnassignRider(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type paymentRequest struct {
	Amount  int64  `json:"amount" binding:"required,min=1"`
	Method  string `json:"method" binding:"required,oneof=cash card online"`
	Channel string `json:"channel" binding:"required,oneof=pos online"`
}

func (s *Server) adminRecordPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := services.RecordPayment(c.Request.Context(), actorFrom(c), id, req.Amount, req.Method, req.Channel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) adminIssueInvoice(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	number, err := services.IssueInvoice(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_number": number})
}

type promoRequest struct {
	Code       string     `json:"code" binding:"required"`
	Type       string     `json:"type" binding:"required,oneof=percent fixed"`
	Value      int64      `json:"value" binding:"required,min=1"`
	MinOrder   int64      `json:"min_order" binding:"min=0"`
	UsageLimit *int64     `json:"usage_limit"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidTo    *time.Time `json:"valid_to"`
	IsActive   *bool      `json:"is_active"`
}

func (s *Server) adminUpsertPromo(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := services.UpsertPromo(c.Request.Context(), models.UpsertPromoInput{
		Code:       req.Code,
		Type:       req.Type,
		Value:      req.Value,
		MinOrder:   req.MinOrder,
		UsageLimit: req.UsageLimit,
		ValidFrom:  req.ValidFrom,
		ValidTo:    req.ValidTo,
		IsActive:   active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) adminListPromos(c *gin.Context) {
	promos, err := services.ListPromos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promos": promos})
}

func (s *Server) adminDeactivatePromo(c *gin.Context) {
	if err := services.DeactivatePromo(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type riderRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

func (s *Server) adminCreateRider(c *gin.Context) {
	var req riderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := services.CreateRider(c.Request.Context(), actorFrom(c), req.FullName, req.Phone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) adminListRiders(c *gin.Context) {
	riders, err := services.ListRiders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"riders": riders})
}

type riderActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (s *Server) adminSetRiderActive(c *gin.Context) {
	var req riderActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := services.SetRiderActive(c.Request.Context(), actorFrom(c), c.Param("rider_id"), *req.Active); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) adminDailyStats(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	stats, err := services.GetDailyStats(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type settingsRequest struct {
	FirstOrderDiscountPercent int    `json:"first_order_discount_percent" binding:"min=0,max=100"`
	HappyHourStart            string `json:"happy_hour_start" binding:"omitempty,clocktime"`
	HappyHourEnd              string `json:"happy_hour_end" binding:"omitempty,clocktime"`
	HappyHourPercent          int    `json:"happy_hour_percent" binding:"min=0,max=100"`
	OpenTime                  string `json:"open_time" binding:"omitempty,clocktime"`
	CloseTime                 string `json:"close_time" binding:"omitempty,clocktime"`
}

func (s *Server) adminGetSettings(c *gin.Context) {
	settings, err := services.GetBusinessSettings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) adminSaveSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	settings := &models.BusinessSettings{
		FirstOrderDiscountPercent: req.FirstOrderDiscountPercent,
		HappyHourStart:            req.HappyHourStart,
		HappyHourEnd:              req.HappyHourEnd,
		HappyHourPercent:          req.HappyHourPercent,
		OpenTime:                  req.OpenTime,
		CloseTime:                 req.CloseTime,
	}
	if err := services.SaveBusinessSettings(c.Request.Context(), settings); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
