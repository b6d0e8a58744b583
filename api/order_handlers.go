package api

import (
	"net/http"
	"strconv"
	"time"

	"foodhub/models"
	"foodhub/services"

	"github.com/gin-gonic/gin"
)

type orderItemRequest struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"min=0"`
	Qty       int    `json:"qty" binding:"required,min=1"`
}

type checkoutRequest struct {
	Channel      string             `json:"channel" binding:"required,oneof=online walk_in dine_in takeaway"`
	ServiceMode  string             `json:"service_mode" binding:"required,oneof=delivery pickup dine_in"`
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone" binding:"required"`
	Address      string             `json:"address"`
	Lat          *float64           `json:"lat"`
	Lng          *float64           `json:"lng"`
	TableNumber  string             `json:"table_number"`
	TokenNumber  string             `json:"token_number"`
	Items        []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	PromoCode    string             `json:"promo_code"`
	AmountPaid   int64              `json:"amount_paid" binding:"min=0"`
}

func (r checkoutRequest) toInput() models.CreateOrderInput {
	items := make([]models.OrderItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = models.OrderItemInput{Name: it.Name, UnitPrice: it.UnitPrice, Qty: it.Qty}
	}
	return models.CreateOrderInput{
		Channel:      r.Channel,
		ServiceMode:  r.ServiceMode,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Address:      r.Address,
		Lat:          r.Lat,
		Lng:          r.Lng,
		TableNumber:  r.TableNumber,
		TokenNumber:  r.TokenNumber,
		Items:        items,
		PromoCode:    r.PromoCode,
		AmountPaid:   r.AmountPaid,
	}
}

func (s *Server) quoteOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	q, err := services.QuoteOrder(c.Request.Context(), s.cfg.Pricing, req.toInput(), time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sub_total":       q.SubTotal,
		"distance_km":     q.DistanceKm,
		"delivery_fee":    q.DeliveryFee,
		"discount_amount": q.DiscountAmount,
		"discount_source": q.DiscountSource,
		"tax_amount":      q.TaxAmount,
		"total_price":     q.TotalPrice,
	})
}

func (s *Server) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := services.CreateOrder(c.Request.Context(), s.cfg.Pricing, services.CustomerActor(req.Phone), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOrder(o))
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	o, err := services.GetOrderForCustomer(c.Request.Context(), id, c.Query("phone"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrder(o))
}

type ratingRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Stars    int    `json:"stars" binding:"required,min=1,max=5"`
	Delivery *int   `json:"delivery"`
	Quality  *int   `json:"quality"`
	Comment  string `json:"comment"`
}

func (s *Server) submitRating(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := services.SubmitRating(c.Request.Context(), id, services.RatingInput{
		Phone:    req.Phone,
		Stars:    req.Stars,
		Delivery: req.Delivery,
		Quality:  req.Quality,
		Comment:  req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrder(o))
}

func (s *Server) orderRiderLocation(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	// Same phone gate as the order lookup: a stranger learns nothing.
	if _, err := services.GetOrderForCustomer(c.Request.Context(), id, c.Query("phone")); err != nil {
		writeError(c, err)
		return
	}
	loc, err := services.OrderRiderLocation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lat":        loc.Lat,
		"lng":        loc.Lng,
		"updated_at": loc.UpdatedAt,
	})
}
