package api

import (
	"net/http"

	"foodhub/services"

	"github.com/gin-gonic/gin"
)

func (s *Server) riderListOrders(c *gin.Context) {
	actor := actorFrom(c)
	orders, err := services.ListRiderOrders(c.Request.Context(), actor.RiderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": viewOrders(orders)})
}

type deliverRequest struct {
	PaymentReceived bool `json:"payment_received"`
}

func (s *Server) riderDeliver(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req deliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := services.Deliver(c.Request.Context(), actorFrom(c), id, req.PaymentReceived)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOrder(o))
}

type locationRequest struct {
	Lat float64 `json:"lat" binding:"min=-90,max=90"`
	Lng float64 `json:"lng" binding:"min=-180,max=180"`
}

func (s *Server) riderReportLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := services.ReportLocation(c.Request.Context(), actorFrom(c), req.Lat, req.Lng); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
