package api

import (
	"net/http"

	"foodhub/services"

	"github.com/gin-gonic/gin"
)

type chatMessageRequest struct {
	Phone       string   `json:"phone"`
	Text        string   `json:"text" binding:"required"`
	Attachments []string `json:"attachments"`
}

// chatActor resolves who is talking. Authenticated admin/rider actors come
// from the token; customers prove themselves with the order's phone, which
// is checked against the order so a wrong phone reads as not found.
func (s *Server) chatActor(c *gin.Context, orderID int64, phone string) (services.Actor, error) {
	a := actorFrom(c)
	if a.Type == services.ActorAdmin || a.Type == services.ActorRider {
		return a, nil
	}
	if _, err := services.GetOrderForCustomer(c.Request.Context(), orderID, phone); err != nil {
		return services.Actor{}, err
	}
	return services.CustomerActor(phone), nil
}

func (s *Server) postChatMessage(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, err := s.chatActor(c, id, req.Phone)
	if err != nil {
		writeError(c, err)
		return
	}
	t, err := services.EnsureThread(c.Request.Context(), actor, id, c.Param("channel"))
	if err != nil {
		writeError(c, err)
		return
	}
	m, err := services.AppendMessage(c.Request.Context(), actor, t.ID, req.Text, req.Attachments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, messageView{
		ID: m.ID, SenderType: m.SenderType, Body: m.Body, Attachments: m.Attachments, CreatedAt: m.CreatedAt,
	})
}

func (s *Server) listChatMessages(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	actor, err := s.chatActor(c, id, c.Query("phone"))
	if err != nil {
		writeError(c, err)
		return
	}
	t, err := services.EnsureThread(c.Request.Context(), actor, id, c.Param("channel"))
	if err != nil {
		writeError(c, err)
		return
	}
	msgs, err := services.ListMessages(c.Request.Context(), actor, t.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"thread_id":           t.ID,
		"channel":             t.Channel,
		"unread_for_customer": t.UnreadForCustomer,
		"unread_for_admin":    t.UnreadForAdmin,
		"messages":            viewMessages(msgs),
	})
}
