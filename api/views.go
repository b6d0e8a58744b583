package api

import (
	"time"

	"foodhub/models"
)

// orderView is the wire shape of an order.
type orderView struct {
	ID          int64  `json:"id"`
	Channel     string `json:"channel"`
	ServiceMode string `json:"service_mode"`
	Status      string `json:"status"`

	CustomerName string  `json:"customer_name,omitempty"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address,omitempty"`
	DistanceKm   float64 `json:"distance_km,omitempty"`
	TableNumber  string  `json:"table_number,omitempty"`
	TokenNumber  string  `json:"token_number,omitempty"`

	SubTotal       int64  `json:"sub_total"`
	DeliveryFee    int64  `json:"delivery_fee"`
	DiscountAmount int64  `json:"discount_amount"`
	TaxAmount      int64  `json:"tax_amount"`
	TotalPrice     int64  `json:"total_price"`
	AmountPaid     int64  `json:"amount_paid"`
	AmountDue      int64  `json:"amount_due"`
	PromoCode      string `json:"promo_code,omitempty"`

	RiderID       *string `json:"rider_id,omitempty"`
	ReceiptNumber string  `json:"receipt_number,omitempty"`

	RatingStars    *int   `json:"rating_stars,omitempty"`
	RatingDelivery *int   `json:"rating_delivery,omitempty"`
	RatingQuality  *int   `json:"rating_quality,omitempty"`
	RatingComment  string `json:"rating_comment,omitempty"`

	CreatedAt         time.Time  `json:"created_at"`
	ReadyAt           *time.Time `json:"ready_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	PaymentReceivedAt *time.Time `json:"payment_received_at,omitempty"`
}

func viewOrder(o *models.Order) orderView {
	return orderView{
		ID:          o.ID,
		Channel:     o.Channel,
		ServiceMode: o.ServiceMode,
		Status:      o.Status,

		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		DistanceKm:   o.DistanceKm,
		TableNumber:  o.TableNumber,
		TokenNumber:  o.TokenNumber,

		SubTotal:       o.SubTotal,
		DeliveryFee:    o.DeliveryFee,
		DiscountAmount: o.DiscountAmount,
		TaxAmount:      o.TaxAmount,
		TotalPrice:     o.TotalPrice,
		AmountPaid:     o.AmountPaid,
		AmountDue:      o.AmountDue,
		PromoCode:      o.PromoCode,

		RiderID:       o.RiderID,
		ReceiptNumber: o.ReceiptNumber,

		RatingStars:    o.RatingStars,
		RatingDelivery: o.RatingDelivery,
		RatingQuality:  o.RatingQuality,
		RatingComment:  o.RatingComment,

		CreatedAt:         o.CreatedAt,
		ReadyAt:           o.ReadyAt,
		DeliveredAt:       o.DeliveredAt,
		PaymentReceivedAt: o.PaymentReceivedAt,
	}
}

func viewOrders(orders []models.Order) []orderView {
	res := make([]orderView, len(orders))
	for i := range orders {
		res[i] = viewOrder(&orders[i])
	}
	return res
}

type messageView struct {
	ID          int64     `json:"id"`
	SenderType  string    `json:"sender_type"`
	Body        string    `json:"body"`
	Attachments []string  `json:"attachments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func viewMessages(msgs []models.ChatMessage) []messageView {
	res := make([]messageView, len(msgs))
	for i, m := range msgs {
		res[i] = messageView{ID: m.ID, SenderType: m.SenderType, Body: m.Body, Attachments: m.Attachments, CreatedAt: m.CreatedAt}
	}
	return res
}
