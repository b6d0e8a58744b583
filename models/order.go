package models

import "time"

// Order is a row from the orders table. Monetary fields are whole currency
// units; total_price = sub_total + delivery_fee + tax_amount - discount_amount.
type Order struct {
	ID          int64
	Channel     string // online | walk_in | dine_in | takeaway
	ServiceMode string // delivery | pickup | dine_in
	Status      string

	CustomerName string
	Phone        string
	Address      string
	Lat          *float64
	Lng          *float64
	DistanceKm   float64
	TableNumber  string
	TokenNumber  string

	SubTotal       int64
	DeliveryFee    int64
	DiscountAmount int64
	TaxAmount      int64
	TotalPrice     int64
	AmountPaid     int64
	AmountDue      int64
	PromoCode      string

	RiderID       *string
	ReceiptNumber string

	RatingStars    *int
	RatingDelivery *int
	RatingQuality  *int
	RatingComment  string
	RatedAt        *time.Time

	CreatedAt         time.Time
	ReadyAt           *time.Time
	DeliveredAt       *time.Time
	PaymentReceivedAt *time.Time
}

type OrderItemInput struct {
	Name      string
	UnitPrice int64
	Qty       int
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	Name      string
	UnitPrice int64
	Qty       int
	LineTotal int64
}

type CreateOrderInput struct {
	Channel      string
	ServiceMode  string
	CustomerName string
	Phone        string
	Address      string
	Lat          *float64
	Lng          *float64
	TableNumber  string
	TokenNumber  string
	Items        []OrderItemInput
	PromoCode    string
	AmountPaid   int64
}

// Quote is the priced breakdown for a checkout before the order exists.
type Quote struct {
	SubTotal       int64
	DistanceKm     float64
	DeliveryFee    int64
	DiscountAmount int64
	DiscountSource string // promo | first_order | happy_hour | ""
	TaxAmount      int64
	TotalPrice     int64
}

type Payment struct {
	ID        string
	OrderID   int64
	Amount    int64
	Method    string // cash | card | online
	Channel   string // pos | online
	CreatedAt time.Time
}

type DailyStats struct {
	OrdersCount     int
	DeliveredCount  int
	ItemsRevenue    int64
	DeliveryRevenue int64
	DiscountTotal   int64
	Collected       int64
}
