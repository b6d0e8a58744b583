package models

import "time"

const (
	ChatChannelCustomer = "customer"
	ChatChannelRider    = "rider"
)

const (
	SenderCustomer = "customer"
	SenderAdmin    = "admin"
	SenderRider    = "rider"
	SenderSystem   = "system"
)

// ChatThread is one conversation per (order_id, channel) pair.
type ChatThread struct {
	ID                 int64
	OrderID            int64
	Channel            string
	CreatedBy          string
	LastMessageAt      *time.Time
	LastMessagePreview string
	UnreadForCustomer  bool
	UnreadForAdmin     bool
	CreatedAt          time.Time
}

// ChatMessage is immutable once created.
type ChatMessage struct {
	ID          int64
	ThreadID    int64
	SenderType  string
	Body        string
	Attachments []string
	CreatedAt   time.Time
}
