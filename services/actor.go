package services

import (
	"strings"

	"foodhub/models"
)

type ActorType string

const (
	ActorCustomer ActorType = "customer"
	ActorRider    ActorType = "rider"
	ActorAdmin    ActorType = "admin"
	ActorSystem   ActorType = "system"
)

// Actor is the caller identity established by the transport layer.
// Services check capability through Actor instead of looking at tokens.
type Actor struct {
	Type    ActorType
	Phone   string // customer actors
	RiderID string // rider actors
	AdminID string // admin actors (identity provider subject)
}

func CustomerActor(phone string) Actor {
	return Actor{Type: ActorCustomer, Phone: strings.TrimSpace(phone)}
}

func RiderActor(riderID string) Actor {
	return Actor{Type: ActorRider, RiderID: riderID}
}

func AdminActor(adminID string) Actor {
	return Actor{Type: ActorAdmin, AdminID: adminID}
}

func SystemActor() Actor {
	return Actor{Type: ActorSystem}
}

// CanManageOrders covers staff actions: advancing status, assigning riders,
// recording payments, issuing invoices.
func (a Actor) CanManageOrders() bool {
	return a.Type == ActorAdmin
}

// CanDeliver reports whether the actor may complete delivery of o.
// Only the assigned rider qualifies; a mismatched rider is an authorization
// failure, not a state error.
func (a Actor) CanDeliver(o *models.Order) bool {
	if a.Type != ActorRider || o.RiderID == nil {
		return false
	}
	return *o.RiderID == a.RiderID
}

// CanViewOrder reports whether the actor may read o. Customers must present
// the phone the order was placed with.
func (a Actor) CanViewOrder(o *models.Order) bool {
	switch a.Type {
	case ActorAdmin, ActorSystem:
		return true
	case ActorRider:
		return o.RiderID != nil && *o.RiderID == a.RiderID
	case ActorCustomer:
		return a.Phone != "" && a.Phone == strings.TrimSpace(o.Phone)
	}
	return false
}

// CanPostToThread reports whether the actor may write to a chat channel.
// Riders only participate in the rider channel; customers only in theirs.
func (a Actor) CanPostToThread(channel string) bool {
	switch a.Type {
	case ActorAdmin, ActorSystem:
		return true
	case ActorCustomer:
		return channel == models.ChatChannelCustomer
	case ActorRider:
		return channel == models.ChatChannelRider
	}
	return false
}

// SenderType maps the actor onto the chat sender_type enum.
func (a Actor) SenderType() string {
	switch a.Type {
	case ActorAdmin:
		return models.SenderAdmin
	case ActorRider:
		return models.SenderRider
	case ActorSystem:
		return models.SenderSystem
	default:
		return models.SenderCustomer
	}
}
