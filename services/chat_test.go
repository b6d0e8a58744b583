package services

import (
	"context"
	"strings"
	"testing"

	"foodhub/config"
	"foodhub/db"
	"foodhub/models"
)

func TestValidChatChannel(t *testing.T) {
	if !validChatChannel(models.ChatChannelCustomer) || !validChatChannel(models.ChatChannelRider) {
		t.Error("customer and rider channels must be valid")
	}
	for _, c := range []string{"", "support", "CUSTOMER"} {
		if validChatChannel(c) {
			t.Errorf("channel %q should be invalid", c)
		}
	}
}

func TestChatAccessByRole(t *testing.T) {
	o := &models.Order{ID: 7, Phone: "+99890", RiderID: strPtr("rider-a")}
	unassigned := &models.Order{ID: 8, Phone: "+99890"}

	tests := []struct {
		name    string
		actor   Actor
		order   *models.Order
		channel string
		want    ErrorKind // "" means allowed
	}{
		{"assigned rider", RiderActor("rider-a"), o, models.ChatChannelRider, ""},
		{"foreign rider", RiderActor("rider-b"), o, models.ChatChannelRider, KindUnauthorized},
		{"rider on unassigned order", RiderActor("rider-a"), unassigned, models.ChatChannelRider, KindUnauthorized},
		{"rider on customer channel", RiderActor("rider-a"), o, models.ChatChannelCustomer, KindUnauthorized},
		{"admin on rider channel", AdminActor("u1"), o, models.ChatChannelRider, ""},
		{"admin on customer channel", AdminActor("u1"), o, models.ChatChannelCustomer, ""},
		{"customer own order", CustomerActor("+99890"), o, models.ChatChannelCustomer, ""},
		{"customer wrong phone", CustomerActor("+99891"), o, models.ChatChannelCustomer, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := chatAccess(tt.actor, tt.order, tt.channel)
			if got := KindOf(err); got != tt.want {
				t.Errorf("chatAccess() error kind = %q (%v), want %q", got, err, tt.want)
			}
		})
	}
}

func TestAppendMessageRejectsEmptyText(t *testing.T) {
	// Trim happens before anything else, so no pool is needed.
	ctx := context.Background()
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := AppendMessage(ctx, CustomerActor("+99890"), 1, text, nil)
		if KindOf(err) != KindValidation {
			t.Errorf("text %q: error kind %q, want validation (%v)", text, KindOf(err), err)
		}
	}
}

func TestMessageTruncatedTo2000(t *testing.T) {
	long := strings.Repeat("m", 5000)
	if got := truncateRunes(long, maxMessageLen); len(got) != 2000 {
		t.Errorf("message truncated to %d chars, want 2000", len(got))
	}
}

// The unread flags are two-sided: an append flips the other party's flag on
// and clears the sender's, and a list call clears the reader's flag.
func TestChatUnreadFlipIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("no database configured")
	}
	ctx := context.Background()
	cfg := config.PricingConfig{FreeRadiusKm: 5, FeePerKm: 30, DefaultDeliveryFee: 50}
	phone := "+998900044556"
	cust := CustomerActor(phone)
	admin := AdminActor("it-admin")

	o, err := CreateOrder(ctx, cfg, cust, models.CreateOrderInput{
		Channel:     ChannelOnline,
		ServiceMode: ModePickup,
		Phone:       phone,
		Items:       []models.OrderItemInput{{Name: "Lagman", UnitPrice: 300, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	th, err := EnsureThread(ctx, cust, o.ID, models.ChatChannelCustomer)
	if err != nil {
		t.Fatalf("EnsureThread: %v", err)
	}
	again, err := EnsureThread(ctx, admin, o.ID, models.ChatChannelCustomer)
	if err != nil {
		t.Fatalf("EnsureThread again: %v", err)
	}
	if again.ID != th.ID {
		t.Fatalf("EnsureThread created a second thread: %d vs %d", again.ID, th.ID)
	}

	if _, err := AppendMessage(ctx, cust, th.ID, "where is my order?", nil); err != nil {
		t.Fatalf("customer AppendMessage: %v", err)
	}
	cur, err := GetThread(ctx, th.ID)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if !cur.UnreadForAdmin || cur.UnreadForCustomer {
		t.Errorf("after customer message: unread_for_admin=%v unread_for_customer=%v, want true/false",
			cur.UnreadForAdmin, cur.UnreadForCustomer)
	}

	if _, err := ListMessages(ctx, admin, th.ID); err != nil {
		t.Fatalf("admin ListMessages: %v", err)
	}
	cur, err = GetThread(ctx, th.ID)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if cur.UnreadForAdmin {
		t.Error("admin read did not clear unread_for_admin")
	}

	if _, err := AppendMessage(ctx, admin, th.ID, "on its way", nil); err != nil {
		t.Fatalf("admin AppendMessage: %v", err)
	}
	cur, err = GetThread(ctx, th.ID)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if !cur.UnreadForCustomer || cur.UnreadForAdmin {
		t.Errorf("after admin reply: unread_for_customer=%v unread_for_admin=%v, want true/false",
			cur.UnreadForCustomer, cur.UnreadForAdmin)
	}
}
