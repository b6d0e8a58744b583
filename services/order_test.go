package services

import (
	"context"
	"testing"

	"foodhub/config"
	"foodhub/db"
	"foodhub/models"
)

func TestSubTotal(t *testing.T) {
	items := []models.OrderItemInput{
		{Name: "Lavash", UnitPrice: 250, Qty: 2},
		{Name: "Cola", UnitPrice: 100, Qty: 3},
	}
	if got := SubTotal(items); got != 800 {
		t.Errorf("SubTotal = %d, want 800", got)
	}
	if got := SubTotal(nil); got != 0 {
		t.Errorf("SubTotal(nil) = %d, want 0", got)
	}
}

func TestValidateOrderInput(t *testing.T) {
	valid := func(mutate func(*models.CreateOrderInput)) models.CreateOrderInput {
		in := models.CreateOrderInput{
			Channel:     ChannelOnline,
			ServiceMode: ModeDelivery,
			Phone:       "+998901234567",
			Items:       []models.OrderItemInput{{Name: "Plov", UnitPrice: 400, Qty: 1}},
		}
		if mutate != nil {
			mutate(&in)
		}
		return in
	}

	tests := []struct {
		name    string
		input   models.CreateOrderInput
		wantErr bool
	}{
		{"valid", valid(nil), false},
		{"blank phone", valid(func(in *models.CreateOrderInput) { in.Phone = "   " }), true},
		{"bad channel", valid(func(in *models.CreateOrderInput) { in.Channel = "drive_thru" }), true},
		{"bad mode", valid(func(in *models.CreateOrderInput) { in.ServiceMode = "teleport" }), true},
		{"no items", valid(func(in *models.CreateOrderInput) { in.Items = nil }), true},
		{"zero qty", valid(func(in *models.CreateOrderInput) { in.Items[0].Qty = 0 }), true},
		{"negative price", valid(func(in *models.CreateOrderInput) { in.Items[0].UnitPrice = -1 }), true},
		{"blank item name", valid(func(in *models.CreateOrderInput) { in.Items[0].Name = " " }), true},
		{"negative paid", valid(func(in *models.CreateOrderInput) { in.AmountPaid = -5 }), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOrderInput(&tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOrderInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && KindOf(err) != KindValidation {
				t.Errorf("error kind = %q, want validation", KindOf(err))
			}
		})
	}
}

// Deliver uses UPDATE ... WHERE status = 'on_the_way' AND rider_id = $x, so
// a stale or foreign caller gets a specific rejection instead of a double
// transition.
func TestDeliverGuardsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("no database configured")
	}
	ctx := context.Background()
	admin := AdminActor("it-admin")
	cfg := config.PricingConfig{FreeRadiusKm: 5, FeePerKm: 30, DefaultDeliveryFee: 50}

	riderA, err := CreateRider(ctx, admin, "Guard Rider A", "")
	if err != nil {
		t.Fatalf("CreateRider: %v", err)
	}
	riderB, err := CreateRider(ctx, admin, "Guard Rider B", "")
	if err != nil {
		t.Fatalf("CreateRider: %v", err)
	}

	o, err := CreateOrder(ctx, cfg, CustomerActor("+998900011223"), models.CreateOrderInput{
		Channel:     ChannelOnline,
		ServiceMode: ModeDelivery,
		Phone:       "+998900011223",
		Items:       []models.OrderItemInput{{Name: "Plov", UnitPrice: 400, Qty: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	for _, next := range []string{OrderStatusPreparing, OrderStatusReady} {
		if o, err = AdvanceStatus(ctx, admin, o.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	if err := AssignRider(ctx, admin, o.ID, riderA.ID); err != nil {
		t.Fatalf("AssignRider: %v", err)
	}
	if err := AssignRider(ctx, admin, o.ID, riderB.ID); KindOf(err) != KindPrecondition {
		t.Errorf("double assignment: error kind %q, want precondition (%v)", KindOf(err), err)
	}

	// Not dispatched yet: state error, delivered_at untouched.
	if _, err := Deliver(ctx, RiderActor(riderA.ID), o.ID, false); KindOf(err) != KindPrecondition {
		t.Errorf("deliver from ready: error kind %q, want precondition (%v)", KindOf(err), err)
	}
	got, err := GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.DeliveredAt != nil {
		t.Error("refused deliver stamped delivered_at")
	}

	if o, err = AdvanceStatus(ctx, admin, o.ID, OrderStatusOnTheWay); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if _, err := Deliver(ctx, RiderActor(riderB.ID), o.ID, false); KindOf(err) != KindUnauthorized {
		t.Errorf("foreign rider deliver: error kind %q, want unauthorized (%v)", KindOf(err), err)
	}

	delivered, err := Deliver(ctx, RiderActor(riderA.ID), o.ID, true)
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if delivered.Status != OrderStatusDelivered || delivered.DeliveredAt == nil {
		t.Errorf("status = %s delivered_at = %v, want delivered with stamp", delivered.Status, delivered.DeliveredAt)
	}
	if delivered.AmountPaid != delivered.TotalPrice || delivered.AmountDue != 0 {
		t.Errorf("settlement: paid %d due %d, want paid %d due 0",
			delivered.AmountPaid, delivered.AmountDue, delivered.TotalPrice)
	}
	if delivered.PaymentReceivedAt == nil {
		t.Error("payment_received_at not stamped")
	}
}
