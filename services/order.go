package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodhub/config"
	"foodhub/db"
	"foodhub/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	ChannelOnline   = "online"
	ChannelWalkIn   = "walk_in"
	ChannelDineIn   = "dine_in"
	ChannelTakeaway = "takeaway"

	ModeDelivery = "delivery"
	ModePickup   = "pickup"
	ModeDineIn   = "dine_in"
)

const (
	DiscountSourcePromo      = "promo"
	DiscountSourceFirstOrder = "first_order"
	DiscountSourceHappyHour  = "happy_hour"
)

func validChannel(c string) bool {
	switch c {
	case ChannelOnline, ChannelWalkIn, ChannelDineIn, ChannelTakeaway:
		return true
	}
	return false
}

func validServiceMode(m string) bool {
	switch m {
	case ModeDelivery, ModePickup, ModeDineIn:
		return true
	}
	return false
}

// SubTotal sums line items. Inputs must already be validated.
func SubTotal(items []models.OrderItemInput) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitPrice * int64(it.Qty)
	}
	return total
}

func validateOrderInput(in *models.CreateOrderInput) error {
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Phone == "" {
		return validationErr("phone must be provided")
	}
	if !validChannel(in.Channel) {
		return validationErr("unknown order channel %q", in.Channel)
	}
	if !validServiceMode(in.ServiceMode) {
		return validationErr("unknown service mode %q", in.ServiceMode)
	}
	if len(in.Items) == 0 {
		return validationErr("order must contain at least one item")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.Name) == "" {
			return validationErr("item name must not be empty")
		}
		if it.Qty <= 0 {
			return validationErr("item quantity must be positive")
		}
		if it.UnitPrice < 0 {
			return validationErr("item price must not be negative")
		}
	}
	if in.AmountPaid < 0 {
		return validationErr("amount paid must not be negative")
	}
	return nil
}

// QuoteOrder prices a checkout without creating anything. Discount paths
// are mutually exclusive: an explicit promo code wins, otherwise the
// first-order discount, otherwise happy hour.
func QuoteOrder(ctx context.Context, cfg config.PricingConfig, in models.CreateOrderInput, now time.Time) (*models.Quote, error) {
	if err := validateOrderInput(&in); err != nil {
		return nil, err
	}
	q := &models.Quote{SubTotal: SubTotal(in.Items)}

	if in.ServiceMode == ModeDelivery {
		fee, km, err := DeliveryFeeFor(cfg, in.Lat, in.Lng)
		if err != nil {
			return nil, err
		}
		q.DeliveryFee, q.DistanceKm = fee, km
	}

	if code := strings.TrimSpace(in.PromoCode); code != "" {
		d, _, err := ValidatePromo(ctx, code, q.SubTotal, now)
		if err != nil {
			return nil, err
		}
		q.DiscountAmount, q.DiscountSource = d, DiscountSourcePromo
	} else {
		d, err := FirstOrderDiscount(ctx, in.Phone, q.SubTotal, cfg.FirstOrderDiscountPercent)
		if err != nil {
			return nil, err
		}
		if d > 0 {
			q.DiscountAmount, q.DiscountSource = d, DiscountSourceFirstOrder
		} else {
			settings, err := GetBusinessSettings(ctx)
			if err != nil {
				return nil, err
			}
			if d := HappyHourDiscount(now, settings, q.SubTotal); d > 0 {
				q.DiscountAmount, q.DiscountSource = d, DiscountSourceHappyHour
			}
		}
	}

	q.TaxAmount = roundPercent(q.SubTotal, float64(cfg.TaxPercent))
	q.TotalPrice = q.SubTotal + q.DeliveryFee + q.TaxAmount - q.DiscountAmount
	return q, nil
}

// CreateOrder prices the checkout, redeems the promo (if any) and inserts
// the order with its items in one transaction. The order starts in state
// "new".
func CreateOrder(ctx context.Context, cfg config.PricingConfig, actor Actor, in models.CreateOrderInput) (*models.Order, error) {
	now := time.Now()
	q, err := QuoteOrder(ctx, cfg, in, now)
	if err != nil {
		return nil, err
	}
	if in.AmountPaid > q.TotalPrice {
		return nil, validationErr("amount paid exceeds order total")
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	promoCode := ""
	if q.DiscountSource == DiscountSourcePromo {
		promoCode = strings.TrimSpace(in.PromoCode)
		if err := RedeemPromo(ctx, tx, promoCode); err != nil {
			return nil, err
		}
	}

	var distanceKm *float64
	if in.Lat != nil && in.Lng != nil {
		distanceKm = &q.DistanceKm
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			channel, service_mode, status, customer_name, phone, address,
			lat, lng, distance_km, table_number, token_number,
			sub_total, delivery_fee, discount_amount, discount_source, tax_amount,
			total_price, amount_paid, amount_due, promo_code
		) VALUES ($1, $2, $3, $4, $5, NULLIF(TRIM($6), ''),
			$7, $8, $9, NULLIF(TRIM($10), ''), NULLIF(TRIM($11), ''),
			$12, $13, $14, NULLIF($15, ''), $16,
			$17, $18, $19, NULLIF($20, ''))
		RETURNING id`,
		in.Channel, in.ServiceMode, OrderStatusNew, strings.TrimSpace(in.CustomerName), in.Phone, in.Address,
		in.Lat, in.Lng, distanceKm, in.TableNumber, in.TokenNumber,
		q.SubTotal, q.DeliveryFee, q.DiscountAmount, q.DiscountSource, q.TaxAmount,
		q.TotalPrice, in.AmountPaid, q.TotalPrice-in.AmountPaid, promoCode,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	for _, it := range in.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, unit_price, qty, line_total)
			VALUES ($1, $2, $3, $4, $5)`,
			id, strings.TrimSpace(it.Name), it.UnitPrice, it.Qty, it.UnitPrice*int64(it.Qty),
		)
		if err != nil {
			return nil, err
		}
	}

	if err := recordStatusHistory(ctx, tx, id, "", OrderStatusNew, actor); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return GetOrder(ctx, id)
}

const orderColumns = `
	id, channel, service_mode, status, customer_name, phone, COALESCE(address, ''),
	lat, lng, COALESCE(distance_km, 0), COALESCE(table_number, ''), COALESCE(token_number, ''),
	sub_total, delivery_fee, discount_amount, tax_amount, total_price, amount_paid, amount_due,
	COALESCE(promo_code, ''), rider_id, COALESCE(receipt_number, ''),
	rating_stars, rating_delivery, rating_quality, COALESCE(rating_comment, ''), rated_at,
	created_at, ready_at, delivered_at, payment_received_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.Channel, &o.ServiceMode, &o.Status, &o.CustomerName, &o.Phone, &o.Address,
		&o.Lat, &o.Lng, &o.DistanceKm, &o.TableNumber, &o.TokenNumber,
		&o.SubTotal, &o.DeliveryFee, &o.DiscountAmount, &o.TaxAmount, &o.TotalPrice, &o.AmountPaid, &o.AmountDue,
		&o.PromoCode, &o.RiderID, &o.ReceiptNumber,
		&o.RatingStars, &o.RatingDelivery, &o.RatingQuality, &o.RatingComment, &o.RatedAt,
		&o.CreatedAt, &o.ReadyAt, &o.DeliveredAt, &o.PaymentReceivedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrder loads an order by id. Returns (nil, nil) when it does not exist.
func GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// GetOrderForCustomer is the customer-facing lookup. A wrong phone reads
// the same as a missing order so existence is not leaked.
func GetOrderForCustomer(ctx context.Context, id int64, phone string) (*models.Order, error) {
	o, err := GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || strings.TrimSpace(phone) != strings.TrimSpace(o.Phone) {
		return nil, notFoundErr("order not found")
	}
	return o, nil
}

// GetOrderItems returns the line items of an order.
func GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, order_id, name, unit_price, qty, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Name, &it.UnitPrice, &it.Qty, &it.LineTotal); err != nil {
			return nil, err
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

// ListOrders returns orders newest first, optionally filtered by status
// (admin).
func ListOrders(ctx context.Context, status string, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if status != "" && !IsKnownStatus(status) {
		return nil, validationErr("unknown order status %q", status)
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}

// ListRiderOrders returns the rider's undelivered assignments.
func ListRiderOrders(ctx context.Context, riderID string) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE rider_id = $1 AND status IN ($2, $3)
		ORDER BY created_at`, riderID, OrderStatusReady, OrderStatusOnTheWay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}

// AdvanceStatus moves an order one step along the chain (staff action). An
// empty target means the next state in the chain. Dispatching requires an
// assigned rider; delivery orders are completed by the rider, not here.
func AdvanceStatus(ctx context.Context, actor Actor, orderID int64, to string) (*models.Order, error) {
	if !actor.CanManageOrders() {
		return nil, unauthorizedErr("only staff may change order status")
	}
	if to != "" && !IsKnownStatus(to) {
		return nil, validationErr("unknown order status %q", to)
	}
	o, err := GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFoundErr("order not found")
	}
	to, err = advanceTarget(o.Status, to)
	if err != nil {
		return nil, err
	}
	if to == OrderStatusOnTheWay {
		if o.ServiceMode != ModeDelivery {
			return nil, preconditionErr("only delivery orders can be dispatched")
		}
		if o.RiderID == nil {
			return nil, preconditionErr("assign a rider before dispatching")
		}
	}
	if to == OrderStatusDelivered && o.ServiceMode == ModeDelivery {
		return nil, preconditionErr("delivery orders are completed by the assigned rider")
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $1,
		    ready_at = CASE WHEN $1 = 'ready' THEN now() ELSE ready_at END,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN now() ELSE delivered_at END,
		    updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING`+orderColumns,
		to, orderID, o.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, preconditionErr("order status changed concurrently, reload and retry")
		}
		return nil, err
	}
	if err := recordStatusHistory(ctx, tx, orderID, o.Status, to, actor); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignRider attaches a rider to a ready or dispatched order. The guarded
// update prevents double assignment.
func AssignRider(ctx context.Context, actor Actor, orderID int64, riderID string) error {
	if !actor.CanManageOrders() {
		return unauthorizedErr("only staff may assign riders")
	}
	r, err := GetRider(ctx, riderID)
	if err != nil {
		return err
	}
	if r == nil {
		return notFoundErr("rider not found")
	}
	if !r.IsActive {
		return preconditionErr("rider is not active")
	}
	tag, err := db.Pool.Exec(ctx, `
		UPDATE orders
		SET rider_id = $1, updated_at = now()
		WHERE id = $2 AND status IN ($3, $4) AND rider_id IS NULL`,
		riderID, orderID, OrderStatusReady, OrderStatusOnTheWay,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		o, err := GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		switch {
		case o == nil:
			return notFoundErr("order not found")
		case !riderAttachable(o.Status):
			return preconditionErr("riders can only be assigned to ready or dispatched orders")
		default:
			return preconditionErr("order already has a rider")
		}
	}
	return nil
}

// UnassignRider detaches the rider while the order has not been delivered.
func UnassignRider(ctx context.Context, actor Actor, orderID int64) error {
	if !actor.CanManageOrders() {
		return unauthorizedErr("only staff may unassign riders")
	}
	tag, err := db.Pool.Exec(ctx, `
		UPDATE orders
		SET rider_id = NULL, updated_at = now()
		WHERE id = $1 AND rider_id IS NOT NULL AND status IN ($2, $3)`,
		orderID, OrderStatusReady, OrderStatusOnTheWay,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return preconditionErr("order has no removable rider")
	}
	return nil
}

// Deliver is the rider's terminal action. Only the assigned rider, only
// from on_the_way. When payment was collected on the doorstep, any
// shortfall is synthesized as a cash/pos payment record and the order is
// settled in the same transaction.
func Deliver(ctx context.Context, actor Actor, orderID int64, paymentReceived bool) (*models.Order, error) {
	o, err := GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFoundErr("order not found")
	}
	if !actor.CanDeliver(o) {
		return nil, unauthorizedErr("order is not assigned to you")
	}
	if o.Status != OrderStatusOnTheWay {
		return nil, preconditionErr("order is %s, not on_the_way", o.Status)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $1,
		    delivered_at = now(),
		    payment_received_at = CASE WHEN $4 THEN now() ELSE payment_received_at END,
		    updated_at = now()
		WHERE id = $2 AND status = $3 AND rider_id = $5
		RETURNING`+orderColumns,
		OrderStatusDelivered, orderID, OrderStatusOnTheWay, paymentReceived, actor.RiderID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, preconditionErr("order status changed concurrently, reload and retry")
		}
		return nil, err
	}

	if paymentReceived && updated.AmountPaid < updated.TotalPrice {
		shortfall := updated.TotalPrice - updated.AmountPaid
		_, err = tx.Exec(ctx, `
			INSERT INTO order_payments (id, order_id, amount, method, channel)
			VALUES ($1, $2, $3, 'cash', 'pos')`,
			uuid.NewString(), orderID, shortfall,
		)
		if err != nil {
			return nil, err
		}
		updated, err = scanOrder(tx.QueryRow(ctx, `
			UPDATE orders
			SET amount_paid = total_price, amount_due = 0, updated_at = now()
			WHERE id = $1
			RETURNING`+orderColumns,
			orderID,
		))
		if err != nil {
			return nil, err
		}
	}

	if err := recordStatusHistory(ctx, tx, orderID, OrderStatusOnTheWay, OrderStatusDelivered, actor); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func recordStatusHistory(ctx context.Context, tx pgx.Tx, orderID int64, from, to string, actor Actor) error {
	actorID := actor.AdminID
	if actor.Type == ActorRider {
		actorID = actor.RiderID
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, actor_type, actor_id)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)`,
		orderID, from, to, string(actor.Type), actorID,
	)
	return err
}
