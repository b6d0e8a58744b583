package services

import (
	"context"
	"errors"
	"strings"

	"foodhub/db"
	"foodhub/models"

	"github.com/jackc/pgx/v5"
)

const (
	maxMessageLen = 2000
	previewLen    = 120
)

func validChatChannel(c string) bool {
	return c == models.ChatChannelCustomer || c == models.ChatChannelRider
}

// chatAccess gates a thread by both the channel and the order: riders must
// be assigned to the order, customers must hold its phone. A customer
// mismatch reads as not found so existence is not leaked.
func chatAccess(actor Actor, o *models.Order, channel string) error {
	if !actor.CanPostToThread(channel) {
		return unauthorizedErr("you cannot access this chat channel")
	}
	if actor.CanViewOrder(o) {
		return nil
	}
	if actor.Type == ActorCustomer {
		return notFoundErr("order not found")
	}
	return unauthorizedErr("order is not assigned to you")
}

// EnsureThread returns the thread for (orderID, channel), creating it on
// first access. The unique key makes concurrent creators converge on one
// row; the no-op DO UPDATE lets the insert return the existing id.
func EnsureThread(ctx context.Context, actor Actor, orderID int64, channel string) (*models.ChatThread, error) {
	if !validChatChannel(channel) {
		return nil, validationErr("unknown chat channel %q", channel)
	}
	o, err := GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFoundErr("order not found")
	}
	if err := chatAccess(actor, o, channel); err != nil {
		return nil, err
	}

	var t models.ChatThread
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO order_chat_threads (order_id, channel, created_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id, channel) DO UPDATE SET order_id = EXCLUDED.order_id
		RETURNING id, order_id, channel, created_by, last_message_at,
		          COALESCE(last_message_preview, ''), unread_for_customer, unread_for_admin, created_at`,
		orderID, channel, actor.SenderType(),
	).Scan(&t.ID, &t.OrderID, &t.Channel, &t.CreatedBy, &t.LastMessageAt,
		&t.LastMessagePreview, &t.UnreadForCustomer, &t.UnreadForAdmin, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetThread loads a thread by id. Returns (nil, nil) when missing.
func GetThread(ctx context.Context, threadID int64) (*models.ChatThread, error) {
	var t models.ChatThread
	err := db.Pool.QueryRow(ctx, `
		SELECT id, order_id, channel, created_by, last_message_at,
		       COALESCE(last_message_preview, ''), unread_for_customer, unread_for_admin, created_at
		FROM order_chat_threads WHERE id = $1`,
		threadID,
	).Scan(&t.ID, &t.OrderID, &t.Channel, &t.CreatedBy, &t.LastMessageAt,
		&t.LastMessagePreview, &t.UnreadForCustomer, &t.UnreadForAdmin, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// AppendMessage adds a message and updates the thread summary in one
// transaction: last_message fields move forward, the other party's unread
// flag flips on and the sender's own flag clears.
func AppendMessage(ctx context.Context, actor Actor, threadID int64, text string, attachments []string) (*models.ChatMessage, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, validationErr("message text must not be empty")
	}
	body = truncateRunes(body, maxMessageLen)

	t, err := GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFoundErr("chat thread not found")
	}
	o, err := GetOrder(ctx, t.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFoundErr("order not found")
	}
	if err := chatAccess(actor, o, t.Channel); err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	m := &models.ChatMessage{ThreadID: threadID, SenderType: actor.SenderType(), Body: body, Attachments: attachments}
	err = tx.QueryRow(ctx, `
		INSERT INTO order_chat_messages (thread_id, sender_type, body, attachments)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		threadID, m.SenderType, body, attachments,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	fromAdmin := m.SenderType == models.SenderAdmin
	_, err = tx.Exec(ctx, `
		UPDATE order_chat_threads
		SET last_message_at = now(),
		    last_message_preview = $1,
		    unread_for_customer = $2,
		    unread_for_admin = $3
		WHERE id = $4`,
		truncateRunes(body, previewLen), fromAdmin, !fromAdmin, threadID,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns a thread's messages oldest first and clears the
// reader's unread flag as a read receipt.
func ListMessages(ctx context.Context, actor Actor, threadID int64) ([]models.ChatMessage, error) {
	t, err := GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFoundErr("chat thread not found")
	}
	o, err := GetOrder(ctx, t.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, notFoundErr("order not found")
	}
	if err := chatAccess(actor, o, t.Channel); err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, thread_id, sender_type, body, COALESCE(attachments, '{}'::text[]), created_at
		FROM order_chat_messages
		WHERE thread_id = $1
		ORDER BY id`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderType, &m.Body, &m.Attachments, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	flag := "unread_for_customer"
	if actor.Type == ActorAdmin {
		flag = "unread_for_admin"
	}
	_, err = db.Pool.Exec(ctx,
		`UPDATE order_chat_threads SET `+flag+` = false WHERE id = $1`, threadID)
	if err != nil {
		return nil, err
	}
	return res, nil
}
