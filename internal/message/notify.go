package message

import (
	"context"
	"unicode/utf8"

	"github.com/dmitrymomot/bookspace/internal/notification"
)

// Dispatcher is the part of notification.Dispatcher used here.
type Dispatcher interface {
	Dispatch(ctx context.Context, p notification.CreateParams, sendEmail bool) notification.Result
}

const previewLen = 140

// NotifyRecipient returns an AfterCreate hook that pushes a "message"
// notification to the recipient without email. Dispatch failures are
// logged by the dispatcher and never fail the request.
func NotifyRecipient(d Dispatcher) func(ctx context.Context, m *Message) {
	return func(ctx context.Context, m *Message) {
		d.Dispatch(ctx, notification.CreateParams{
			UserID:  m.Recipient,
			Title:   "New message",
			Message: preview(m.Body),
			Type:    notification.CategoryMessage,
			Target:  &notification.TargetRef{Kind: notification.TargetMessage, ID: m.ID},
			Link:    "/messages/" + m.ID.Hex(),
		}, false)
	}
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLen {
		return body
	}
	r := []rune(body)
	return string(r[:previewLen-1]) + "…"
}
