package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/bookspace/internal/user"
	"github.com/dmitrymomot/bookspace/pkg/email"
	"github.com/dmitrymomot/bookspace/pkg/logger"
)

// Event is the real-time event name every notification is pushed under.
const Event = "notification"

// Emitter pushes a named event to every live connection of a user. A user
// without connections is not an error.
type Emitter interface {
	Emit(ctx context.Context, userID string, event string, payload any) error
}

// Result reports the outcome of Dispatch. Err carries the persistence
// failure, if any, for callers that map it to a status code.
type Result struct {
	Success      bool          `json:"success"`
	Notification *Notification `json:"notification,omitempty"`
	Message      string        `json:"message"`
	Err          error         `json:"-"`
}

// Dispatcher persists a notification, then pushes it to live connections
// and optionally emails the recipient. Only persistence can fail a dispatch.
type Dispatcher struct {
	store   Store
	emitter Emitter
	users   user.Finder
	mailer  email.EmailSender
	baseURL string
	async   bool
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMailer enables the email step. Both arguments are required.
func WithMailer(users user.Finder, mailer email.EmailSender) DispatcherOption {
	return func(d *Dispatcher) {
		d.users = users
		d.mailer = mailer
	}
}

func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithAsyncEmail moves the email step off the request path. Call Wait
// before exit to drain pending sends.
func WithAsyncEmail() DispatcherOption {
	return func(d *Dispatcher) { d.async = true }
}

// WithBaseURL is prefixed to relative links in emails.
func WithBaseURL(u string) DispatcherOption {
	return func(d *Dispatcher) { d.baseURL = u }
}

// NewDispatcher creates a Dispatcher. A nil emitter disables real-time push.
func NewDispatcher(store Store, emitter Emitter, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:   store,
		emitter: emitter,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logger.Component("notification.dispatcher"))
	return d
}

// Dispatch never returns an error: a failed write yields Success=false,
// and push or email failures are only logged.
func (d *Dispatcher) Dispatch(ctx context.Context, p CreateParams, sendEmail bool) Result {
	n, err := d.store.Create(ctx, p)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification not stored",
			logger.UserID(p.UserID.Hex()),
			logger.Error(err),
		)
		return Result{Message: err.Error(), Err: err}
	}

	d.push(ctx, n)

	if sendEmail {
		if d.async {
			ctx := context.WithoutCancel(ctx)
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				d.email(ctx, n)
			}()
		} else {
			d.email(ctx, n)
		}
	}

	return Result{Success: true, Notification: n, Message: "notification created"}
}

// Wait blocks until asynchronous email sends finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) push(ctx context.Context, n *Notification) {
	if d.emitter == nil {
		return
	}
	if err := d.emitter.Emit(ctx, n.UserID.Hex(), Event, n); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification push failed",
			logger.NotificationID(n.ID.Hex()),
			logger.UserID(n.UserID.Hex()),
			logger.Error(err),
		)
	}
}

var errMailerNotConfigured = errors.New("notification: mailer not configured")

func (d *Dispatcher) email(ctx context.Context, n *Notification) {
	if err := d.sendEmail(ctx, n); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "notification email failed",
			logger.NotificationID(n.ID.Hex()),
			logger.UserID(n.UserID.Hex()),
			logger.Error(err),
		)
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, n *Notification) error {
	if d.mailer == nil || d.users == nil {
		return errMailerNotConfigured
	}
	u, err := d.users.FindByID(ctx, n.UserID)
	if err != nil {
		return err
	}
	params, err := renderEmail(n, u, d.baseURL)
	if err != nil {
		return err
	}
	return d.mailer.SendEmail(ctx, params)
}
