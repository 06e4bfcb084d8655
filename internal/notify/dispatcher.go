package notify

import (
	"context"

	"github.com/sirupsen/logrus"
	"webstarter-backend/internal/logger"
	"webstarter-backend/internal/mailer"
)

// Event names one notification to produce: a confirmation after
// intake, or a status change.
type Event struct {
	Kind       mailer.EventKind
	To         string
	ClientName string
	Status     string
	ProjectID  string
}

// Result is a value, never a raised error: notification delivery is a
// best-effort side effect and must not unwind the workflow that
// triggered it.
type Result struct {
	Attempted  bool
	Sent       bool
	DeliveryID string
	Reason     mailer.Reason
	Err        string
}

func (r Result) Warning() string {
	if !r.Attempted || r.Sent {
		return ""
	}
	return "notification could not be delivered (" + string(r.Reason) + ")"
}

// MailSender is the email transport contract consumed here.
type MailSender interface {
	Send(to, subject, htmlBody, textBody string) (string, error)
}

// AdminPusher fans a push notification out to registered admin devices.
type AdminPusher interface {
	Broadcast(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

type TokenLister interface {
	ListDeviceTokens() ([]string, error)
}

type Dispatcher struct {
	mail   MailSender
	pusher AdminPusher
	tokens TokenLister
}

// NewDispatcher builds the dispatch boundary. pusher and tokens may be
// nil when push is not configured; email-only dispatch still works.
func NewDispatcher(mail MailSender, pusher AdminPusher, tokens TokenLister) *Dispatcher {
	return &Dispatcher{
		mail:   mail,
		pusher: pusher,
		tokens: tokens,
	}
}

// Dispatch resolves the event's template and attempts email delivery.
// Failures are folded into the Result; the caller decides whether to
// surface a warning.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) Result {
	subject, textBody, err := mailer.Resolve(event.Kind, event.ClientName, event.Status)
	if err != nil {
		return Result{Attempted: true, Reason: mailer.ReasonUnknown, Err: err.Error()}
	}

	htmlBody := mailer.RenderHTML(textBody)

	deliveryID, err := d.mail.Send(event.To, subject, htmlBody, textBody)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"project_id": event.ProjectID,
			"kind":       string(event.Kind),
			"reason":     string(mailer.ReasonOf(err)),
			"error":      err.Error(),
		}).Warn("notification delivery failed")

		return Result{
			Attempted: true,
			Reason:    mailer.ReasonOf(err),
			Err:       err.Error(),
		}
	}

	return Result{Attempted: true, Sent: true, DeliveryID: deliveryID}
}

// NotifyAdmins pushes an alert to every registered admin device.
// Entirely best-effort: missing push config or an empty token list is
// a no-op, delivery errors are logged and dropped.
func (d *Dispatcher) NotifyAdmins(ctx context.Context, title, body string, data map[string]string) {
	if d.pusher == nil || d.tokens == nil {
		return
	}

	tokens, err := d.tokens.ListDeviceTokens()
	if err != nil {
		logger.Error(err, "failed to load admin device tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}

	if err := d.pusher.Broadcast(ctx, tokens, title, body, data); err != nil {
		logger.Error(err, "admin push notification failed")
	}
}
