package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"webstarter-backend/internal/mailer"
	"webstarter-backend/internal/models"
)

type fakeMail struct {
	sent []string
	err  error
}

func (m *fakeMail) Send(to, subject, htmlBody, textBody string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, to)
	return "msg-1", nil
}

type fakePusher struct {
	calls  int
	tokens []string
	err    error
}

func (p *fakePusher) Broadcast(_ context.Context, tokens []string, title, body string, data map[string]string) error {
	p.calls++
	p.tokens = tokens
	return p.err
}

type fakeTokens struct {
	tokens []string
	err    error
}

func (t *fakeTokens) ListDeviceTokens() ([]string, error) {
	return t.tokens, t.err
}

func TestDispatch_Success(t *testing.T) {
	mail := &fakeMail{}
	d := NewDispatcher(mail, nil, nil)

	result := d.Dispatch(context.Background(), Event{
		Kind:       mailer.EventConfirmation,
		To:         "marie@example.com",
		ClientName: "Marie",
	})

	assert.True(t, result.Attempted)
	assert.True(t, result.Sent)
	assert.Equal(t, "msg-1", result.DeliveryID)
	assert.Empty(t, result.Warning())
	assert.Equal(t, []string{"marie@example.com"}, mail.sent)
}

func TestDispatch_ConfigurationMissingIsAValueNotAPanic(t *testing.T) {
	mail := mailer.New("smtp.example.com", "587", "", "")
	d := NewDispatcher(mail, nil, nil)

	result := d.Dispatch(context.Background(), Event{
		Kind:       mailer.EventConfirmation,
		To:         "marie@example.com",
		ClientName: "Marie",
	})

	assert.True(t, result.Attempted)
	assert.False(t, result.Sent)
	assert.Equal(t, mailer.ReasonConfigMissing, result.Reason)
	assert.Contains(t, result.Warning(), "configuration_missing")
}

func TestDispatch_TransportFailureClassified(t *testing.T) {
	mail := &fakeMail{err: &mailer.SendError{Reason: mailer.ReasonConnection, Err: errors.New("dial tcp: timeout")}}
	d := NewDispatcher(mail, nil, nil)

	result := d.Dispatch(context.Background(), Event{
		Kind:   mailer.EventStatusChange,
		To:     "marie@example.com",
		Status: models.StatusAcceptee,
	})

	assert.True(t, result.Attempted)
	assert.False(t, result.Sent)
	assert.Equal(t, mailer.ReasonConnection, result.Reason)
	assert.NotEmpty(t, result.Err)
}

func TestDispatch_UnknownStatusUsesFallbackTemplate(t *testing.T) {
	mail := &fakeMail{}
	d := NewDispatcher(mail, nil, nil)

	result := d.Dispatch(context.Background(), Event{
		Kind:   mailer.EventStatusChange,
		To:     "marie@example.com",
		Status: "statut_inconnu",
	})

	assert.True(t, result.Sent, "an unrecognized status must never break dispatch")
}

func TestNotifyAdmins_NoPusherIsNoop(t *testing.T) {
	d := NewDispatcher(&fakeMail{}, nil, &fakeTokens{tokens: []string{"tok-1"}})

	// Must not panic
	d.NotifyAdmins(context.Background(), "titre", "corps", nil)
}

func TestNotifyAdmins_EmptyTokenListSkipsBroadcast(t *testing.T) {
	pusher := &fakePusher{}
	d := NewDispatcher(&fakeMail{}, pusher, &fakeTokens{})

	d.NotifyAdmins(context.Background(), "titre", "corps", nil)

	assert.Zero(t, pusher.calls)
}

func TestNotifyAdmins_BroadcastsToAllTokens(t *testing.T) {
	pusher := &fakePusher{}
	d := NewDispatcher(&fakeMail{}, pusher, &fakeTokens{tokens: []string{"tok-1", "tok-2"}})

	d.NotifyAdmins(context.Background(), "titre", "corps", map[string]string{"project_id": "p-1"})

	assert.Equal(t, 1, pusher.calls)
	assert.Equal(t, []string{"tok-1", "tok-2"}, pusher.tokens)
}

func TestNotifyAdmins_DeliveryErrorSwallowed(t *testing.T) {
	pusher := &fakePusher{err: errors.New("fcm unreachable")}
	d := NewDispatcher(&fakeMail{}, pusher, &fakeTokens{tokens: []string{"tok-1"}})

	// Best-effort: the error is logged, never returned
	d.NotifyAdmins(context.Background(), "titre", "corps", nil)
	assert.Equal(t, 1, pusher.calls)
}

func TestResult_Warning(t *testing.T) {
	assert.Empty(t, Result{}.Warning(), "not attempted means nothing to warn about")
	assert.Empty(t, Result{Attempted: true, Sent: true}.Warning())
	assert.Equal(t,
		"notification could not be delivered (authentication_failure)",
		Result{Attempted: true, Reason: mailer.ReasonAuth}.Warning())
}
