package mailer

import (
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// Reason classifies why a send did not happen. Callers branch on it
// to tell an operational problem from a missing credential.
type Reason string

const (
	ReasonConfigMissing Reason = "configuration_missing"
	ReasonAuth          Reason = "authentication_failure"
	ReasonConnection    Reason = "connection_failure"
	ReasonUnknown       Reason = "unknown"
)

type SendError struct {
	Reason Reason
	Err    error
}

func (e *SendError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the classification from an error returned by
// Send, defaulting to unknown.
func ReasonOf(err error) Reason {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Reason
	}
	return ReasonUnknown
}

type Client struct {
	host     string
	port     string
	from     string
	password string
}

func New(host, port, from, password string) *Client {
	return &Client{
		host:     host,
		port:     port,
		from:     from,
		password: password,
	}
}

// Send delivers one message with an HTML body and a plain-text
// fallback. It returns a locally generated delivery identifier; SMTP
// gives none back.
func (c *Client) Send(to, subject, htmlBody, textBody string) (string, error) {
	if c.from == "" {
		return "", &SendError{Reason: ReasonConfigMissing, Err: errors.New("SMTP_FROM is not set")}
	}
	if c.password == "" {
		return "", &SendError{Reason: ReasonConfigMissing, Err: errors.New("SMTP_PASSWORD is not set")}
	}

	messageID := uuid.NewString()
	message := c.buildMessage(to, subject, htmlBody, textBody, messageID)

	auth := smtp.PlainAuth("", c.from, c.password, c.host)
	err := smtp.SendMail(c.host+":"+c.port, auth, c.from, []string{to}, message)
	if err != nil {
		return "", &SendError{Reason: classify(err), Err: err}
	}

	return messageID, nil
}

func (c *Client) buildMessage(to, subject, htmlBody, textBody, messageID string) []byte {
	boundary := "webstarter-" + messageID

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Message-ID: <%s@webstarter>\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

func classify(err error) Reason {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ReasonConnection
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "535") || strings.Contains(msg, "auth"):
		return ReasonAuth
	case strings.Contains(msg, "dial") || strings.Contains(msg, "connection"):
		return ReasonConnection
	default:
		return ReasonUnknown
	}
}
