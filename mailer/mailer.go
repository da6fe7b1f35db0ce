package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/models"
	templates "github.com/linesmerrill/festival-registration-api/templates/html"
)

// Subject of the confirmation email
const Subject = "Jesus Festival Registration Confirmation"

// MaxRetries is how many times a failed send is retried
const MaxRetries = 3

// Client is the part of the SendGrid client the Mailer uses
type Client interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends confirmation emails through SendGrid
type Mailer struct {
	client   Client
	from     *mail.Email
	newRetry func() backoff.BackOff
}

// New returns a Mailer backed by the SendGrid API
func New(apiKey, fromName, fromEmail string) *Mailer {
	return NewWithClient(sendgrid.NewSendClient(apiKey), fromName, fromEmail)
}

// NewWithClient returns a Mailer using the given client
func NewWithClient(client Client, fromName, fromEmail string) *Mailer {
	return &Mailer{
		client: client,
		from:   mail.NewEmail(fromName, fromEmail),
		newRetry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 0
			return backoff.WithMaxRetries(b, MaxRetries)
		},
	}
}

// SendConfirmation emails the registrant their registration id with the QR
// code attached inline
func (m *Mailer) SendConfirmation(ctx context.Context, reg models.Registrant, qrPNG []byte) error {
	message := NewConfirmationMessage(m.from, reg, qrPNG)

	attempt := 0
	op := func() error {
		attempt++
		response, err := m.client.SendWithContext(ctx, message)
		if err != nil {
			zap.S().Warnw("failed to send email", "error", err, "to", reg.Email, "attempt", attempt)
			return err
		}
		if response.StatusCode >= 400 {
			zap.S().Warnw("sendgrid returned error status",
				"status", response.StatusCode,
				"body", response.Body,
				"to", reg.Email,
				"attempt", attempt,
			)
			err := fmt.Errorf("sendgrid error: status %d", response.StatusCode)
			if !retryable(response.StatusCode) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	return backoff.Retry(op, backoff.WithContext(m.newRetry(), ctx))
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// NewConfirmationMessage builds the confirmation email for reg
func NewConfirmationMessage(from *mail.Email, reg models.Registrant, qrPNG []byte) *mail.SGMailV3 {
	data := templates.RegistrationConfirmationData{
		FullName:       reg.FullName,
		RegistrationID: reg.RegistrationID,
	}
	to := mail.NewEmail(reg.FullName, reg.Email)
	message := mail.NewSingleEmail(from, Subject, to,
		templates.RenderRegistrationConfirmationText(data),
		templates.RenderRegistrationConfirmationEmail(data),
	)

	if len(qrPNG) > 0 {
		qr := mail.NewAttachment()
		qr.SetContent(base64.StdEncoding.EncodeToString(qrPNG))
		qr.SetType("image/png")
		qr.SetFilename("qr_code.png")
		qr.SetDisposition("inline")
		qr.SetContentID(templates.QRContentID)
		message.AddAttachment(qr)
	}
	return message
}

// LogSender stands in for the Mailer when no SendGrid key is configured
type LogSender struct{}

// SendConfirmation logs the email instead of sending it
func (LogSender) SendConfirmation(ctx context.Context, reg models.Registrant, qrPNG []byte) error {
	zap.S().Warnw("SENDGRID_API_KEY not set, skipping confirmation email",
		"to", reg.Email,
		"registrationId", reg.RegistrationID,
		"qrBytes", len(qrPNG),
	)
	return nil
}
