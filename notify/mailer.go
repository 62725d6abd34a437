// Package notify emails riders about the challans issued against them.
package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/models"
	templates "github.com/linesmerrill/rider-safety-api/templates/html"
)

type emailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends challan emails through SendGrid. A Mailer built without an
// API key drops every message.
type Mailer struct {
	client emailSender
	from   *mail.Email
}

// NewMailer returns a Mailer for the given settings
func NewMailer(conf config.MailConfig) *Mailer {
	m := &Mailer{from: mail.NewEmail(conf.FromName, conf.From)}
	if conf.SendGridAPIKey == "" {
		zap.S().Warnw("SENDGRID_API_KEY is not set, challan emails are disabled")
		return m
	}
	m.client = sendgrid.NewSendClient(conf.SendGridAPIKey)
	return m
}

// Enabled reports whether messages are actually delivered
func (m *Mailer) Enabled() bool {
	return m != nil && m.client != nil
}

// ChallanIssued tells the rider a challan was issued and why
func (m *Mailer) ChallanIssued(ctx context.Context, rider models.Rider, challan models.Challan, reasons []string) error {
	text, html := templates.RenderChallanIssuedEmail(rider.Name, templates.ChallanLine{
		Amount:   challan.Amount,
		IssuedAt: challan.Date,
		Reasons:  reasons,
	})
	return m.send(rider, templates.ChallanIssuedSubject, text, html)
}

// PendingReminder lists the rider's unpaid challans
func (m *Mailer) PendingReminder(ctx context.Context, rider models.Rider, challans []models.Challan) error {
	if len(challans) == 0 {
		return nil
	}
	lines := make([]templates.ChallanLine, 0, len(challans))
	for _, c := range challans {
		lines = append(lines, templates.ChallanLine{Amount: c.Amount, IssuedAt: c.Date})
	}
	text, html := templates.RenderChallanReminderEmail(rider.Name, lines)
	return m.send(rider, templates.ChallanReminderSubject, text, html)
}

func (m *Mailer) send(rider models.Rider, subject, plainText, htmlContent string) error {
	if !m.Enabled() {
		return nil
	}
	if rider.Email == "" {
		zap.S().Debugw("rider has no email address, skipping", "rider", rider.ID.Hex())
		return nil
	}
	to := mail.NewEmail(rider.Name, rider.Email)
	message := mail.NewSingleEmail(m.from, subject, to, plainText, htmlContent)
	response, err := m.client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send email", "error", err, "to", rider.Email)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", rider.Email)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", rider.Email, "subject", subject)
	return nil
}
