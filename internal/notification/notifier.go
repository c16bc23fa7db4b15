// Package notification delivers best-effort notices to clients over their
// preferred channel. Nothing here can fail a money operation: every error is
// logged and swallowed.
package notification

import (
	"context"
	"log/slog"
	"strings"
	"text/template"

	catalogmodels "fondos/internal/catalog/models"
	clientmodels "fondos/internal/client/models"
	journalmodels "fondos/internal/journal/models"
	id "fondos/pkg/domain"
)

// JournalMarker flips the notification flag on a journal record after a
// successful delivery.
type JournalMarker interface {
	MarkNotified(ctx context.Context, txID id.TransactionID) error
}

// Notifier routes notices to email or SMS per the client's preference.
type Notifier struct {
	email   EmailSender
	sms     SMSSender
	journal JournalMarker
	logger  *slog.Logger
}

// New constructs a notifier. journal may be nil when no record flagging is
// wanted (e.g. welcome notices have no journal record).
func New(email EmailSender, sms SMSSender, journal JournalMarker, logger *slog.Logger) *Notifier {
	return &Notifier{email: email, sms: sms, journal: journal, logger: logger}
}

// NotifyWelcome greets a newly registered client. Always email: the welcome
// carries account details regardless of channel preference.
func (n *Notifier) NotifyWelcome(ctx context.Context, client *clientmodels.Client) {
	body, err := render(welcomeEmail, templateData{Name: client.Name, Balance: client.Balance})
	if err != nil {
		n.logger.ErrorContext(ctx, "render welcome notice", "error", err)
		return
	}
	if err := n.email.Send(ctx, client.Email, "Bienvenido a BTG Pactual Fondos", body); err != nil {
		n.logger.WarnContext(ctx, "welcome notice delivery failed",
			"client_id", client.ID,
			"error", err,
		)
	}
}

// NotifySubscription notifies the client that a subscription committed and
// marks the journal record on success.
func (n *Notifier) NotifySubscription(ctx context.Context, client *clientmodels.Client, fund catalogmodels.Fund, tx journalmodels.Transaction) {
	data := templateData{
		Name:          client.Name,
		FundName:      fund.Name,
		Amount:        tx.Amount,
		Balance:       tx.Metadata.BalanceAfter,
		TransactionID: tx.ID.String(),
	}
	n.deliver(ctx, client, tx.ID, "Suscripcion exitosa", subscriptionEmail, subscriptionSMS, data)
}

// NotifyCancellation notifies the client that a cancellation committed and
// marks the journal record on success.
func (n *Notifier) NotifyCancellation(ctx context.Context, client *clientmodels.Client, fund catalogmodels.Fund, tx journalmodels.Transaction) {
	data := templateData{
		Name:          client.Name,
		FundName:      fund.Name,
		Amount:        tx.Amount,
		Balance:       tx.Metadata.BalanceAfter,
		TransactionID: tx.ID.String(),
	}
	n.deliver(ctx, client, tx.ID, "Cancelacion procesada", cancellationEmail, cancellationSMS, data)
}

func (n *Notifier) deliver(ctx context.Context, client *clientmodels.Client, txID id.TransactionID, subject string, emailTmpl, smsTmpl *template.Template, data templateData) {
	var err error
	switch client.Preference {
	case clientmodels.NotifyBySMS:
		var body string
		if body, err = render(smsTmpl, data); err == nil {
			err = n.sms.Send(ctx, client.Phone, body)
		}
	default:
		var body string
		if body, err = render(emailTmpl, data); err == nil {
			err = n.email.Send(ctx, client.Email, subject, body)
		}
	}
	if err != nil {
		n.logger.WarnContext(ctx, "notice delivery failed",
			"client_id", client.ID,
			"transaction_id", txID,
			"channel", client.Preference,
			"error", err,
		)
		return
	}

	if n.journal != nil {
		if err := n.journal.MarkNotified(ctx, txID); err != nil {
			n.logger.WarnContext(ctx, "mark transaction notified failed",
				"transaction_id", txID,
				"error", err,
			)
		}
	}
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
