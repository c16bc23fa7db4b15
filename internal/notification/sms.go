package notification

import (
	"context"
	"log/slog"
)

// SMSSender delivers one text message.
type SMSSender interface {
	Send(ctx context.Context, phone, body string) error
}

// SimulatedSMSSender logs messages instead of sending them. There is no real
// SMS provider behind this service yet.
type SimulatedSMSSender struct {
	logger *slog.Logger
}

// NewSimulatedSMSSender constructs the simulated SMS sender.
func NewSimulatedSMSSender(logger *slog.Logger) *SimulatedSMSSender {
	return &SimulatedSMSSender{logger: logger}
}

func (s *SimulatedSMSSender) Send(ctx context.Context, phone, body string) error {
	s.logger.InfoContext(ctx, "sms (simulated)",
		"phone", phone,
		"body", body,
	)
	return nil
}
