package onboarding

import (
	"context"

	"github.com/propertyhub/backend/internal/domain/onboarding"
	"go.uber.org/zap"
)

// Notifier delivers rendered invitations
type Notifier interface {
	Send(ctx context.Context, invitation onboarding.Invitation) error
}

// LogNotifier writes invitations to the log instead of delivering them
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs each channel of the invitation
func (n *LogNotifier) Send(_ context.Context, inv onboarding.Invitation) error {
	if inv.WantsEmail() {
		n.logger.Info("Onboarding invitation email",
			zap.String("to", inv.Email),
			zap.String("subject", inv.Subject),
			zap.String("body", inv.Body),
		)
	}
	if inv.WantsSMS() {
		n.logger.Info("Onboarding invitation SMS",
			zap.String("to", inv.Phone),
			zap.String("text", inv.SMS),
		)
	}
	return nil
}
