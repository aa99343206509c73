// Package notify delivers OTP codes out of band.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Log writes the code to the application log. It is the fallback channel
// when no external transport is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{log: logger.Named("notify")}
}

func (n *Log) Send(_ context.Context, email, code string, otpID uuid.UUID) error {
	n.log.Info("otp issued",
		zap.String("email", email),
		zap.String("code", code),
		zap.Stringer("otp_id", otpID))
	return nil
}

// messageText is the human-readable body shared by the mail and chat
// channels.
func messageText(email, code string, otpID uuid.UUID, ttl time.Duration) string {
	return fmt.Sprintf(
		"Your verification code for %s is %s.\nReference: %s\nThe code expires in %d minutes and can be used once.",
		email, code, otpID, int(ttl.Minutes()),
	)
}
