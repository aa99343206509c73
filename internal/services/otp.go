package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

const (
	// DefaultOTPTTL is how long an issued code stays claimable.
	DefaultOTPTTL = 5 * time.Minute
	// DefaultVerificationTokenTTL bounds the receipt returned by Verify.
	DefaultVerificationTokenTTL = 15 * time.Minute
	// DefaultSendTimeout bounds a single delivery attempt.
	DefaultSendTimeout = 15 * time.Second

	otpDigits = 6
)

// OTPConfig tunes OTPService. Zero durations fall back to the defaults.
type OTPConfig struct {
	TTL         time.Duration
	TokenTTL    time.Duration
	SendTimeout time.Duration
	JWTSecret   string
}

// OTPService issues and verifies single-use email codes.
type OTPService struct {
	otps     OTPStore
	notifier Notifier
	cfg      OTPConfig
	log      *zap.Logger
	now      func() time.Time
	codeGen  func() (string, error)
}

// NewOTPService constructs OTPService. A nil notifier leaves delivery to the
// caller, who receives the code in IssueResult.
func NewOTPService(otps OTPStore, notifier Notifier, cfg OTPConfig, logger *zap.Logger) *OTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultOTPTTL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultVerificationTokenTTL
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	return &OTPService{
		otps:     otps,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.Named("otp"),
		now:      time.Now,
		codeGen:  randomCode,
	}
}

// IssueResult describes a freshly issued OTP. Delivered is false when the
// notifier was absent or failed; the code is still valid.
type IssueResult struct {
	OTPID     uuid.UUID `json:"otp_id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Delivered bool      `json:"delivered"`
}

// VerifyResult is returned for a successful verification.
type VerifyResult struct {
	OTPID uuid.UUID `json:"otp_id"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

// Issue stores a new code for email and tries to deliver it within
// SendTimeout. Earlier codes for the same email remain valid.
func (s *OTPService) Issue(ctx context.Context, email string) (*IssueResult, error) {
	code, err := s.codeGen()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	otp := &models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	otp.CreatedAt = now
	if err := s.otps.Create(ctx, otp); err != nil {
		return nil, err
	}

	result := &IssueResult{
		OTPID:     otp.ID,
		Email:     email,
		Code:      code,
		ExpiresAt: otp.ExpiresAt,
	}
	if s.notifier == nil {
		return result, nil
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	if err := s.notifier.Send(sendCtx, email, code, otp.ID); err != nil {
		s.log.Warn("otp delivery failed", zap.Stringer("otp_id", otp.ID), zap.Error(err))
		return result, nil
	}
	result.Delivered = true
	return result, nil
}

// Verify claims the OTP. Every failure reason is reported as the same
// InvalidArgument error.
func (s *OTPService) Verify(ctx context.Context, otpID uuid.UUID, code string) (*VerifyResult, error) {
	now := s.now().UTC()

	email, ok, err := s.otps.Claim(ctx, otpID, code, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidArgument(apperr.ErrMsgInvalidOTP)
	}

	token, err := utils.GenerateVerificationToken(s.cfg.JWTSecret, email, otpID, now, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("otp verified", zap.Stringer("otp_id", otpID))
	return &VerifyResult{OTPID: otpID, Email: email, Token: token}, nil
}

func randomCode() (string, error) {
	buf := make([]byte, otpDigits)
	ten := big.NewInt(10)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
