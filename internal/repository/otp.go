package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
)

const otpsTable = "otps"

// OTPRepository is the gorm-backed OTP store.
type OTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository constructs OTPRepository.
func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Create(ctx context.Context, otp *models.OTP) error {
	return storeError(r.db.WithContext(ctx).Create(otp).Error, "insert", otpsTable)
}

// Get returns (nil, nil) when the OTP does not exist.
func (r *OTPRepository) Get(ctx context.Context, id uuid.UUID) (*models.OTP, error) {
	var otp models.OTP
	if err := r.db.WithContext(ctx).First(&otp, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, storeError(err, "select", otpsTable)
	}
	return &otp, nil
}

// Claim flips used to true with a single conditional UPDATE, so of several
// concurrent callers at most one sees a changed row.
func (r *OTPRepository) Claim(ctx context.Context, id uuid.UUID, code string, now time.Time) (string, bool, error) {
	now = now.UTC()
	db := r.db.WithContext(ctx)

	res := db.Model(&models.OTP{}).
		Where("id = ? AND code = ? AND used = ? AND expires_at > ?", id, code, false, now).
		Updates(map[string]interface{}{"used": true, "used_at": now})
	if res.Error != nil {
		return "", false, storeError(res.Error, "update", otpsTable)
	}
	if res.RowsAffected == 0 {
		return "", false, nil
	}

	var otp models.OTP
	if err := db.Select("email").First(&otp, "id = ?", id).Error; err != nil {
		return "", false, storeError(err, "select", otpsTable)
	}
	return otp.Email, true, nil
}
