package models

import "time"

// OTP is a one-time code issued to an email address. Records are kept after
// use; Used only ever moves from false to true.
type OTP struct {
	BaseModel
	Email     string     `gorm:"not null;index" json:"email"`
	Code      string     `gorm:"type:varchar(6);not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	UsedAt    *time.Time `json:"used_at"`
}

// Usable reports whether the code could still be claimed at now.
func (o OTP) Usable(now time.Time) bool {
	return !o.Used && now.Before(o.ExpiresAt)
}
