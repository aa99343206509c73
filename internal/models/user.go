package models

// User is a registered customer. Carts and orders refer to it by ID only.
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
}
