package models

import "time"

// Dashboard account roles.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// User is a dashboard operator account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"default:operator" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
