package models

import "time"

// User is an account record. RefreshToken holds the single active refresh
// token for the account (empty string = no session); each login or signup
// overwrites it, so a login on a second device invalidates the first.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	DisplayName    string    `gorm:"size:100;not null" json:"display_name"`
	Username       string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password       string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	RefreshToken   string    `gorm:"size:512" json:"-"`
	ProfilePicture string    `gorm:"size:500" json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
