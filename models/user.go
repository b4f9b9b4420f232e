package models

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:100;unique;not null" json:"username"`
	Email     string `gorm:"size:100;unique;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
