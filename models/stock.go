package models

import "time"

type Stock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Company   string    `gorm:"size:100;not null" json:"company"`
	DateAdded time.Time `json:"date_added"`
}
