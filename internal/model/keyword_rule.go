package model

import "time"

type KeywordRule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Keyword   string    `gorm:"size:255;not null" json:"keyword"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	Category  string    `gorm:"size:64;index" json:"category"`
	IsActive  bool      `gorm:"not null;index" json:"isActive"`
	Priority  int       `gorm:"not null;default:0" json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
