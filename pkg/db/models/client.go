package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a customer of the shop.
type Client struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Phone     *string    `gorm:"column:phone"`
	Email     *string    `gorm:"column:email;unique"`
	BirthDate *time.Time `gorm:"column:birth_date;type:date"`
	Notes     *string    `gorm:"column:notes"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
