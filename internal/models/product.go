package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a listing owned by exactly one farmer.
type Product struct {
	BaseModel
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `gorm:"default:Fruits" json:"category"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	FarmerID    uuid.UUID      `gorm:"type:uuid;index" json:"farmer_id"`
}
