package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog piece available for standard purchase.
type Product struct {
	BaseModel
	Slug        string         `gorm:"uniqueIndex" json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Material    string         `json:"material"`
	Dimensions  string         `json:"dimensions"`
	GlazeFinish string         `json:"glaze_finish"`
	InStock     bool           `json:"in_stock"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid" json:"category_id"`
	Category    *Category      `json:"category,omitempty"`
}
