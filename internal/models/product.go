package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog item. Features are kept as a JSON array string.
type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;index;not null" json:"name"`
	Brand       string    `gorm:"size:128;index" json:"brand"`
	Category    string    `gorm:"size:64;index" json:"category"`
	SubCategory string    `gorm:"size:64;index" json:"subCategory,omitempty"`
	Type        string    `gorm:"size:64;index" json:"type,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	Features    string    `gorm:"type:text" json:"-"`
	InStock     bool      `gorm:"not null;default:true" json:"inStock"`
	Media       []Media   `gorm:"constraint:OnDelete:CASCADE" json:"media"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FeatureList decodes Features; a malformed value yields an empty list.
func (p *Product) FeatureList() []string {
	if p.Features == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(p.Features), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// SetFeatureList encodes the list into Features.
func (p *Product) SetFeatureList(features []string) {
	if features == nil {
		features = []string{}
	}
	b, _ := json.Marshal(features)
	p.Features = string(b)
}

// MarshalJSON exposes features as a real array.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Features []string `json:"features"`
	}{alias: alias(p), Features: p.FeatureList()})
}

// Media is an image or video attached to a product. Order is its display position.
type Media struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProductID string `gorm:"index;size:36;not null" json:"productId"`
	URL       string `gorm:"size:1024;not null" json:"url"`
	Type      string `gorm:"size:16;not null;default:image" json:"type"`
	Alt       string `gorm:"size:255" json:"alt,omitempty"`
	Order     int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}

func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
