package models

import "time"

// MenuItem is one orderable entry on the restaurant menu.
// Price is a whole amount; the configured currency has no subunits.
type MenuItem struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Price       int64     `gorm:"column:price;not null"`
	Category    string    `gorm:"column:category"`
	Available   bool      `gorm:"column:available;not null;default:true"`
	ImageURL    string    `gorm:"column:image_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (MenuItem) TableName() string { return "menu_items" }
