package models

import "time"

// TableToken maps an opaque QR token to a physical table and its serving window.
type TableToken struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Token        string     `gorm:"column:token;uniqueIndex;not null"`
	TableNumber  int        `gorm:"column:table_number;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	SessionStart *time.Time `gorm:"column:session_start"`
	SessionEnd   *time.Time `gorm:"column:session_end"`
	LastUsed     *time.Time `gorm:"column:last_used"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (TableToken) TableName() string { return "table_tokens" }

// ValidAt reports whether the token may be used at the given instant.
func (t TableToken) ValidAt(now time.Time) bool {
	if !t.IsActive || t.TableNumber == 0 {
		return false
	}
	if t.SessionStart != nil && now.Before(*t.SessionStart) {
		return false
	}
	if t.SessionEnd != nil && now.After(*t.SessionEnd) {
		return false
	}
	return true
}
