package specification

import "gorm.io/gorm"

// ActiveOnly keeps deactivated instructions out of every read path.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

type MinPriority struct {
	Priority int
}

func (s MinPriority) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("priority >= ?", s.Priority)
}

// PriorityOrder is the canonical active-instruction ordering: priority
// descending, newest first within a priority.
type PriorityOrder struct{}

func (s PriorityOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("priority DESC").Order("created_at DESC")
}
