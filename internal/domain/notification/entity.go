package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeave   NotificationType = "leave"
	TypePayroll NotificationType = "payroll"
	TypeSystem  NotificationType = "system"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case TypeLeave, TypePayroll, TypeSystem:
		return true
	}
	return false
}

// RelatedEntity points at the record a notification is about.
type RelatedEntity struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

// Notification represents a notification entity
type Notification struct {
	ID            string
	RecipientID   string
	Type          NotificationType
	Title         string
	Message       string
	RelatedEntity *RelatedEntity
	IsRead        bool
	ReadAt        *time.Time
	CreatedAt     time.Time
}
