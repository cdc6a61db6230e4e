package alerts

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AlertType classifies the emergency being reported
type AlertType = string

const (
	TypeSOS        AlertType = "sos"
	TypeUnsafeArea AlertType = "unsafe-area"
	TypeHarassment AlertType = "harassment"
	TypeMedical    AlertType = "medical"
	TypeOther      AlertType = "other"
)

// AlertStatus tracks the alert lifecycle
type AlertStatus = string

const (
	StatusActive    AlertStatus = "active"
	StatusResolved  AlertStatus = "resolved"
	StatusCancelled AlertStatus = "cancelled"
)

// Alert is an emergency report raised by a user.
type Alert struct {
	bun.BaseModel `bun:"table:alerts,alias:alr"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID   `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Type          AlertType   `bun:"type,notnull" json:"type,omitempty"`
	Message       string      `bun:"message" json:"message,omitempty"`
	Latitude      *float64    `bun:"latitude,nullzero" json:"latitude,omitempty"`
	Longitude     *float64    `bun:"longitude,nullzero" json:"longitude,omitempty"`
	Address       string      `bun:"address" json:"address,omitempty"`
	Status        AlertStatus `bun:"status,notnull,default:'active'" json:"status,omitempty"`
	ResolvedAt    *time.Time  `bun:"resolved_at,nullzero" json:"resolved_at,omitempty"`
	ResolvedBy    *uuid.UUID  `bun:"resolved_by,nullzero,type:uuid" json:"resolved_by,omitempty"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Active reports whether the alert still needs attention.
func (a *Alert) Active() bool {
	return a.Status == StatusActive
}

// Validate will run validation rules
func (a Alert) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Type, validation.Required, validation.In(
			TypeSOS, TypeUnsafeArea, TypeHarassment, TypeMedical, TypeOther,
		)),
		validation.Field(&a.Message, validation.Length(0, 500)),
		validation.Field(&a.Status, validation.In(
			StatusActive, StatusResolved, StatusCancelled,
		)),
	)
}
