package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// OutboxEvent is a domain event written in the same transaction as the
// change it describes and relayed to the broker after commit.
type OutboxEvent struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AggregateType string         `gorm:"type:text;not null" json:"aggregate_type"`
	AggregateID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"aggregate_id"`
	EventType     string         `gorm:"type:text;not null" json:"event_type"`
	RoutingKey    string         `gorm:"type:text;not null" json:"routing_key"`
	Payload       datatypes.JSON `gorm:"not null" swaggertype:"object" json:"payload"`
	Status        string         `gorm:"type:text;not null;index;default:pending" json:"status"`
	RetryCount    int            `gorm:"not null;default:0" json:"retry_count"`
	LastError     string         `gorm:"type:text" json:"last_error,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime;not null;index" json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	if e.Status == "" {
		e.Status = OutboxStatusPending
	}
	return nil
}
