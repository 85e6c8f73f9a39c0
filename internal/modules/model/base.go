package model

import (
	"github.com/google/uuid"
)

// assignID fills a zero primary key before insert so rows get their id from
// the application on every dialect.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every table the service owns, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&Milestone{},
		&Feature{},
		&Rate{},
		&TeamMember{},
		&OutboxEvent{},
	}
}

