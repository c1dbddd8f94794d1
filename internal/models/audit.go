package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditActionProfileUpdated = "profile_updated"
	AuditActionTierCreated    = "tier_created"
	AuditActionTierUpdated    = "tier_updated"
	AuditActionGoalCreated    = "goal_created"
	AuditActionGoalUpdated    = "goal_updated"
	AuditActionCreatorSignIn  = "creator_sign_in"
)

type AuditLog struct {
	ID             uuid.UUID  `json:"id"`
	ActorCreatorID *uuid.UUID `json:"actor_creator_id,omitempty"`
	ActorType      string     `json:"actor_type"` // creator/system
	Action         string     `json:"action"`
	EntityType     string     `json:"entity_type"`
	EntityID       *uuid.UUID `json:"entity_id,omitempty"`
	Meta           any        `json:"meta,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
