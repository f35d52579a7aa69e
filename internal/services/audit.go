package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
	"gorm.io/gorm"
)

// LogAudit records an admin mutation. Pass the transaction the mutation ran in.
func LogAudit(tx *gorm.DB, actorID string, action models.ActionType, entityType, entityID, detail string) error {
	entry := models.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     utils.TruncateString(detail, 500),
		CreatedAt:  time.Now(),
	}
	return tx.Create(&entry).Error
}
