package models

import "time"

type ActionType string

const (
	ActionCreateProduct    ActionType = "CREATE_PRODUCT"
	ActionUpdateProduct    ActionType = "UPDATE_PRODUCT"
	ActionDeleteProduct    ActionType = "DELETE_PRODUCT"
	ActionCreateUser       ActionType = "CREATE_USER"
	ActionUpdateUser       ActionType = "UPDATE_USER"
	ActionDeleteUser       ActionType = "DELETE_USER"
	ActionCreateTechnology ActionType = "CREATE_TECHNOLOGY"
	ActionUpdateTechnology ActionType = "UPDATE_TECHNOLOGY"
	ActionDeleteTechnology ActionType = "DELETE_TECHNOLOGY"
	ActionUpdateTechStack  ActionType = "UPDATE_TECH_STACK"
	ActionDeleteTechStack  ActionType = "DELETE_TECH_STACK"
	ActionUpdatePage       ActionType = "UPDATE_PAGE"
	ActionDeleteContent    ActionType = "DELETE_CONTENT"
)

// AuditLog records admin mutations outside the content workflow,
// which keeps its own ContentHistory.
type AuditLog struct {
	ID         string     `gorm:"primaryKey;type:text" json:"id"`
	ActorID    string     `gorm:"index;type:text" json:"actorId"`
	Action     ActionType `gorm:"type:text" json:"action"`
	EntityType string     `json:"entityType"` // "product", "user", "technology", "page", "content"
	EntityID   string     `json:"entityId"`
	Detail     string     `json:"detail"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}
