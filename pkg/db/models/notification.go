package models

import (
	"time"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users.
type Notification struct {
	ID        int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64                  `gorm:"column:user_id;not null"`
	User      *User                  `gorm:"foreignKey:UserID"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null"`
	Message   string                 `gorm:"column:message;not null"`
	Read      bool                   `gorm:"column:read;not null;default:false"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
