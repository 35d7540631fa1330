package models

import (
	"time"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
)

// User is an authenticated account. Role decides which profile table
// (back office, coordinator, project lead) references it.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;unique"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
