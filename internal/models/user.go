package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local record of an identity-provider account.
type User struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	ExternalID string         `json:"external_id" gorm:"uniqueIndex;not null"`
	Email      string         `json:"email"`
	Name       string         `json:"name"`
	Role       string         `json:"role" gorm:"default:'user'"` // admin, user
	IsActive   bool           `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)
