// Package model holds the GORM persistence models mirroring the database schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// The outstanding verification and reset tokens live on the user row itself;
// a NULL token column means no token of that class is outstanding.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	Username     string    `gorm:"type:varchar(20);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Location     string    `gorm:"type:varchar(100)"`

	EmailVerified             bool       `gorm:"not null;default:false"`
	VerificationToken         *string    `gorm:"type:varchar(128);index"`
	VerificationTokenExpireAt *time.Time
	ResetToken                *string `gorm:"type:varchar(128);index"`
	ResetTokenExpireAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
