package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	GoogleID string `gorm:"uniqueIndex"`
	Username string
	Email    string
	Avatar   string
}
