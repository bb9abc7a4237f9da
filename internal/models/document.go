package models

import (
	"gorm.io/gorm"
)

// Document is one whole-document record in the store. Each data domain
// (trips, fitness, party) lives under its own well-known key and is
// replaced as a unit on every write.
type Document struct {
	gorm.Model
	Key  string `gorm:"uniqueIndex"`
	Data []byte
}
