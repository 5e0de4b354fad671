package models

import "gorm.io/gorm"

// Chat message role values.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Report is a generated performance report for one dataset.
type Report struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	DatasetID uint `gorm:"index"`
	LLMModel  string
	Content   string `gorm:"type:text"`
}

// ChatMessage is one turn of the advisor chat, persisted per user.
type ChatMessage struct {
	gorm.Model
	UserID  uint   `gorm:"index"`
	Role    string // user, assistant
	Content string `gorm:"type:text"`
}
