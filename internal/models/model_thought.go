package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/quietleaf/mindlog/pkg/types"
)

// Thought is one journal entry: the user's text, optional trigger and
// emotions, the AI commentary produced at creation, and the chat transcript
// for the entry. The transcript is append-only; writers replace the whole
// column with the extended slice.
type Thought struct {
	ID             string                                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string                                 `gorm:"column:user_id;type:varchar(64);not null;index:idx_thought_user_created,priority:1" json:"user_id"`
	ThoughtContent string                                 `gorm:"column:thought_content;type:text;not null" json:"thought_content"`
	TriggerEvent   string                                 `gorm:"column:trigger_event;type:text" json:"trigger_event"`
	Emotions       datatypes.JSONSlice[string]            `gorm:"column:emotions;type:jsonb;default:'[]'" json:"emotions"`
	IsImportant    bool                                   `gorm:"column:is_important;not null;default:false" json:"is_important"`
	AIResponse     string                                 `gorm:"column:ai_response;type:text" json:"ai_response"`
	ChatHistory    datatypes.JSONSlice[types.ChatMessage] `gorm:"column:chat_history;type:jsonb;default:'[]'" json:"chat_history"`
	CreatedAt      time.Time                              `gorm:"index:idx_thought_user_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time                              `json:"updated_at"`
}

func (Thought) TableName() string {
	return "thoughts"
}

// EmotionsText renders the emotions list for prompt assembly.
func (t *Thought) EmotionsText() string {
	return strings.Join(t.Emotions, ", ")
}

// Transcript renders the chat history as the "Usuario:/Asistente:" lines the
// generation prompts use as conversation memory.
func (t *Thought) Transcript() string {
	lines := make([]string, 0, len(t.ChatHistory))
	for _, msg := range t.ChatHistory {
		speaker := "Asistente"
		if msg.Role == types.ChatRoleUser {
			speaker = "Usuario"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Content))
	}
	return strings.Join(lines, "\n")
}
