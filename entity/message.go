package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one immutable turn of a thread. Assistant messages always name
// the model that produced them; user messages never do.
type Message struct {
	ID        string    `gorm:"primarykey" json:"id"`
	ThreadID  string    `gorm:"index" json:"thread_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Model     *string   `json:"model,omitempty"`
	RequestID *string   `gorm:"uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Thread Thread `gorm:"foreignKey:ThreadID" json:"-"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
