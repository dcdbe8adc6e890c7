package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oenomel87/agora/discussion"
)

const DefaultThreadTitle = "새 토론"

type Thread struct {
	ID         string                             `gorm:"primarykey" json:"id"`
	Title      string                             `json:"title"`
	Phase      discussion.Phase                   `gorm:"default:opinion" json:"phase"`
	TurnCounts datatypes.JSONType[map[string]int] `json:"turn_counts"`
	CreatedAt  time.Time                          `json:"created_at"`
	UpdatedAt  time.Time                          `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Thread) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Title == "" {
		t.Title = DefaultThreadTitle
	}
	if t.Phase == "" {
		t.Phase = discussion.PhaseOpinion
	}
	return nil
}
