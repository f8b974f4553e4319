package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SurveyResponse is one submitted survey form. UserID always comes from the
// authenticated caller's token claims, never from the request payload, and a
// stored response is immutable.
type SurveyResponse struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	FullName    string    `json:"fullName" gorm:"size:255;not null"`
	Age         int       `json:"age" gorm:"not null"`
	Gender      string    `json:"gender,omitempty" gorm:"size:50"`
	Education   string    `json:"education,omitempty" gorm:"size:255"`
	Occupation  string    `json:"occupation,omitempty" gorm:"size:255"`
	AIInterest  string    `json:"aiInterest,omitempty" gorm:"size:255;column:ai_interest"`
	Hobbies     []string  `json:"hobbies,omitempty" gorm:"serializer:json"`
	Feedback    string    `json:"feedback,omitempty" gorm:"type:text"`
	SubmittedAt time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// BeforeCreate sets UUID before creating the record.
func (r *SurveyResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
