package models

import "time"

const LEARNING_PROGRESS_STEP = 10
const LEARNING_PROGRESS_MAX = 100

// LearningProgress acumula, por tema, quantas fontes ingeridas tocaram aquele tema.
type LearningProgress struct {
	ID               string    `gorm:"primary_key" json:"id"`
	Topic            string    `gorm:"not null;unique_index" json:"topic"`
	SubjectArea      string    `gorm:"not null;default:'General'" json:"subject_area"`
	ProficiencyLevel int       `gorm:"not null;default:0" json:"proficiency_level"`
	SourcesCount     int       `gorm:"not null;default:0" json:"sources_count"`
	LastUpdated      time.Time `json:"last_updated"`
	ConfidenceScore  int       `gorm:"not null;default:0" json:"confidence_score"`
	RelatedFiles     string    `gorm:"type:text" json:"related_files"`
}

func (LearningProgress) TableName() string {
	return "learning_progress"
}

// NextProficiency applies one capped increment; it never lowers the level.
func NextProficiency(current int) int {
	next := current + LEARNING_PROGRESS_STEP
	if next > LEARNING_PROGRESS_MAX {
		next = LEARNING_PROGRESS_MAX
	}
	if next < current {
		return current
	}
	return next
}
