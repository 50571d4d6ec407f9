package models

import "time"

// ProcessedFile is written once per successful ingestion and never changes afterwards.
type ProcessedFile struct {
	ID                 string    `gorm:"primary_key" json:"id"`
	Filename           string    `gorm:"not null" json:"filename"`
	FileType           string    `gorm:"not null" json:"file_type"`
	Content            string    `gorm:"type:text" json:"content"`
	ExtractedKnowledge *string   `gorm:"type:text" json:"extracted_knowledge"`
	ProcessingDate     time.Time `gorm:"index" json:"processing_date"`
	FileSize           int64     `json:"file_size"`
	Categories         *string   `gorm:"type:text" json:"categories"`
	LearnedTopics      *string   `gorm:"type:text" json:"learned_topics"`
}
