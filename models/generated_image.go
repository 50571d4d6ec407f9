package models

import "time"

const GENERATED_IMAGE_SIZE = "1024x1024"

type GeneratedImage struct {
	ID           string    `gorm:"primary_key" json:"id"`
	Prompt       string    `gorm:"type:text" json:"prompt"`
	ImageData    string    `gorm:"type:text" json:"image_data"`
	RelatedTopic *string   `json:"related_topic"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	Size         string    `gorm:"not null;default:'1024x1024'" json:"size"`
}
