package models

import "time"

/************************************************
/**** MARK: MESSAGE ROLES ****/
/************************************************/
const MESSAGE_ROLE_USER = "user"
const MESSAGE_ROLE_ASSISTANT = "assistant"

// ChatSession agrupa as trocas user/assistant de uma conversa.
type ChatSession struct {
	ID           string    `gorm:"primary_key" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `gorm:"index" json:"updated_at"`
	MessageCount int64     `gorm:"not null;default:0" json:"message_count"`
}

// ChatMessage is append-only; it disappears only when its session is deleted.
// Seq is the position inside the session and breaks timestamp ties.
type ChatMessage struct {
	ID        string    `gorm:"primary_key" json:"id"`
	SessionID string    `gorm:"not null;index" json:"session_id"`
	Role      string    `gorm:"column:type;not null" json:"type"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  *string   `gorm:"type:text" json:"image_url"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Seq       int64     `gorm:"not null;default:0" json:"seq"`
}

// Conversation é o registro de aprendizado de cada pergunta respondida.
// Só o campo Useful muda depois de criado (feedback).
type Conversation struct {
	ID       string    `gorm:"primary_key" json:"id"`
	Question string    `gorm:"column:pregunta;type:text" json:"pregunta"`
	Answer   string    `gorm:"column:respuesta;type:text" json:"respuesta"`
	Context  string    `gorm:"column:contexto;type:text" json:"contexto"`
	ImageURL *string   `gorm:"column:imagen_url;type:text" json:"imagen_url"`
	Date     time.Time `gorm:"column:fecha" json:"fecha"`
	Useful   int       `gorm:"column:util;not null;default:1" json:"util"`
}
