package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"valeai/models"
	"valeai/tools"
)

const SESSION_TITLE_MAX = 50

// Turn is one answered question ready to be persisted.
type Turn struct {
	SessionID string // vazio cria uma sessão nova
	Message   string
	Response  string
	ImageURL  string
	Context   string
}

// SessionStore keeps chat sessions, their messages and the conversation log.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// SessionTitle is the message cut to 50 characters, with "..." when longer.
func SessionTitle(message string) string {
	return tools.Truncate(message, SESSION_TITLE_MAX, "...")
}

// Record persists one turn in a single transaction: session create or
// message_count+2, user and assistant messages, conversation log row.
// Returns the session and conversation ids.
func (s *SessionStore) Record(ctx context.Context, t Turn) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	now := time.Now()
	sessionID := t.SessionID

	tx := s.db.Begin()
	if tx.Error != nil {
		return "", "", fmt.Errorf("begin chat tx: %w", tx.Error)
	}

	var count int64
	if sessionID != "" {
		res := tx.Model(&models.ChatSession{}).
			Where("id = ?", sessionID).
			Updates(map[string]interface{}{
				"message_count": gorm.Expr("message_count + ?", 2),
				"updated_at":    now,
			})
		if res.Error != nil {
			tx.Rollback()
			return "", "", fmt.Errorf("update session: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			var session models.ChatSession
			if err := tx.Select("message_count").Where("id = ?", sessionID).First(&session).Error; err != nil {
				tx.Rollback()
				return "", "", fmt.Errorf("reload session: %w", err)
			}
			count = session.MessageCount
		}
	} else {
		sessionID = uuid.NewString()
	}

	// sessão nova (ou id desconhecido enviado pelo cliente)
	if count == 0 {
		session := models.ChatSession{
			ID:           sessionID,
			Title:        SessionTitle(t.Message),
			CreatedAt:    now,
			UpdatedAt:    now,
			MessageCount: 2,
		}
		if err := tx.Create(&session).Error; err != nil {
			tx.Rollback()
			return "", "", fmt.Errorf("create session: %w", err)
		}
		count = 2
	}

	var imageURL *string
	if t.ImageURL != "" {
		img := t.ImageURL
		imageURL = &img
	}

	messages := []models.ChatMessage{
		{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Role:      models.MESSAGE_ROLE_USER,
			Content:   t.Message,
			ImageURL:  imageURL,
			Timestamp: now,
			Seq:       count - 1,
		},
		{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Role:      models.MESSAGE_ROLE_ASSISTANT,
			Content:   t.Response,
			Timestamp: now,
			Seq:       count,
		},
	}
	for i := range messages {
		if err := tx.Create(&messages[i]).Error; err != nil {
			tx.Rollback()
			return "", "", fmt.Errorf("create message: %w", err)
		}
	}

	conv := models.Conversation{
		ID:       uuid.NewString(),
		Question: t.Message,
		Answer:   t.Response,
		Context:  t.Context,
		ImageURL: imageURL,
		Date:     now,
		Useful:   1,
	}
	if err := tx.Create(&conv).Error; err != nil {
		tx.Rollback()
		return "", "", fmt.Errorf("create conversation: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return "", "", fmt.Errorf("commit chat tx: %w", err)
	}
	return sessionID, conv.ID, nil
}

// List returns all sessions, most recently updated first.
func (s *SessionStore) List(ctx context.Context) ([]models.ChatSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sessions := make([]models.ChatSession, 0)
	if err := s.db.Order("updated_at desc").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Messages returns the messages of a session in conversation order.
// An unknown session yields an empty list.
func (s *SessionStore) Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages := make([]models.ChatMessage, 0)
	err := s.db.Where("session_id = ?", sessionID).
		Order("timestamp asc").
		Order("seq asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Delete removes the session and all of its messages. Deleting an unknown id is a no-op.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.db.Begin()
	if err := tx.Delete(&models.ChatMessage{}, "session_id = ?", sessionID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete messages: %w", err)
	}
	if err := tx.Delete(&models.ChatSession{}, "id = ?", sessionID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete session: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("commit delete session: %w", err)
	}
	return nil
}

// Feedback sets the usefulness flag of a conversation.
func (s *SessionStore) Feedback(ctx context.Context, conversationID string, useful int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := s.db.Model(&models.Conversation{}).Where("id = ?", conversationID).Update("util", useful)
	if res.Error != nil {
		return fmt.Errorf("update feedback: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Conversation loads one conversation log row.
func (s *SessionStore) Conversation(ctx context.Context, id string) (*models.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var conv models.Conversation
	if err := s.db.Where("id = ?", id).First(&conv).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return &conv, nil
}
