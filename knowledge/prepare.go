package knowledge

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"valeai/models"
)

// prepare fills id, timestamp and type before an insert.
func prepare(entry *models.KnowledgeEntry, now time.Time) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if strings.TrimSpace(entry.Type) == "" {
		entry.Type = models.KNOWLEDGE_TYPE_MANUAL
	}
}
