package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"valeai/config"
	"valeai/models"
)

func TestConnect_SqliteCreatesDirAndTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "valeai.sqlite")

	db, err := Connect(config.Configuration{Database: "sqlite3", DbPath: path}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)

	for _, table := range []any{
		&models.KnowledgeEntry{}, &models.ChatSession{}, &models.ChatMessage{}, &models.Conversation{},
		&models.ProcessedFile{}, &models.LearningProgress{}, &models.GeneratedImage{},
	} {
		assert.True(t, db.HasTable(table))
	}
}

func TestOpenMemory_IsPrivate(t *testing.T) {
	a, err := OpenMemory()
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenMemory()
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Create(&models.ChatSession{ID: "s1", Title: "t"}).Error)

	var n int
	b.Model(&models.ChatSession{}).Count(&n)
	assert.Equal(t, 0, n)
}
