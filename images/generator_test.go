package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"valeai/db"
	"valeai/models"
	"valeai/tools"
)

type fakeModel struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeModel) GenerateText(_ context.Context, prompt string, _ *tools.InlineImage) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestGenerate_PromptQuotedVerbatim(t *testing.T) {
	model := &fakeModel{reply: "a diagram"}
	g := NewGenerator(openDB(t), model, tools.StaticProber(true), nil, zap.NewNop())

	_, err := g.Generate(context.Background(), `el "ciclo" del agua`, "")
	require.NoError(t, err)
	assert.Contains(t, model.prompt, `sobre: "el "ciclo" del agua". `)
	assert.NotContains(t, model.prompt, `\"`)
}

func TestGenerate_Offline(t *testing.T) {
	g := NewGenerator(openDB(t), &fakeModel{reply: "x"}, tools.StaticProber(false), nil, zap.NewNop())
	_, err := g.Generate(context.Background(), "células", "")
	assert.ErrorIs(t, err, ErrOffline)
}

func TestGenerate_ModelError(t *testing.T) {
	g := NewGenerator(openDB(t), &fakeModel{err: errors.New("503")}, tools.StaticProber(true), nil, zap.NewNop())
	_, err := g.Generate(context.Background(), "células", "")
	assert.ErrorIs(t, err, ErrPromptFailed)
}

func TestGenerate_StoresSVG(t *testing.T) {
	g := NewGenerator(openDB(t), &fakeModel{reply: "A detailed diagram of a cell"}, tools.StaticProber(true), nil, zap.NewNop())

	img, err := g.Generate(context.Background(), "La célula <animal>", "Biología")
	require.NoError(t, err)
	assert.Equal(t, "A detailed diagram of a cell", img.Prompt)
	assert.Equal(t, models.GENERATED_IMAGE_SIZE, img.Size)
	require.NotNil(t, img.RelatedTopic)

	const prefix = "data:image/svg+xml;base64,"
	require.True(t, strings.HasPrefix(img.ImageData, prefix))
	svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(img.ImageData, prefix))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "La célula &lt;animal&gt;")
	assert.Contains(t, string(svg), ">Biología<")
	assert.Contains(t, string(svg), "Generado por ValeAI")
}

func TestGenerate_EmptyEnhancementKeepsPrompt(t *testing.T) {
	g := NewGenerator(openDB(t), &fakeModel{reply: "  "}, tools.StaticProber(true), nil, zap.NewNop())
	img, err := g.Generate(context.Background(), "volcanes", "")
	require.NoError(t, err)
	assert.Equal(t, "volcanes", img.Prompt)
	assert.Nil(t, img.RelatedTopic)
}

func TestRenderSVG_Truncates(t *testing.T) {
	svg := RenderSVG(strings.Repeat("t", 40), "")
	assert.Contains(t, svg, ">"+strings.Repeat("t", 30)+"<")
	assert.Contains(t, svg, ">Imagen educativa<")
}

func TestList_NewestFirstCapped(t *testing.T) {
	database := openDB(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 55; i++ {
		require.NoError(t, database.Create(&models.GeneratedImage{
			ID:        fmt.Sprintf("img-%02d", i),
			Prompt:    "p",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			Size:      models.GENERATED_IMAGE_SIZE,
		}).Error)
	}

	g := NewGenerator(database, nil, tools.StaticProber(false), nil, zap.NewNop())
	list, err := g.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, HISTORY_LIMIT)
	assert.Equal(t, "img-54", list[0].ID)
	for i := 1; i < len(list); i++ {
		assert.True(t, !list[i].CreatedAt.After(list[i-1].CreatedAt))
	}
}
