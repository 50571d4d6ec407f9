package knowledge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"valeai/db"
	"valeai/models"
	"valeai/tools"
)

func sampleEntries() []models.KnowledgeEntry {
	return []models.KnowledgeEntry{
		{Subject: "Física", Topic: "Leyes de Newton", Body: "Inercia, masa y acción-reacción", Grade: "Secundaria", Keywords: "fuerza,movimiento"},
		{Subject: "Historia", Topic: "Revolución Francesa", Body: "1789", Grade: "Secundaria", Keywords: "francia"},
		{Subject: "Biología", Topic: "Fotosíntesis", Body: "Las plantas producen glucosa", Grade: "Primaria", Keywords: "plantas,clorofila"},
	}
}

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	local, err := NewLocalRepository(filepath.Join(t.TempDir(), "knowledge.json"))
	require.NoError(t, err)

	return map[string]Repository{
		"gorm":  NewGormRepository(database),
		"local": local,
	}
}

func TestMatches(t *testing.T) {
	e := sampleEntries()[0]
	assert.True(t, Matches(e, Terms("NEWTON")))
	assert.True(t, Matches(e, Terms("fuerza")))
	assert.True(t, Matches(e, Terms("física")))
	assert.True(t, Matches(e, Terms("xyz inercia")))
	assert.False(t, Matches(e, Terms("química")))
	assert.False(t, Matches(e, Terms("   ")))
}

func TestFilter_TermOrderDoesNotMatter(t *testing.T) {
	entries := sampleEntries()
	a := Filter(entries, "newton leyes")
	b := Filter(entries, "leyes newton")
	assert.Equal(t, a, b)
	require.Len(t, a, 1)
	assert.Equal(t, "Leyes de Newton", a[0].Topic)
}

func TestRepository_CRUD(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := repo.CreateBatch(ctx, sampleEntries())
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			extra := &models.KnowledgeEntry{Subject: "Química", Topic: "Átomo", Body: "Unidad de materia"}
			require.NoError(t, repo.Create(ctx, extra))
			assert.NotEmpty(t, extra.ID)
			assert.Equal(t, models.KNOWLEDGE_TYPE_MANUAL, extra.Type)

			all, err := repo.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, "Leyes de Newton", all[0].Topic)
			assert.Equal(t, "Átomo", all[3].Topic)

			found, err := repo.Search(ctx, "plantas")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "Fotosíntesis", found[0].Topic)

			require.NoError(t, repo.Delete(ctx, extra.ID))
			assert.True(t, errors.Is(repo.Delete(ctx, extra.ID), ErrNotFound))

			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
		})
	}
}

func TestLocalRepository_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "knowledge.json")
	ctx := context.Background()

	repo, err := NewLocalRepository(path)
	require.NoError(t, err)
	_, err = repo.CreateBatch(ctx, sampleEntries())
	require.NoError(t, err)

	reopened, err := NewLocalRepository(path)
	require.NoError(t, err)
	all, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Revolución Francesa", all[1].Topic)
}

type fakeModel struct {
	calls int
	err   error
}

func (f *fakeModel) GenerateText(context.Context, string, *tools.InlineImage) (string, error) {
	f.calls++
	return "paquete", f.err
}

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed()
	require.NoError(t, err)
	require.NotEmpty(t, seed)
	for _, e := range seed {
		assert.Empty(t, e.MissingFields(), e.Topic)
		assert.Equal(t, models.KNOWLEDGE_TYPE_SEEDED, e.Type)
	}
}

func TestSeeder_BootstrapIsIdempotent(t *testing.T) {
	repo, err := NewLocalRepository("")
	require.NoError(t, err)
	model := &fakeModel{}
	s := NewSeeder(repo, model, tools.StaticProber(true), zap.NewNop())
	ctx := context.Background()

	first, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, BOOTSTRAP_MESSAGE_ONLINE, first.Message)
	assert.Greater(t, first.Inserted, 0)
	assert.Equal(t, 1, model.calls)

	second, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, first.Inserted+first.Skipped, second.Skipped)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(first.Inserted), count)
}

func TestSeeder_OfflineSkipsRemoteCall(t *testing.T) {
	repo, err := NewLocalRepository("")
	require.NoError(t, err)
	model := &fakeModel{}
	s := NewSeeder(repo, model, tools.StaticProber(false), zap.NewNop())

	res, err := s.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BOOTSTRAP_MESSAGE_OFFLINE, res.Message)
	assert.Equal(t, 0, model.calls)
	assert.Greater(t, res.Inserted, 0)
}
