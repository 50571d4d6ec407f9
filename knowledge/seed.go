package knowledge

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"valeai/models"
	"valeai/tools"
)

//go:embed seed.yaml
var seedYAML []byte

const bootstrapPrompt = "Genera un paquete de conocimiento comprimido bilingüe y multimedia para almacenamiento local offline"

const (
	BOOTSTRAP_MESSAGE_ONLINE  = "OPERACIÓN EXITOSA: SISTEMA OFFLINE LISTO"
	BOOTSTRAP_MESSAGE_OFFLINE = "Sin conexión: base de conocimiento local cargada"
)

// LoadSeed parses the embedded seed dataset. Every entry comes back tagged as seeded.
func LoadSeed() ([]models.KnowledgeEntry, error) {
	var doc struct {
		Entries []models.KnowledgeEntry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(seedYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i := range doc.Entries {
		doc.Entries[i].Type = models.KNOWLEDGE_TYPE_SEEDED
	}
	return doc.Entries, nil
}

type BootstrapResult struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

// Seeder runs the one-shot knowledge bootstrap.
type Seeder struct {
	repo   Repository
	model  tools.Model
	prober tools.Prober
	logger *zap.Logger
}

func NewSeeder(repo Repository, model tools.Model, prober tools.Prober, logger *zap.Logger) *Seeder {
	return &Seeder{repo: repo, model: model, prober: prober, logger: logger}
}

// Bootstrap makes one best-effort remote call and then imports the seed dataset.
// Entries whose (materia, tema) already exist are skipped.
func (s *Seeder) Bootstrap(ctx context.Context) (BootstrapResult, error) {
	result := BootstrapResult{Message: BOOTSTRAP_MESSAGE_OFFLINE}

	if s.model != nil && s.prober != nil && s.prober.IsOnline(ctx) {
		out, err := s.model.GenerateText(ctx, bootstrapPrompt, nil)
		if err != nil {
			s.logger.Warn("bootstrap: remote call failed", zap.Error(err))
		} else {
			s.logger.Info("bootstrap: remote package received", zap.Int("chars", len(out)))
			result.Message = BOOTSTRAP_MESSAGE_ONLINE
		}
	}

	seed, err := LoadSeed()
	if err != nil {
		return result, err
	}

	existing, err := s.repo.All(ctx)
	if err != nil {
		return result, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[seedKey(e)] = struct{}{}
	}

	fresh := make([]models.KnowledgeEntry, 0, len(seed))
	for _, e := range seed {
		if _, ok := seen[seedKey(e)]; ok {
			result.Skipped++
			continue
		}
		seen[seedKey(e)] = struct{}{}
		fresh = append(fresh, e)
	}

	n, err := s.repo.CreateBatch(ctx, fresh)
	if err != nil {
		return result, err
	}
	result.Inserted = n

	s.logger.Info("bootstrap: knowledge expanded", zap.Int("inserted", n), zap.Int("skipped", result.Skipped))
	return result, nil
}

func seedKey(e models.KnowledgeEntry) string {
	return strings.ToLower(strings.TrimSpace(e.Subject)) + "\x00" + strings.ToLower(strings.TrimSpace(e.Topic))
}
