package chat

import (
	"fmt"
	"strings"

	"valeai/models"
)

const OFFLINE_MAX_RESULTS = 3

// OfflineAnswer renders the local-knowledge reply from the matching entries
// (already in store order). Only the first three are used.
func OfflineAnswer(message string, matches []models.KnowledgeEntry) string {
	if len(matches) == 0 {
		return fmt.Sprintf("🔌 **Modo Offline**\n\nNo encontré información específica sobre \"%s\" en mi base de conocimiento local.\n\nPuedes:\n• Conectarte a Internet para obtener información actualizada\n• Agregar este contenido manualmente en el Gestor de Conocimiento\n• Reformular tu pregunta con términos más generales\n\n💪 Estoy aquí para ayudarte cuando tengas conexión.", message)
	}

	if len(matches) > OFFLINE_MAX_RESULTS {
		matches = matches[:OFFLINE_MAX_RESULTS]
	}

	var b strings.Builder
	b.WriteString("📚 **Modo Offline Activado**\n\nEncontré información relevante en mi base de conocimiento:\n\n")
	for i, k := range matches {
		fmt.Fprintf(&b, "**%d. %s** (%s)\n%s\n\n", i+1, k.Topic, k.Subject, k.Body)
	}
	b.WriteString("💡 *Nota: Estoy trabajando en modo offline usando mi conocimiento integrado. Para respuestas más detalladas, conecta a Internet.*")
	return b.String()
}
