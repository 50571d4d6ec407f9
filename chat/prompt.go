package chat

import (
	"fmt"
	"strings"

	"valeai/knowledge"
	"valeai/models"
	"valeai/tools"
)

const personaPreamble = `Eres ValeAI, una asistente académica amigable, entusiasta y motivadora. Tu objetivo es ayudar a estudiantes a aprender de forma clara y comprensible. 

Características de tu personalidad:
- Amable y cercana, como una amiga que ayuda a estudiar
- Usa emojis ocasionalmente para ser más expresiva (pero sin exagerar)
- Explica conceptos de forma simple antes de profundizar
- Motiva al estudiante con frases positivas
- Si no sabes algo, lo admites con honestidad y ofreces alternativas
- Haces preguntas para asegurarte de que el estudiante entendió`

const MODEL_FALLBACK_RESPONSE = "Hmm, parece que tuve un pequeño problema procesando eso. ¿Podrías intentar preguntármelo de otra forma? 🤔"

// BuildContext flattens the knowledge base into "materia - tema: contenido" lines.
// Entries matching the message come first, then the rest in store order; at most
// maxEntries lines, each body cut to maxChars.
func BuildContext(entries []models.KnowledgeEntry, message string, maxEntries, maxChars int) string {
	terms := knowledge.Terms(message)

	ordered := make([]models.KnowledgeEntry, 0, len(entries))
	rest := make([]models.KnowledgeEntry, 0, len(entries))
	for _, e := range entries {
		if knowledge.Matches(e, terms) {
			ordered = append(ordered, e)
		} else {
			rest = append(rest, e)
		}
	}
	ordered = append(ordered, rest...)

	if maxEntries > 0 && len(ordered) > maxEntries {
		ordered = ordered[:maxEntries]
	}

	lines := make([]string, 0, len(ordered))
	for _, e := range ordered {
		// limitador simples para evitar explodir tokens
		body := tools.Truncate(e.Body, maxChars, "...")
		lines = append(lines, fmt.Sprintf("%s - %s: %s", e.Subject, e.Topic, body))
	}
	return strings.Join(lines, "\n")
}

// PersonaPrompt is the full prompt sent to the model for one question.
func PersonaPrompt(context, message string) string {
	var b strings.Builder
	b.WriteString(personaPreamble)
	b.WriteString("\n\nContexto de conocimiento disponible:\n")
	b.WriteString(context)
	b.WriteString("\n\nPregunta del usuario: ")
	b.WriteString(message)
	b.WriteString("\n\nResponde de forma clara, educativa y con tu personalidad característica en español.")
	return b.String()
}
