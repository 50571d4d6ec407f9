package chat

import (
	"strings"

	"valeai/tools"
)

/************************************************
/**** MARK: INTENTS ****/
/************************************************/
const INTENT_GREETING = "greeting"
const INTENT_FAREWELL = "farewell"
const INTENT_THANKS = "thanks"

type intent struct {
	name      string
	phrases   []string
	responses []string
}

// ordem importa: a primeira intenção que casar vence
var intents = []intent{
	{
		name:    INTENT_GREETING,
		phrases: []string{"hola", "hello", "hi", "hey", "buenos días", "buenas tardes", "buenas noches", "qué tal", "cómo estás"},
		responses: []string{
			"¡Hola! 😊 Soy ValeAI, tu asistente académico. ¿En qué puedo ayudarte hoy?",
			"¡Hola! Me alegra verte por aquí. ¿Qué tema te gustaría explorar?",
			"¡Hey! 👋 Estoy lista para ayudarte con cualquier duda académica que tengas.",
			"¡Hola! ¿Listo para aprender algo nuevo hoy? Cuéntame qué necesitas.",
		},
	},
	{
		name:    INTENT_FAREWELL,
		phrases: []string{"adiós", "chao", "hasta luego", "nos vemos", "bye", "hasta pronto"},
		responses: []string{
			"¡Hasta luego! Fue un placer ayudarte. Vuelve cuando necesites más apoyo. 📚",
			"¡Nos vemos! Espero haberte ayudado. Aquí estaré cuando me necesites. ✨",
			"¡Adiós! Sigue aprendiendo y explorando. ¡Éxito en tus estudios! 🚀",
		},
	},
	{
		name:    INTENT_THANKS,
		phrases: []string{"gracias", "thank you", "te agradezco", "muchas gracias"},
		responses: []string{
			"¡De nada! Para eso estoy aquí. 😊 ¿Necesitas ayuda con algo más?",
			"¡Con gusto! Me encanta poder ayudarte. ¿Qué más puedo hacer por ti?",
			"¡No hay de qué! Siempre es un placer asistirte en tu aprendizaje. 💡",
		},
	},
}

// Normalize lowercases and trims a user message.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// DetectIntent returns the first intent with a phrase contained in the
// normalized message. Plain substring match: "hi" also hits "historia".
func DetectIntent(normalized string) (string, bool) {
	for _, in := range intents {
		for _, p := range in.phrases {
			if strings.Contains(normalized, p) {
				return in.name, true
			}
		}
	}
	return "", false
}

// CannedResponse picks a random reply for the intent.
func CannedResponse(name string) string {
	for _, in := range intents {
		if in.name == name {
			return tools.RandomChoice(in.responses)
		}
	}
	return ""
}

// Responses exposes the reply list of an intent (tests and docs).
func Responses(name string) []string {
	for _, in := range intents {
		if in.name == name {
			out := make([]string, len(in.responses))
			copy(out, in.responses)
			return out
		}
	}
	return nil
}
