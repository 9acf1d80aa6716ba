package summary

import (
	"fmt"
	"strings"

	"github.com/quietleaf/mindlog/internal/models"
)

func summaryPrompt(thoughts []*models.Thought) string {
	blocks := make([]string, 0, len(thoughts))
	for i, t := range thoughts {
		trigger := t.TriggerEvent
		if trigger == "" {
			trigger = "No especificado"
		}
		emotions := t.EmotionsText()
		if emotions == "" {
			emotions = "No especificadas"
		}
		important := "No"
		if t.IsImportant {
			important = "Sí"
		}
		blocks = append(blocks, fmt.Sprintf("Pensamiento %d: %s\nDisparador: %s\nEmociones: %s\nImportante: %s",
			i+1, t.ThoughtContent, trigger, emotions, important))
	}

	return fmt.Sprintf(`
Eres un psicólogo empático. Genera un resumen semanal constructivo basado en estos pensamientos del usuario.

Pensamientos de la semana:
%s

Instrucciones:
- Sé empático y alentador
- Identifica patrones o temas recurrentes
- Ofrece perspectivas constructivas
- Mantén un tono positivo y de apoyo
- Incluye estadísticas básicas (número de pensamientos, importantes)
- Evita respuestas excesivamente largas
- Usa ** para negritas si es necesario
- Si usas listas, hazlo con emojis
- los mensajes tienen que ser comprensibles y naturales y que tengan sentido

Responde como un resumen semanal personalizado.
`, strings.Join(blocks, "\n\n"))
}

// fallbackSummary assembles the deterministic templated summary used when
// generation fails. Phrasing branches on count == 1 for agreement.
func fallbackSummary(thoughtCount, importantCount int) string {
	noun := "pensamientos"
	if thoughtCount == 1 {
		noun = "pensamiento"
	}
	head := fmt.Sprintf("Esta semana has registrado %d %s", thoughtCount, noun)
	if importantCount > 0 {
		marked := "fueron marcados"
		plural := "s"
		if importantCount == 1 {
			marked = "fue marcado"
			plural = ""
		}
		head += fmt.Sprintf(", de los cuales %d %s como importante%s", importantCount, marked, plural)
	}
	head += "."

	var encouragement string
	switch {
	case thoughtCount >= 3:
		encouragement = "Has estado muy consciente de tus pensamientos, lo cual es excelente. Escribir regularmente te ayuda a identificar patrones."
	case thoughtCount >= 1:
		encouragement = "Es un buen comienzo. Mientras más escribas, más patrones podrás identificar."
	}

	important := "Si algún pensamiento te preocupa especialmente, no dudes en marcarlo como importante."
	if importantCount > 0 {
		important = "Los pensamientos que marcaste como importantes merecen atención especial. Tal vez quieras conversar con alguien de confianza sobre ellos."
	}

	parts := []string{head}
	if encouragement != "" {
		parts = append(parts, encouragement)
	}
	parts = append(parts,
		"Recuerda: el simple acto de escribir y reflexionar sobre tus pensamientos ya es terapéutico. Estás haciendo un gran trabajo cuidando de tu salud mental.",
		important,
		"Sigue así. Cada día que trabajas en esto, te vuelves más fuerte y consciente.",
	)
	return strings.Join(parts, "\n\n")
}
