package thought

import (
	"fmt"
	"strings"
)

// analysisPrompt builds the prompt for the empathetic commentary attached to
// a new journal entry.
func analysisPrompt(content, trigger string, emotions []string) string {
	return fmt.Sprintf(`
Eres un psicólogo empático.
Analiza este pensamiento:

Pensamiento: %s
Disparador: %s
Emociones: %s

trata de dar respuestas concretas evita respuestas excesivamente largas.
intenta no usar markdown si usas listas hazlo con emojis, y las negritas con **.
Responde con empatía y ofrece perspectiva constructiva.
`, content, trigger, strings.Join(emotions, ", "))
}
