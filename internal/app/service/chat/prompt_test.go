package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/pkg/types"
)

func TestThoughtPrompt_IncludesEntryAndTranscript(t *testing.T) {
	th := &models.Thought{
		ThoughtContent: "no avanzo en mi proyecto",
		TriggerEvent:   "reunión del lunes",
		Emotions:       datatypes.NewJSONSlice([]string{"frustración"}),
		ChatHistory: datatypes.NewJSONSlice([]types.ChatMessage{
			{Role: types.ChatRoleUser, Content: "hola"},
		}),
	}

	got := thoughtPrompt(th, "¿qué hago?")
	require.Contains(t, got, "no avanzo en mi proyecto")
	require.Contains(t, got, "reunión del lunes")
	require.Contains(t, got, "frustración")
	require.Contains(t, got, "Usuario: hola")
	require.Contains(t, got, "Mensaje del usuario: ¿qué hago?")
}

func TestGeneralPrompt_IncludesPriorContext(t *testing.T) {
	got := generalPrompt("Usuario: buenas\nAsistente: hola", "sigo estresado")
	require.Contains(t, got, "Usuario: buenas")
	require.Contains(t, got, "Mensaje del usuario: sigo estresado")
}
