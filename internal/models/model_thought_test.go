package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/quietleaf/mindlog/pkg/types"
)

func TestThoughtTranscript(t *testing.T) {
	th := &Thought{
		ChatHistory: datatypes.NewJSONSlice([]types.ChatMessage{
			{Role: types.ChatRoleUser, Content: "hola"},
			{Role: types.ChatRoleAssistant, Content: "hola, ¿cómo estás?"},
			{Role: types.ChatRoleUser, Content: "cansado"},
		}),
	}

	require.Equal(t, "Usuario: hola\nAsistente: hola, ¿cómo estás?\nUsuario: cansado", th.Transcript())
}

func TestThoughtTranscript_Empty(t *testing.T) {
	th := &Thought{}
	require.Empty(t, th.Transcript())
}

func TestThoughtEmotionsText(t *testing.T) {
	th := &Thought{Emotions: datatypes.NewJSONSlice([]string{"ansiedad", "cansancio"})}
	require.Equal(t, "ansiedad, cansancio", th.EmotionsText())
}
