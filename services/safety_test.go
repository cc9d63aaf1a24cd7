package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faq-bot/config"
)

func TestSanitize(t *testing.T) {
	f := NewSafetyFilter(config.DefaultPhrases())

	tests := []struct {
		name    string
		input   string
		blocked bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n", true},
		{"error marker", "Error al contactar con el modelo", true},
		{"blocklist phrase", "Como modelo de lenguaje no puedo opinar sobre eso.", true},
		{"refusal pattern", "No tengo información sobre ese tema.", true},
		{"refusal pattern accented", "No encontré información al respecto.", true},
		{"clean answer", "Atendemos de lunes a viernes de 8am a 5pm.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, blocked := f.Sanitize(tt.input)
			assert.Equal(t, tt.blocked, blocked)
		})
	}
}

func TestSanitizeTrimsWhitespace(t *testing.T) {
	f := NewSafetyFilter(config.DefaultPhrases())

	got, blocked := f.Sanitize("  Respuesta válida.  ")
	assert.False(t, blocked)
	assert.Equal(t, "Respuesta válida.", got)
}

func TestIsGrounded(t *testing.T) {
	f := NewSafetyFilter(config.DefaultPhrases())
	context := "Ofrecemos crédito personal. Más información: https://example.com/credito. " +
		"También crédito hipotecario en oficinas seleccionadas."

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain answer", "Ofrecemos crédito personal.", true},
		{"forbidden term present in context", "Tenemos crédito hipotecario.", true},
		{"forbidden term absent from context", "Ofrecemos crédito automotriz.", false},
		{"url present in context", "Visitá https://example.com/credito para más detalles.", true},
		{"url invented", "Visitá https://example.com/otro para más detalles.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsGrounded(tt.text, context))
		})
	}
}
