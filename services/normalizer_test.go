package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"accents stripped", "¿Dónde está la oficina?", "donde esta la oficina"},
		{"punctuation to spaces", "hola,mundo!(ya)", "hola mundo ya"},
		{"exaggerated runs collapse", "holaaaa quéeee tal", "hola que tal"},
		{"double letters survive", "llamar allá", "llamar alla"},
		{"whitespace squeezed", "  hola    mundo  ", "hola mundo"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"¡Holaaaa! ¿Cómo estás?",
		"DIRECCIÓN de la sucursal (centro)",
		"horarios///sábados",
		"",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once))
	}
}

func TestNormalizeTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"horarios y direcciones", []string{"horario", "y", "direccione"}},
		// Short words ending in "s" are kept as-is.
		{"mes tres", []string{"mes", "tre"}},
		{"dos", []string{"dos"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := NormalizeTokens(tt.input)
		if tt.want == nil {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, tt.want, got)
	}
}
