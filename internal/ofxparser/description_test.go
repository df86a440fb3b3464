package ofxparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDescription(t *testing.T) {
	tests := []struct {
		name string
		memo string
		want string
	}{
		{"Loja ABC", "Loja ABC", "Loja ABC"},
		{"Loja ABC", "", "Loja ABC"},
		{"", "Compra", "Compra"},
		{"", "", "Sem descrição"},
		{"Posto", "Posto Shell Unidade 2", "Posto Shell Unidade 2"},
		{"Farmacia", "Compra Cartao", "Farmacia - Compra Cartao"},
		{"LOJA abc", "loja ABC", "LOJA abc"},
		{"posto", "POSTO SHELL", "POSTO SHELL"},
		{"  Mercado  ", "   ", "Mercado"},
		{"Posto Shell Unidade 2", "Posto", "Posto Shell Unidade 2 - Posto"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"|"+tt.memo, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildDescription(tt.name, tt.memo))
		})
	}
}
