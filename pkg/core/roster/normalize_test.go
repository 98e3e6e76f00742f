package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAreaMatches(t *testing.T) {
	tests := []struct {
		name  string
		areas []string
		label string
		want  bool
	}{
		{"diacritics and case fold", []string{"yeşil"}, "YEŞİL ALAN", true},
		{"ascii tag against turkish label", []string{"yesil"}, "Yeşil Alan", true},
		{"dotless i folds", []string{"KIRMIZI"}, "kırmızı alan", true},
		{"substring of tag", []string{"Acil Servis"}, "acil", true},
		{"tag inside label", []string{"dahiliye"}, "Dahiliye Poliklinik", true},
		{"half of slot tokens", []string{"pediatri acil"}, "acil pediatri", true},
		{"less than half of slot tokens", []string{"pediatri"}, "acil cerrahi ortopedi", false},
		{"different area", []string{"Kırmızı"}, "Yeşil", false},
		{"no tags skips filtering", nil, "Yeşil", true},
		{"label of noise words only", []string{"Kırmızı"}, "Alan ve Birim", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AreaMatches(tt.areas, tt.label))
		})
	}
}

func TestTokens_DropsNoiseWords(t *testing.T) {
	assert.Equal(t, []string{"yesil"}, Tokens("YEŞİL ALAN"))
	assert.Equal(t, []string{"acil", "triaj"}, Tokens("Acil ve Triaj Görev"))
	assert.Empty(t, Tokens(" - "))
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, NormalizeLabel("Yeşil Alan"), NormalizeLabel("YESIL"))
	assert.Equal(t, "acil servis", NormalizeLabel("  ACİL   Servis "))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "N1", NormalizeCode(" n 1 "))
	assert.Equal(t, "KS", NormalizeCode("kş"))
	assert.Equal(t, "M4", NormalizeCode("m4"))
}
