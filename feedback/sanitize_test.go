package feedback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_LengthBoundary(t *testing.T) {
	// Exactly 10 characters after trim is still a fragment; 11 is feedback.
	ten := "abcdefghij"
	eleven := "abcdefghijk"

	assert.Empty(t, Sanitize([]string{ten, "  " + ten + "  "}))
	assert.Equal(t, []string{eleven}, Sanitize([]string{eleven}))
}

func TestSanitize_RuneCountNotByteCount(t *testing.T) {
	// 10 runes, more than 10 bytes.
	assert.Empty(t, Sanitize([]string{"áéíóúâêôãç"}))
}

func TestSanitize_DropsPurelyNumeric(t *testing.T) {
	assert.Empty(t, Sanitize([]string{"12345678901", "123456789,50"}))
}

func TestSanitize_DropsSentimentLabels(t *testing.T) {
	assert.Empty(t, Sanitize([]string{"Promotor", "DETRATOR", "Neutral", "promoter"}))
}

func TestSanitize_DropsRefusedContactPhraseRegardlessOfLength(t *testing.T) {
	assert.Empty(t, Sanitize([]string{"Cliente não autorizou contato"}))
	assert.Empty(t, Sanitize([]string{"  cliente NÃO autorizou contato  "}))
}

func TestSanitize_StripsReferenceTokensAndPaths(t *testing.T) {
	got := Sanitize([]string{
		"Ótima aula de spinning #12345",
		"Piscina estava gelada (/surveys/abc-123)",
	})
	assert.Equal(t, []string{
		"Ótima aula de spinning",
		"Piscina estava gelada",
	}, got)
}

func TestSanitize_DedupePreservesFirstSeenOrder(t *testing.T) {
	a := "Atendimento excelente"
	b := "Banheiro precisa de reforma"

	got := Sanitize([]string{a, b, a})
	assert.Equal(t, []string{a, b}, got)
}

func TestSanitize_Idempotent(t *testing.T) {
	input := []string{
		"Cliente não autorizou contato",
		"Atendimento excelente #99",
		"Promotor",
		"Equipamentos novos chegaram",
		"Equipamentos novos chegaram",
		"10",
	}

	once := Sanitize(input)
	twice := Sanitize(once)
	assert.Equal(t, once, twice)
}

func TestSanitize_KeepsRealFeedbackUntouched(t *testing.T) {
	comment := "A recepção foi muito atenciosa e resolveu meu problema"
	got := Sanitize([]string{comment})
	assert.Equal(t, []string{comment}, got)
}

func TestSanitize_LongNoiseOnlyCandidateDropped(t *testing.T) {
	// Stripping the phrase list empties the candidate even though the raw
	// string is well past the length cutoff.
	long := strings.Repeat("Sem contato ", 4)
	assert.Empty(t, Sanitize([]string{long}))
}