package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_NoCodesReturnsEmpty(t *testing.T) {
	spans := Segment("relatório semanal sem nenhum código de unidade aqui")
	assert.Empty(t, spans)
}

func TestSegment_SingleCodeSpansToEnd(t *testing.T) {
	text := "capa do relatório\nSBRSPAA01 Comentário: Ótimo atendimento hoje"
	spans := Segment(text)

	require.Len(t, spans, 1)
	assert.Equal(t, "SBRSPAA01", spans[0].UnitCode)
	assert.Equal(t, "SBRSPAA01 Comentário: Ótimo atendimento hoje", spans[0].Text)
}

func TestSegment_DropsTextBeforeFirstMatch(t *testing.T) {
	text := "cabeçalho irrelevante SBRSPAA01 conteúdo da unidade"
	spans := Segment(text)

	require.Len(t, spans, 1)
	assert.Equal(t, "SBRSPAA01 conteúdo da unidade", spans[0].Text)
}

func TestSegment_TwoUnits(t *testing.T) {
	text := "SBRSPAA01 Comentário: Ótimo atendimento hoje SBRSPAA02 Comentário: Muito ruim"
	spans := Segment(text)

	require.Len(t, spans, 2)
	assert.Equal(t, "SBRSPAA01", spans[0].UnitCode)
	assert.Equal(t, "SBRSPAA01 Comentário: Ótimo atendimento hoje ", spans[0].Text)
	assert.Equal(t, "SBRSPAA02", spans[1].UnitCode)
	assert.Equal(t, "SBRSPAA02 Comentário: Muito ruim", spans[1].Text)
}

func TestSegment_RepeatedCodeMergesSpans(t *testing.T) {
	text := "SBRSPAA01 primeira resposta SBRSPBB02 outra unidade SBRSPAA01 segunda resposta"
	spans := Segment(text)

	require.Len(t, spans, 2)
	assert.Equal(t, "SBRSPAA01", spans[0].UnitCode)
	assert.Equal(t, "SBRSPAA01 primeira resposta  SBRSPAA01 segunda resposta", spans[0].Text)
	assert.Equal(t, "SBRSPBB02", spans[1].UnitCode)
}

func TestSegment_FirstOccurrenceOrderPreserved(t *testing.T) {
	text := "SBRSPZZ09 a SBRSPAA01 b SBRSPZZ09 c SBRSPMM05 d"
	spans := Segment(text)

	require.Len(t, spans, 3)
	assert.Equal(t, "SBRSPZZ09", spans[0].UnitCode)
	assert.Equal(t, "SBRSPAA01", spans[1].UnitCode)
	assert.Equal(t, "SBRSPMM05", spans[2].UnitCode)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SBRSPAA01", NormalizeCode("  sbrspaa01 "))
	assert.Equal(t, "SBRSPAA01", NormalizeCode("SBRSPAA01"))
}

func TestStripCodes(t *testing.T) {
	got := StripCodes("antes SBRSPAA01 depois")
	assert.NotContains(t, got, "SBRSPAA01")
	assert.Contains(t, got, "antes")
	assert.Contains(t, got, "depois")
}
