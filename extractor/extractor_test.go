package extractor

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_SinglePage(t *testing.T) {
	data := makePDF("SBRSPAA01 Comentario: Otimo atendimento")

	got, err := ExtractText(data)
	require.NoError(t, err)
	assert.Contains(t, got, "SBRSPAA01 Comentario: Otimo atendimento")
	assert.True(t, strings.HasSuffix(got, "\n"), "page text ends with a newline")
}

func TestExtractText_MultiPageJoinsInPageOrder(t *testing.T) {
	data := makePDF("pagina um SBRSPAA01", "pagina dois SBRSPAA02")

	got, err := ExtractText(data)
	require.NoError(t, err)

	first := strings.Index(got, "pagina um SBRSPAA01")
	second := strings.Index(got, "pagina dois SBRSPAA02")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)

	// One newline per page, nothing more.
	assert.Equal(t, 2, strings.Count(got, "\n"))
	assert.True(t, strings.HasSuffix(got, "\n"))
}

func TestExtractText_EmptyPageContributesOnlyNewline(t *testing.T) {
	data := makePDF("primeira pagina", "", "terceira pagina")

	got, err := ExtractText(data)
	require.NoError(t, err)

	assert.Contains(t, got, "primeira pagina")
	assert.Contains(t, got, "terceira pagina")
	assert.Equal(t, 3, strings.Count(got, "\n"))
	// The blank middle page leaves adjacent page newlines touching.
	assert.Contains(t, got, "\n\n")
	assert.Less(t, strings.Index(got, "primeira pagina"), strings.Index(got, "terceira pagina"))
}

func TestExtractText_EmptyInput(t *testing.T) {
	_, err := ExtractText(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentParse)
}

func TestExtractText_GarbageInput(t *testing.T) {
	_, err := ExtractText([]byte("definitivamente nao e um pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentParse)
}

// makePDF builds a minimal PDF with one Helvetica text draw per page (an
// empty string yields a page with no text at all), with a correct xref
// table computed from object offsets.
func makePDF(pageTexts ...string) []byte {
	var buf bytes.Buffer
	write := func(s string) { _, _ = buf.WriteString(s) }

	write("%PDF-1.4\n")

	offsets := make([]int, 0, 4+2*len(pageTexts))
	offsets = append(offsets, 0) // object 0 is the free object

	writeObj := func(objNum int, body string) {
		offsets = append(offsets, buf.Len())
		write(fmt.Sprintf("%d 0 obj\n", objNum))
		write(body)
		if !strings.HasSuffix(body, "\n") {
			write("\n")
		}
		write("endobj\n")
	}

	// Layout: 1 catalog, 2 pages, then a page+content pair per page, the
	// shared font object last.
	fontNum := 3 + 2*len(pageTexts)
	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)))

	for i, text := range pageTexts {
		pageNum := 3 + 2*i
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>",
			pageNum+1, fontNum))

		content := "BT ET\n"
		if text != "" {
			content = fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET\n", escapePDFString(text))
		}
		writeObj(pageNum+1, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content))
	}

	writeObj(fontNum, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefOffset := buf.Len()
	write("xref\n")
	write(fmt.Sprintf("0 %d\n", len(offsets)))
	write("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		write(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}

	write("trailer\n")
	write(fmt.Sprintf("<< /Size %d /Root 1 0 R >>\n", len(offsets)))
	write("startxref\n")
	write(fmt.Sprintf("%d\n", xrefOffset))
	write("%%EOF\n")
	return buf.Bytes()
}

func escapePDFString(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return r.Replace(s)
}
