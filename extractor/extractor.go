package extractor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ErrDocumentParse means the PDF could not be opened or decoded (corrupt,
// encrypted, or no usable structure). Fatal for the upload: the segmenter
// needs the full text to find unit boundaries.
var ErrDocumentParse = errors.New("document cannot be parsed")

// ExtractText flattens a PDF's text layer into a single string: page text in
// page order, one newline appended after each page. A page with no text
// contributes only its newline.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrDocumentParse)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}

	var buf bytes.Buffer
	n := r.NumPage()
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			buf.WriteByte('\n')
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			// A single undecodable page loses its text, not the document.
			buf.WriteByte('\n')
			continue
		}
		buf.WriteString(content)
		buf.WriteByte('\n')
	}

	return buf.String(), nil
}
