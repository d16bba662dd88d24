package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var pdfMagic = []byte("%PDF")

// Fetcher downloads survey-export PDFs for the ingest-by-URL path.
type Fetcher struct {
	client *resty.Client
}

func New() *Fetcher {
	return &Fetcher{
		client: resty.New().SetTimeout(60 * time.Second),
	}
}

// DownloadPDF fetches the document and sanity-checks that it is a PDF
// before handing the bytes to the extractor.
func (f *Fetcher) DownloadPDF(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download PDF: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download PDF: %s returned %s", url, resp.Status())
	}

	data := resp.Body()
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("download PDF: %s is not a PDF", url)
	}
	return data, nil
}
