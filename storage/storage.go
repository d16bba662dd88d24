package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	uploadsCollection = "uploads"
	reportsCollection = "reports"
)

// UploadRecord keeps the upload metadata plus the verbatim extracted text,
// so a document can be reprocessed without re-uploading the PDF.
type UploadRecord struct {
	Filename       string    `firestore:"Filename" json:"filename"`
	SourceURL      string    `firestore:"SourceURL,omitempty" json:"source_url,omitempty"`
	UploadedAt     time.Time `firestore:"UploadedAt" json:"uploaded_at"`
	ExtractionDate string    `firestore:"ExtractionDate" json:"extraction_date"`
	RawText        string    `firestore:"RawText" json:"-"`
}

// ReportRecord is one unit's generated report for one report date.
type ReportRecord struct {
	UnitCode     string `firestore:"UnitCode" json:"unit_code"`
	ReportDate   string `firestore:"ReportDate" json:"report_date"`
	Report       string `firestore:"Report" json:"report"`
	CommentCount int    `firestore:"CommentCount" json:"comment_count"`
}

// ReportID is the document key for a unit report.
func ReportID(unitCode, reportDate string) string {
	return fmt.Sprintf("%s_%s", unitCode, reportDate)
}

// Store wraps the Firestore client. Construct once in main and inject.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// SaveUpload stores the upload and returns its generated document ID.
func (s *Store) SaveUpload(ctx context.Context, rec UploadRecord) (string, error) {
	ref, _, err := s.client.Collection(uploadsCollection).Add(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) GetUpload(ctx context.Context, id string) (UploadRecord, error) {
	doc, err := s.client.Collection(uploadsCollection).Doc(id).Get(ctx)
	if err != nil {
		return UploadRecord{}, err
	}
	var rec UploadRecord
	if err := doc.DataTo(&rec); err != nil {
		return UploadRecord{}, fmt.Errorf("decode upload %s: %w", id, err)
	}
	return rec, nil
}

func (s *Store) SaveUnitReport(ctx context.Context, rec ReportRecord) error {
	id := ReportID(rec.UnitCode, rec.ReportDate)
	_, err := s.client.Collection(reportsCollection).Doc(id).Set(ctx, rec)
	return err
}

func (s *Store) GetReport(ctx context.Context, id string) (ReportRecord, error) {
	doc, err := s.client.Collection(reportsCollection).Doc(id).Get(ctx)
	if err != nil {
		return ReportRecord{}, err
	}
	var rec ReportRecord
	if err := doc.DataTo(&rec); err != nil {
		return ReportRecord{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	return rec, nil
}

// ListReports returns report records, optionally filtered by unit code
// and/or report date.
func (s *Store) ListReports(ctx context.Context, unitCode, reportDate string) ([]ReportRecord, error) {
	q := s.client.Collection(reportsCollection).Query
	if unitCode != "" {
		q = q.Where("UnitCode", "==", unitCode)
	}
	if reportDate != "" {
		q = q.Where("ReportDate", "==", reportDate)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []ReportRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec ReportRecord
		if err := doc.DataTo(&rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReportExists reports whether a unit already has a report for the date.
func (s *Store) ReportExists(ctx context.Context, unitCode, reportDate string) (bool, error) {
	_, err := s.client.Collection(reportsCollection).Doc(ReportID(unitCode, reportDate)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsNotFound reports whether err is a Firestore missing-document error.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
