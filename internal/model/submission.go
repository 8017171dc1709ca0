package model

import (
	"strings"
	"time"
)

type DocumentKind string

const (
	DocumentSingle      DocumentKind = "single"
	DocumentFixedPages  DocumentKind = "fixed_pages"
	DocumentTextMark    DocumentKind = "text_mark"
	DocumentCSVTemplate DocumentKind = "csv_template"
)

func (k DocumentKind) String() string { return string(k) }

// ParseDocumentKind normalizes input; empty => single.
func ParseDocumentKind(s string) (DocumentKind, bool) {
	switch DocumentKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", DocumentSingle:
		return DocumentSingle, true
	case DocumentFixedPages:
		return DocumentFixedPages, true
	case DocumentTextMark:
		return DocumentTextMark, true
	case DocumentCSVTemplate:
		return DocumentCSVTemplate, true
	default:
		return DocumentSingle, false
	}
}

// File travels base64 encoded in JSON.
type File struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// Document is one input file of a job. For csv_template, File is the CSV
// data and Template the document it is merged into.
type Document struct {
	Kind             DocumentKind      `json:"kind"`
	File             File              `json:"file"`
	PagesPerDocument int               `json:"pages_per_document,omitempty"`
	TextMark         string            `json:"text_mark,omitempty"`
	Template         *File             `json:"template,omitempty"`
	WithAttributes   bool              `json:"with_customer_attributes,omitempty"`
	Attributes       map[string]string `json:"customer_attributes,omitempty"`
}

// Extra is an attachment or a letter paper. With InputID set it applies to
// that input only, otherwise to the whole job.
type Extra struct {
	File           File              `json:"file"`
	InputID        string            `json:"input_id,omitempty"`
	WithAttributes bool              `json:"with_customer_attributes,omitempty"`
	Attributes     map[string]string `json:"customer_attributes,omitempty"`
}

// Submission is a complete mailing order: one prepared job, its documents
// and extras, committed at the end.
type Submission struct {
	Reference      string            `json:"reference,omitempty"`
	WithAttributes bool              `json:"with_customer_attributes,omitempty"`
	Attributes     map[string]string `json:"customer_attributes,omitempty"`
	Documents      []Document        `json:"documents"`
	Attachments    []Extra           `json:"attachments,omitempty"`
	LetterPaper    []Extra           `json:"letter_paper,omitempty"`
}

type StepResult struct {
	Operation string `json:"operation"`
	Result    any    `json:"result"`
}

type SubmissionResult struct {
	JobID    string       `json:"job_id"`
	OrderID  string       `json:"order_id"`
	Released bool         `json:"released"`
	Steps    []StepResult `json:"steps"`
}

// SubmissionEnvelope is the payload published to Kafka through the outbox.
type SubmissionEnvelope struct {
	ID         string     `json:"id"`        // submission ULID
	ClientID   int64      `json:"client_id"` // api client id, 0 for CLI
	Submission Submission `json:"submission"`
}

type SubmissionStatus string

const (
	SubmissionQueued     SubmissionStatus = "queued"
	SubmissionProcessing SubmissionStatus = "processing" // claimed by a submitter
	SubmissionCommitted  SubmissionStatus = "committed"
	SubmissionFailed     SubmissionStatus = "failed"
)

func (s SubmissionStatus) String() string { return string(s) }

// SubmissionRecord is the DB entity persisted in econnect_submissions.
type SubmissionRecord struct {
	ID        string           `db:"id" json:"id"`
	ClientID  int64            `db:"client_id" json:"client_id"`
	Reference string           `db:"reference" json:"reference"`
	Status    SubmissionStatus `db:"status" json:"status"`
	JobID     string           `db:"job_id" json:"job_id"`
	OrderID   string           `db:"order_id" json:"order_id"`
	Error     string           `db:"error" json:"error,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
