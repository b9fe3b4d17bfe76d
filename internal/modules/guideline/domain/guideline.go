package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "cxassist/internal/platform/errors"
)

// Document is a validated guideline PDF.
type Document struct {
	Path  string
	Name  string
	Size  int64
	Pages int
	Title string
}

type Kind int

const (
	KindPDF Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "pdf"
}

// Ack is the local acknowledgement of an ingest request.
type Ack struct {
	Kind    Kind
	Message string
	Name    string
}

// HasPDFExtension reports whether path ends in .pdf, case-insensitively.
func HasPDFExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Staging holds at most one PDF and one block of pasted text.
type Staging struct {
	pdf  *Document
	text string
}

func (s *Staging) StagePDF(doc Document) {
	s.pdf = &doc
}

func (s *Staging) ClearPDF() {
	s.pdf = nil
}

func (s *Staging) SetText(text string) {
	s.text = text
}

func (s *Staging) Text() string { return s.text }

func (s *Staging) PDF() (Document, bool) {
	if s.pdf == nil {
		return Document{}, false
	}
	return *s.pdf, true
}

// Ingest acknowledges the staged PDF, or the text when no PDF is staged, and
// clears what it acknowledged.
func (s *Staging) Ingest() (Ack, error) {
	if s.pdf != nil {
		name := s.pdf.Name
		s.pdf = nil
		return Ack{
			Kind:    KindPDF,
			Name:    name,
			Message: fmt.Sprintf("Uploading %s for guideline ingestion.", name),
		}, nil
	}
	if strings.TrimSpace(s.text) != "" {
		s.text = ""
		return Ack{Kind: KindText, Message: "Ingesting text guidelines."}, nil
	}
	return Ack{}, apperrors.ErrNothingToIngest
}
