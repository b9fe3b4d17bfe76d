package out

import (
	"context"

	"cxassist/internal/modules/guideline/domain"
)

// PDFInspector opens a file as a PDF document and describes it.
type PDFInspector interface {
	Inspect(ctx context.Context, path string) (domain.Document, error)
}
