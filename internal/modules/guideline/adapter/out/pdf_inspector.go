package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	"cxassist/internal/modules/guideline/domain"
	guidelineout "cxassist/internal/modules/guideline/port/out"
)

type LocalPDFInspector struct{}

func NewLocalPDFInspector() guidelineout.PDFInspector {
	return &LocalPDFInspector{}
}

func (LocalPDFInspector) Inspect(_ context.Context, path string) (doc domain.Document, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("stat pdf: %w", err)
	}
	// rsc.io/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = domain.Document{}, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err := pdf.Open(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("open pdf: %w", err)
	}
	return domain.Document{
		Path:  path,
		Name:  filepath.Base(path),
		Size:  info.Size(),
		Pages: reader.NumPage(),
		Title: strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text()),
	}, nil
}
