package out

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeMinimalPDF writes a PDF with the given page count and title.
func writeMinimalPDF(t *testing.T, path string, pages int, title string) {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 4+i)
	}
	objects = append(objects,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
		fmt.Sprintf("<< /Title (%s) >>", title),
	)
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 3 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestLocalPDFInspectorReadsPagesAndTitle(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "policy.pdf")
	writeMinimalPDF(t, path, 2, "Refund Policy")

	doc, err := NewLocalPDFInspector().Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if doc.Name != "policy.pdf" || doc.Pages != 2 || doc.Title != "Refund Policy" || doc.Size == 0 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestLocalPDFInspectorRejectsNonPDF(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(fake, []byte("just some text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewLocalPDFInspector().Inspect(context.Background(), fake); err == nil {
		t.Fatalf("expected error for non-pdf content")
	}
	if _, err := NewLocalPDFInspector().Inspect(context.Background(), filepath.Join(dir, "missing.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
