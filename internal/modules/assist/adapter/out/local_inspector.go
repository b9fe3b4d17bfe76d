package out

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"cxassist/internal/modules/assist/domain"
	assistout "cxassist/internal/modules/assist/port/out"
	apperrors "cxassist/internal/platform/errors"
)

const sniffLen = 512

type LocalAttachmentInspector struct{}

func NewLocalAttachmentInspector() assistout.AttachmentInspector {
	return &LocalAttachmentInspector{}
}

func (LocalAttachmentInspector) Inspect(_ context.Context, path string) (domain.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Attachment{}, fmt.Errorf("attachment %s: %w", path, apperrors.ErrNotFound)
		}
		return domain.Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return domain.Attachment{}, fmt.Errorf("attachment %s is a directory: %w", path, apperrors.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	att := domain.Attachment{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		MediaType: mime.TypeByExtension(filepath.Ext(path)),
	}
	if att.MediaType == "" {
		head := make([]byte, sniffLen)
		n, _ := io.ReadFull(f, head)
		att.MediaType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return domain.Attachment{}, fmt.Errorf("rewind attachment: %w", err)
		}
	}
	if att.IsImage() {
		if cfg, format, err := image.DecodeConfig(f); err == nil {
			att.Preview = fmt.Sprintf("%s %dx%d", format, cfg.Width, cfg.Height)
		}
	}
	return att, nil
}
