package domain

import (
	"fmt"
	"strings"

	apperrors "cxassist/internal/platform/errors"
)

const MaxAttachments = 5

type Attachment struct {
	Path      string
	Name      string
	Size      int64
	MediaType string
	// Preview describes image attachments ("png 640x480"); empty otherwise.
	Preview string
}

func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MediaType, "image/")
}

// AttachmentSet holds at most MaxAttachments files in selection order.
type AttachmentSet struct {
	items []Attachment
}

func (s AttachmentSet) Len() int { return len(s.items) }

func (s AttachmentSet) Items() []Attachment {
	return append([]Attachment(nil), s.items...)
}

func (s AttachmentSet) Names() []string {
	names := make([]string, len(s.items))
	for i, a := range s.items {
		names[i] = a.Name
	}
	return names
}

// Add accepts the whole batch or none of it.
func (s *AttachmentSet) Add(batch []Attachment) error {
	if len(s.items)+len(batch) > MaxAttachments {
		return fmt.Errorf("%d selected, %d more requested: %w", len(s.items), len(batch), apperrors.ErrAttachmentLimit)
	}
	s.items = append(s.items, batch...)
	return nil
}

func (s *AttachmentSet) Clear() {
	s.items = nil
}
