package orchestration

import (
	"fmt"
	"slices"

	"github.com/omnifolio/assistant-core/core/assistant"
)

// AttachmentPolicy bounds what a submission may carry. Zero fields mean no
// restriction for that dimension.
type AttachmentPolicy struct {
	AllowedMIMETypes []string
	MaxSizeBytes     int64
	MaxCount         int
}

func defaultAttachmentPolicy() AttachmentPolicy {
	return AttachmentPolicy{
		AllowedMIMETypes: []string{
			"image/png",
			"image/jpeg",
			"image/webp",
			"application/pdf",
			"text/csv",
		},
		MaxSizeBytes: 10 << 20,
		MaxCount:     5,
	}
}

func (p AttachmentPolicy) validate(attachments []assistant.Attachment) error {
	if p.MaxCount > 0 && len(attachments) > p.MaxCount {
		return fmt.Errorf("too many attachments: %d, at most %d allowed", len(attachments), p.MaxCount)
	}

	for _, attachment := range attachments {
		if len(p.AllowedMIMETypes) > 0 && !slices.Contains(p.AllowedMIMETypes, attachment.MIMEType) {
			return fmt.Errorf("attachment %q has unsupported type %q", attachment.Name, attachment.MIMEType)
		}
		if p.MaxSizeBytes > 0 && attachment.SizeBytes > p.MaxSizeBytes {
			return fmt.Errorf("attachment %q exceeds the %d byte limit", attachment.Name, p.MaxSizeBytes)
		}
	}

	return nil
}
