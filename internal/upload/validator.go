package upload

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
)

// MaxFiles is the most media files any report may carry.
const MaxFiles = 2

// DefaultMaxBytes is the per-file size limit.
const DefaultMaxBytes int64 = 50 * 1024 * 1024

// Error messages returned to clients.
const (
	MsgMediaRequired    = "At least one media file is required"
	MsgTooManyFiles     = "At most 2 media files are allowed"
	MsgSingleMediaOnly  = "Report type allows only one media file"
	MsgUnsupportedMedia = "Only JPEG/PNG images and MP4/WebM videos are allowed"
)

// allowedTypes maps an accepted extension to the MIME type it must be declared with.
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// Validate checks a set of uploaded files against the rules of the report type.
// Nothing is read or written; it only inspects the headers.
func Validate(files []*multipart.FileHeader, reportType model.ReportType, maxBytes int64) error {
	if len(files) == 0 {
		return apperrors.Validation(MsgMediaRequired)
	}
	if len(files) > MaxFiles {
		return apperrors.Validation(MsgTooManyFiles)
	}
	if len(files) > reportType.MaxMedia() {
		return apperrors.Validation(MsgSingleMediaOnly)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	for _, fh := range files {
		if !allowed(fh) {
			return apperrors.UnsupportedMedia(MsgUnsupportedMedia)
		}
		if fh.Size > maxBytes {
			return apperrors.PayloadTooLarge(fmt.Sprintf("File %q exceeds the %d MB limit", fh.Filename, maxBytes/(1024*1024)))
		}
	}
	return nil
}

func allowed(fh *multipart.FileHeader) bool {
	want, ok := allowedTypes[strings.ToLower(filepath.Ext(fh.Filename))]
	if !ok {
		return false
	}
	declared, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return declared == want
}
