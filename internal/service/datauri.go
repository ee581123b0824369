package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/msomdec/skill-connect/internal/domain"
)

const fallbackMIMEType = "application/octet-stream"

// videoExtensions covers clip formats the platform MIME table may lack.
var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".ogv":  "video/ogg",
}

// DataURIReader implements domain.FileReader by reading an upload fully into
// memory and encoding it as a base64 data URI.
type DataURIReader struct{}

// NewDataURIReader creates a new DataURIReader.
func NewDataURIReader() *DataURIReader {
	return &DataURIReader{}
}

// ReadDataURI reads the upload content and encodes it. The MIME type is
// sniffed from the bytes, falling back to the file extension.
func (r *DataURIReader) ReadDataURI(ctx context.Context, upload *domain.Upload) (domain.DataURI, error) {
	if upload == nil || upload.Content == nil {
		return domain.DataURI{}, fmt.Errorf("%w: no content", domain.ErrFileRead)
	}
	if err := ctx.Err(); err != nil {
		return domain.DataURI{}, fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}

	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return domain.DataURI{}, fmt.Errorf("%w: read %q: %w", domain.ErrFileRead, upload.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.DataURI{}, fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}

	return domain.NewDataURI(detectMIMEType(upload.Name, data), data), nil
}

func detectMIMEType(name string, data []byte) string {
	detected := baseMIMEType(mimetype.Detect(data).String())
	if detected != fallbackMIMEType {
		return detected
	}
	ext := strings.ToLower(filepath.Ext(name))
	if byExt, ok := videoExtensions[ext]; ok {
		return byExt
	}
	if byExt := baseMIMEType(mime.TypeByExtension(ext)); byExt != "" {
		return byExt
	}
	return fallbackMIMEType
}

// baseMIMEType drops parameters such as charset so the type fits in a data
// URI header.
func baseMIMEType(t string) string {
	base, _, _ := strings.Cut(t, ";")
	return strings.TrimSpace(base)
}
