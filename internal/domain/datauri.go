package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	dataURIScheme    = "data:"
	dataURIBase64Tag = ";base64"
)

// DataURI is content encoded as a MIME type plus a base64 payload.
type DataURI struct {
	MIMEType string
	Payload  string
}

// NewDataURI encodes raw bytes under the given MIME type.
func NewDataURI(mimeType string, data []byte) DataURI {
	return DataURI{MIMEType: mimeType, Payload: base64.StdEncoding.EncodeToString(data)}
}

// String renders the URI as data:<mime>;base64,<payload>.
func (d DataURI) String() string {
	return dataURIScheme + d.MIMEType + dataURIBase64Tag + "," + d.Payload
}

// Decode returns the raw bytes of the payload.
func (d DataURI) Decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(d.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri payload: %w", err)
	}
	return data, nil
}

// ParseDataURI parses the base64 form of a data URI. Non-base64 data URIs
// are rejected.
func ParseDataURI(s string) (DataURI, error) {
	rest, ok := strings.CutPrefix(s, dataURIScheme)
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidInput)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing payload separator", ErrInvalidInput)
	}
	mimeType, ok := strings.CutSuffix(header, dataURIBase64Tag)
	if !ok {
		return DataURI{}, fmt.Errorf("%w: data uri is not base64 encoded", ErrInvalidInput)
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return DataURI{}, fmt.Errorf("%w: bad base64 payload", ErrInvalidInput)
	}
	return DataURI{MIMEType: mimeType, Payload: payload}, nil
}
