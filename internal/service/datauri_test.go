package service_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/skill-connect/internal/domain"
	"github.com/msomdec/skill-connect/internal/service"
)

// A minimal MP4 header: size, "ftyp", brand "isom".
var mp4Header = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'i', 's', 'o', '2'}

func TestDataURIReader_DetectsContentType(t *testing.T) {
	r := service.NewDataURIReader()

	got, err := r.ReadDataURI(context.Background(), &domain.Upload{Name: "clip", Content: strings.NewReader(string(mp4Header))})
	require.NoError(t, err)

	assert.Equal(t, "video/mp4", got.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(mp4Header), got.Payload)
}

func TestDataURIReader_StripsParameters(t *testing.T) {
	r := service.NewDataURIReader()

	got, err := r.ReadDataURI(context.Background(), &domain.Upload{Name: "notes.txt", Content: strings.NewReader("plain words")})
	require.NoError(t, err)

	assert.Equal(t, "text/plain", got.MIMEType)
	assert.True(t, strings.HasPrefix(got.String(), "data:text/plain;base64,"))
}

func TestDataURIReader_FallsBackToExtension(t *testing.T) {
	r := service.NewDataURIReader()

	got, err := r.ReadDataURI(context.Background(), &domain.Upload{Name: "clip.mp4", Content: strings.NewReader("\x00\x01\x02\x03")})
	require.NoError(t, err)

	assert.Equal(t, "video/mp4", got.MIMEType)
}

func TestDataURIReader_UnknownContent(t *testing.T) {
	r := service.NewDataURIReader()

	got, err := r.ReadDataURI(context.Background(), &domain.Upload{Name: "", Content: strings.NewReader("\x00\x01\x02\x03")})
	require.NoError(t, err)

	assert.Equal(t, "application/octet-stream", got.MIMEType)
}

func TestDataURIReader_Errors(t *testing.T) {
	r := service.NewDataURIReader()

	_, err := r.ReadDataURI(context.Background(), &domain.Upload{Name: "x", Content: failingReader{}})
	assert.ErrorIs(t, err, domain.ErrFileRead)

	_, err = r.ReadDataURI(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrFileRead)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ReadDataURI(ctx, &domain.Upload{Name: "x", Content: strings.NewReader("data")})
	assert.ErrorIs(t, err, domain.ErrFileRead)
	assert.ErrorIs(t, err, context.Canceled)
}
