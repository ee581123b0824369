package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	payload := []byte(`[{"id":"a","videos":[{"id":"v","dataUri":"data:video/mp4;base64,AAAA"}]}]`)

	compressed, err := compress(payload)
	require.NoError(t, err)
	assert.NotEqual(t, payload, compressed)

	got, err := decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDecompress_RejectsPlainBytes(t *testing.T) {
	_, err := decompress([]byte("not gzip"))
	assert.Error(t, err)
}

func TestKVStore_UnreachableServer(t *testing.T) {
	// Nothing listens on port 1; the client reports the dial failure.
	s := NewKVStore(Config{Addr: "127.0.0.1:1"})
	defer s.Close()

	assert.Error(t, s.Ping(context.Background()))
	_, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
}
