package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/skill-connect/internal/domain"
)

// fakeObjects is an in-memory objectAPI.
type fakeObjects struct {
	bucketExists    bool
	bucketExistsErr error
	madeBucket      bool
	makeBucketErr   error
	putErr          error
	getErr          error

	objects     map[string][]byte
	contentType string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{bucketExists: true, objects: make(map[string][]byte)}
}

func (f *fakeObjects) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}

func (f *fakeObjects) PutObject(_ context.Context, _ string, name string, r io.Reader, _ int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.objects[name] = data
	f.contentType = opts.ContentType
	return minioLib.UploadInfo{Key: name, Size: int64(len(data))}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, _ string, name string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[name]
	if !ok {
		return nil, minioLib.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestNewKVStore_CreatesMissingBucket(t *testing.T) {
	api := newFakeObjects()
	api.bucketExists = false

	s, err := newKVStore(context.Background(), api, "profiles")
	require.NoError(t, err)
	assert.Equal(t, "profiles", s.bucket)
	assert.True(t, api.madeBucket)
}

func TestNewKVStore_BucketErrors(t *testing.T) {
	api := newFakeObjects()
	api.bucketExistsErr = errors.New("boom")
	_, err := newKVStore(context.Background(), api, "profiles")
	assert.Error(t, err)

	api = newFakeObjects()
	api.bucketExists = false
	api.makeBucketErr = errors.New("denied")
	_, err = newKVStore(context.Background(), api, "profiles")
	assert.Error(t, err)
}

func TestKVStore_SetGet(t *testing.T) {
	api := newFakeObjects()
	s, err := newKVStore(context.Background(), api, "profiles")
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "k", []byte(`[]`)))
	assert.Equal(t, "application/json", api.contentType)

	got, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestKVStore_GetMissingKey(t *testing.T) {
	s, err := newKVStore(context.Background(), newFakeObjects(), "profiles")
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKVStore_BackendErrors(t *testing.T) {
	api := newFakeObjects()
	s, err := newKVStore(context.Background(), api, "profiles")
	require.NoError(t, err)

	api.getErr = errors.New("timeout")
	_, err = s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	api.putErr = errors.New("quota")
	assert.Error(t, s.Set(context.Background(), "k", []byte("x")))
}
