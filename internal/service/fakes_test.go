package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/skill-connect/internal/domain"
	"github.com/msomdec/skill-connect/internal/service"
)

// memKV is an in-memory domain.KVStore that records writes.
type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	sets   int
	getErr error
	setErr error
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) stored(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memKV) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// stubReader encodes upload content verbatim as video/mp4 unless err is set.
type stubReader struct {
	err error
}

func (r stubReader) ReadDataURI(ctx context.Context, upload *domain.Upload) (domain.DataURI, error) {
	if r.err != nil {
		return domain.DataURI{}, r.err
	}
	data, err := io.ReadAll(upload.Content)
	if err != nil {
		return domain.DataURI{}, fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}
	return domain.NewDataURI("video/mp4", data), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

// sequentialIDs returns id-1, id-2, ... and counts how many were handed out.
type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialIDs) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func (g *sequentialIDs) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// tickingClock advances one second per call, at millisecond precision so
// timestamps survive a snapshot round trip.
type tickingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *tickingClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type testStore struct {
	store *service.ProfileStore
	kv    *memKV
	ids   *sequentialIDs
}

func newTestStore(t *testing.T, reader domain.FileReader) testStore {
	t.Helper()
	kv := newMemKV()
	ids := &sequentialIDs{}
	clock := &tickingClock{cur: time.UnixMilli(1_700_000_000_000)}
	store := service.NewProfileStore(kv, reader,
		service.WithIDGenerator(ids.next),
		service.WithClock(clock.now),
		service.WithLogger(discardLogger()),
	)
	store.Initialize(context.Background())
	return testStore{store: store, kv: kv, ids: ids}
}

func mustCreate(t *testing.T, s *service.ProfileStore, name, skills string, upload *domain.Upload) domain.Profile {
	t.Helper()
	p, err := s.CreateProfile(context.Background(), domain.ProfileInput{
		Name:   name,
		Skills: skills,
		Email:  name + "@example.com",
		Phone:  "555-0100",
	}, upload)
	if err != nil {
		t.Fatalf("CreateProfile(%s): %v", name, err)
	}
	return p
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
