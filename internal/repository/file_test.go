package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

// memObjects is an in-memory ObjectStore for the tests.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	failPut bool
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte)}
}

func (m *memObjects) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.failPut {
		return errors.New("storage offline")
	}
	b, _ := io.ReadAll(r)
	m.objects[name] = b
	return nil
}

func (m *memObjects) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, name)
	return nil
}

func (m *memObjects) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.objects))
	for n := range m.objects {
		names = append(names, n)
	}
	return names, nil
}

func (m *memObjects) PresignedURL(ctx context.Context, name string, expiry time.Duration) (string, error) {
	return "https://files.local/" + name, nil
}

func uploadInput(category models.FileCategory) UploadInput {
	body := []byte("file contents")
	return UploadInput{
		Name:     "Design Brief.pdf",
		Size:     int64(len(body)),
		MimeType: "application/pdf",
		Category: category,
		Body:     bytes.NewReader(body),
	}
}

func TestFileUploadValidation(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjects()
	repo := NewFileRepo(store.NewMemory(), objects)
	u := freelancer()

	t.Run("oversize never reaches storage", func(t *testing.T) {
		in := uploadInput(models.FileDeliverable)
		in.Size = models.MaxFileSize + 1
		res := repo.Upload(ctx, u, in)
		assert.Equal(t, domain.CodeValidation, res.Code)
		assert.Contains(t, res.Error, "50MB")
		assert.Zero(t, objects.puts)
	})

	t.Run("disallowed type never reaches storage", func(t *testing.T) {
		in := uploadInput(models.FileDeliverable)
		in.MimeType = "application/x-msdownload"
		res := repo.Upload(ctx, u, in)
		assert.Equal(t, domain.CodeValidation, res.Code)
		assert.Zero(t, objects.puts)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		in := uploadInput(models.FileCategory("mystery"))
		res := repo.Upload(ctx, u, in)
		assert.Equal(t, domain.CodeValidation, res.Code)
		assert.Zero(t, objects.puts)
	})

	t.Run("anonymous uploads rejected", func(t *testing.T) {
		res := repo.Upload(ctx, nil, uploadInput(models.FileDeliverable))
		assert.Equal(t, domain.CodeUnauthorized, res.Code)
	})
}

func TestFileUploadVisibilityFromCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepo(store.NewMemory(), newMemObjects())
	u := freelancer()

	public := repo.Upload(ctx, u, uploadInput(models.FilePortfolioImage))
	require.True(t, public.Success)
	assert.True(t, public.Data.(*models.FileRecord).IsPublic)

	private := repo.Upload(ctx, u, uploadInput(models.FileDeliverable))
	require.True(t, private.Success)
	assert.False(t, private.Data.(*models.FileRecord).IsPublic)
}

func TestFileStoredNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepo(store.NewMemory(), newMemObjects())
	u := freelancer()

	a := repo.Upload(ctx, u, uploadInput(models.FileDeliverable))
	b := repo.Upload(ctx, u, uploadInput(models.FileDeliverable))
	require.True(t, a.Success)
	require.True(t, b.Success)
	assert.NotEqual(t,
		a.Data.(*models.FileRecord).StoredName,
		b.Data.(*models.FileRecord).StoredName)
}

func TestFileAccessControl(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepo(store.NewMemory(), newMemObjects())
	owner := freelancer()

	private := repo.Upload(ctx, owner, uploadInput(models.FileDeliverable))
	require.True(t, private.Success)
	id := private.Data.(*models.FileRecord).ID

	res := repo.GetByID(ctx, owner, id)
	assert.True(t, res.Success)

	res = repo.GetByID(ctx, freelancer(), id)
	assert.Equal(t, domain.CodeForbidden, res.Code)

	res = repo.GetByID(ctx, nil, id)
	assert.Equal(t, domain.CodeUnauthorized, res.Code)

	res = repo.GetByID(ctx, admin(), id)
	assert.True(t, res.Success)

	// public files are readable without a session
	public := repo.Upload(ctx, owner, uploadInput(models.FileProfilePhoto))
	require.True(t, public.Success)
	res = repo.GetByID(ctx, nil, public.Data.(*models.FileRecord).ID)
	assert.True(t, res.Success)
}

func TestFileDelete(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjects()
	mem := store.NewMemory()
	repo := NewFileRepo(mem, objects)
	owner := freelancer()

	up := repo.Upload(ctx, owner, uploadInput(models.FileDeliverable))
	require.True(t, up.Success)
	rec := up.Data.(*models.FileRecord)

	res := repo.Delete(ctx, freelancer(), rec.ID)
	assert.Equal(t, domain.CodeForbidden, res.Code)

	res = repo.Delete(ctx, owner, rec.ID)
	require.True(t, res.Success)

	_, err := mem.GetFile(ctx, rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	names, _ := objects.List(ctx)
	assert.Empty(t, names)
}

func TestFileCleanupOrphans(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjects()
	repo := NewFileRepo(store.NewMemory(), objects)
	owner := freelancer()

	kept := repo.Upload(ctx, owner, uploadInput(models.FileDeliverable))
	require.True(t, kept.Success)

	// orphan: bytes in storage, no metadata row
	require.NoError(t, objects.Put(ctx, "stray_object", bytes.NewReader([]byte("x")), 1, "text/plain"))

	removed, err := repo.CleanupOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	names, _ := objects.List(ctx)
	assert.Equal(t, []string{kept.Data.(*models.FileRecord).StoredName}, names)
}

func TestFileUploadStorageFailure(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjects()
	objects.failPut = true
	mem := store.NewMemory()
	repo := NewFileRepo(mem, objects)

	res := repo.Upload(ctx, freelancer(), uploadInput(models.FileDeliverable))
	assert.False(t, res.Success)
	assert.Equal(t, domain.CodeInternal, res.Code)

	// no metadata row left behind
	names, err := mem.ListStoredNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}
