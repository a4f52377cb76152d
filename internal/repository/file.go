package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/domain"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

// ObjectStore is the binary side of uploads; the minio adapter implements it.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	PresignedURL(ctx context.Context, name string, expiry time.Duration) (string, error)
}

type FileRepo struct {
	Files   store.FileStore
	Objects ObjectStore
}

func NewFileRepo(files store.FileStore, objects ObjectStore) *FileRepo {
	return &FileRepo{Files: files, Objects: objects}
}

// UploadInput carries the validated pieces of a multipart upload.
type UploadInput struct {
	Name     string
	Size     int64
	MimeType string
	Category models.FileCategory
	Body     io.Reader

	ProjectID  *uuid.UUID
	ProposalID *uuid.UUID
	MessageID  *uuid.UUID
}

func sanitizeName(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := b.String()
	if s == "" || s == "." {
		s = "file"
	}
	return s
}

func storedName(original string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%d_%s_%s", time.Now().UnixNano(), hex.EncodeToString(suffix), sanitizeName(original))
}

// Upload validates size and type before anything touches object storage,
// then writes the binary and finally the metadata row. Public visibility is
// derived from the category, never taken from the caller.
func (r *FileRepo) Upload(ctx context.Context, actor *models.User, in UploadInput) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in to upload files")
	}
	if in.Size <= 0 {
		return domain.Fail(domain.CodeValidation, "File is empty")
	}
	if in.Size > models.MaxFileSize {
		return domain.Fail(domain.CodeValidation, "File exceeds the 50MB limit")
	}
	if !models.AllowedMimeTypes[in.MimeType] {
		return domain.Fail(domain.CodeValidation, "File type is not allowed")
	}
	switch in.Category {
	case models.FilePortfolioImage, models.FileProfilePhoto,
		models.FileProjectAttachment, models.FileProposalAttachment,
		models.FileMessageAttachment, models.FileDeliverable:
	default:
		return domain.Fail(domain.CodeValidation, "Unknown file category")
	}

	name := storedName(in.Name)
	if err := r.Objects.Put(ctx, name, in.Body, in.Size, in.MimeType); err != nil {
		log.Println("file: object write failed:", err)
		return domain.Internal()
	}

	rec := &models.FileRecord{
		OwnerID:      actor.ID,
		ProjectID:    in.ProjectID,
		ProposalID:   in.ProposalID,
		MessageID:    in.MessageID,
		StoredName:   name,
		OriginalName: in.Name,
		Size:         in.Size,
		MimeType:     in.MimeType,
		Category:     in.Category,
		IsPublic:     models.CategoryIsPublic(in.Category),
		UploadedAt:   time.Now(),
	}
	if err := r.Files.CreateFile(ctx, rec); err != nil {
		log.Println("file: metadata write failed:", err)
		// the binary is now an orphan; the cleanup worker will collect it
		if rmErr := r.Objects.Remove(ctx, name); rmErr != nil {
			log.Println("file: orphan removal failed:", rmErr)
		}
		return domain.Internal()
	}
	return domain.OKMsg(rec, "File uploaded")
}

// GetByID returns the metadata plus a short-lived download URL. Private
// files are visible only to their owner and admins.
func (r *FileRepo) GetByID(ctx context.Context, actor *models.User, id uuid.UUID) domain.Result {
	rec, err := r.Files.GetFile(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	if !rec.IsPublic {
		if actor == nil {
			return domain.Fail(domain.CodeUnauthorized, "Sign in first")
		}
		if !actor.CanMutate(rec.OwnerID) {
			return domain.Fail(domain.CodeForbidden, "You cannot access this file")
		}
	}

	url, err := r.Objects.PresignedURL(ctx, rec.StoredName, 15*time.Minute)
	if err != nil {
		log.Println("file: presign failed:", err)
		return domain.Internal()
	}
	return domain.OK(map[string]any{"file": rec, "url": url})
}

// Delete removes the binary first, then the metadata. A binary that is
// already gone does not block the metadata delete.
func (r *FileRepo) Delete(ctx context.Context, actor *models.User, id uuid.UUID) domain.Result {
	rec, err := r.Files.GetFile(ctx, id)
	if err != nil {
		return r.lookupFail(err)
	}
	if actor == nil || !actor.CanMutate(rec.OwnerID) {
		return domain.Fail(domain.CodeForbidden, "You cannot delete this file")
	}

	if err := r.Objects.Remove(ctx, rec.StoredName); err != nil {
		log.Println("file: object removal failed, dropping metadata anyway:", err)
	}
	if err := r.Files.DeleteFile(ctx, id); err != nil {
		log.Println("file: metadata delete failed:", err)
		return domain.Internal()
	}
	return domain.OKMsg(nil, "File deleted")
}

func (r *FileRepo) ByOwner(ctx context.Context, actor *models.User, ownerID uuid.UUID) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	if !actor.CanMutate(ownerID) {
		return domain.Fail(domain.CodeForbidden, "You cannot list these files")
	}
	items, err := r.Files.ListFilesByOwner(ctx, ownerID)
	if err != nil {
		log.Println("file: list failed:", err)
		return domain.Internal()
	}
	return domain.OK(items)
}

func (r *FileRepo) ByProject(ctx context.Context, actor *models.User, projectID uuid.UUID) domain.Result {
	if actor == nil {
		return domain.Fail(domain.CodeUnauthorized, "Sign in first")
	}
	items, err := r.Files.ListFilesByProject(ctx, projectID)
	if err != nil {
		log.Println("file: list failed:", err)
		return domain.Internal()
	}
	return domain.OK(items)
}

// CleanupOrphans removes stored objects that have no metadata row, which can
// happen when an upload dies between the object write and the insert.
// Returns the number of objects removed.
func (r *FileRepo) CleanupOrphans(ctx context.Context) (int, error) {
	known, err := r.Files.ListStoredNames(ctx)
	if err != nil {
		return 0, err
	}
	keep := make(map[string]bool, len(known))
	for _, n := range known {
		keep[n] = true
	}

	objects, err := r.Objects.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range objects {
		if keep[name] {
			continue
		}
		if err := r.Objects.Remove(ctx, name); err != nil {
			log.Println("file: orphan removal failed:", name, err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (r *FileRepo) lookupFail(err error) domain.Result {
	if errors.Is(err, store.ErrNotFound) {
		return domain.Fail(domain.CodeNotFound, "File not found")
	}
	log.Println("file: lookup failed:", err)
	return domain.Internal()
}
