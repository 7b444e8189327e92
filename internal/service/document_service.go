package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"

	"docmanager/internal/errors"
	"docmanager/internal/model"
	"docmanager/internal/policy"
	"docmanager/internal/store"
)

const (
	documentIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	documentIDSize     = 12

	defaultDescription = "Uploaded document"
	unknownFileType    = "unknown"
)

// DocumentService applies the access policy to document reads and writes.
type DocumentService interface {
	List(ctx context.Context, actor model.Actor, includeExpired bool) ([]model.Document, error)
	Search(ctx context.Context, actor model.Actor, query string) ([]model.Document, error)
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Document, error)
	Upload(ctx context.Context, actor model.Actor, meta model.FileMeta, opts model.UploadOptions) (*model.Document, error)
	Update(ctx context.Context, actor model.Actor, id string, patch model.DocumentPatch) (*model.Document, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type documentService struct {
	store store.EntityStore
	now   func() time.Time
	newID func() (string, error)
	log   logrus.FieldLogger
}

// NewDocumentService creates a new document service. A nil clock means time.Now.
func NewDocumentService(st store.EntityStore, now func() time.Time, log logrus.FieldLogger) DocumentService {
	if now == nil {
		now = time.Now
	}
	return &documentService{
		store: st,
		now:   now,
		newID: newDocumentID,
		log:   log,
	}
}

func newDocumentID() (string, error) {
	id, err := gonanoid.Generate(documentIDAlphabet, documentIDSize)
	if err != nil {
		return "", err
	}
	return "doc-" + id, nil
}

// List returns the documents the actor may see in its listing, in store order.
func (s *documentService) List(ctx context.Context, actor model.Actor, includeExpired bool) ([]model.Document, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrUnauthenticated
	}
	docs, err := s.store.LoadDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	now := s.now()
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if policy.CanList(actor, d, now, includeExpired) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Search matches query case-insensitively against title, filename,
// description, summary and keywords of the documents the actor can view.
// An empty query matches everything viewable.
func (s *documentService) Search(ctx context.Context, actor model.Actor, query string) ([]model.Document, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrUnauthenticated
	}
	docs, err := s.store.LoadDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	now := s.now()
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Document, 0)
	for _, d := range docs {
		if policy.CanView(actor, d, now) && matches(d, needle) {
			out = append(out, d)
		}
	}
	return out, nil
}

func matches(d model.Document, needle string) bool {
	if needle == "" {
		return true
	}
	fields := append([]string{d.Title, d.Filename, d.Description, d.Summary}, d.Keywords...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// GetByID fetches a document directly. Unlike List and Search the access
// window is not applied here.
func (s *documentService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Document, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrUnauthenticated
	}
	docs, err := s.store.LoadDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	idx := indexOfDocument(docs, id)
	if idx < 0 {
		return nil, errors.ErrDocumentNotFound
	}
	if !policy.CanViewDirect(actor, docs[idx]) {
		return nil, errors.ErrForbidden
	}
	return &docs[idx], nil
}

// Upload records a new document owned by the actor.
func (s *documentService) Upload(ctx context.Context, actor model.Actor, meta model.FileMeta, opts model.UploadOptions) (*model.Document, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrUnauthenticated
	}
	filename := strings.TrimSpace(meta.Filename)
	if filename == "" {
		return nil, errors.Invalid("filename is required")
	}
	if meta.SizeBytes < 0 {
		return nil, errors.Invalid("file size must not be negative")
	}

	var doc model.Document
	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		users, err := s.store.LoadUsers(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		ownerIdx := indexOfUser(users, actor.ID)
		if ownerIdx < 0 {
			return errors.ErrUserNotFound
		}

		docs, err := s.store.LoadDocuments(ctx)
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}

		id, err := s.newID()
		if err != nil {
			return fmt.Errorf("generate document id: %w", err)
		}

		doc = newDocument(id, users[ownerIdx], filename, meta, s.now())
		applyUploadOptions(&doc, opts)

		docs = append(docs, doc)
		if err := s.store.SaveDocuments(ctx, docs); err != nil {
			return fmt.Errorf("save documents: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"user_id":     actor.ID,
		"size_bytes":  doc.FileSizeBytes,
	}).Info("document uploaded")
	return &doc, nil
}

func newDocument(id string, owner model.User, filename string, meta model.FileMeta, now time.Time) model.Document {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	fileType := unknownFileType
	if ext := path.Ext(filename); len(ext) > 1 {
		fileType = strings.ToLower(ext[1:])
	}

	return model.Document{
		ID:              id,
		OwnerID:         owner.ID,
		OwnerName:       owner.FullName(),
		Filename:        filename,
		FileType:        fileType,
		FileSizeBytes:   meta.SizeBytes,
		UploadDate:      now,
		Title:           strings.ReplaceAll(base, "_", " "),
		Description:     defaultDescription,
		Summary:         fmt.Sprintf("Summary for %s. Automatic content analysis is not available for this document yet.", filename),
		Keywords:        []string{"document", "uploaded", strings.ToLower(base)},
		ContentLocation: meta.ContentLocation,
	}
}

func applyUploadOptions(doc *model.Document, opts model.UploadOptions) {
	if opts.AccessStart != nil {
		t := *opts.AccessStart
		doc.AccessStart = &t
	}
	if opts.AccessEnd != nil {
		t := *opts.AccessEnd
		doc.AccessEnd = &t
	}
	if opts.IsPublic != nil {
		doc.IsPublic = *opts.IsPublic
	}
	if opts.Title != nil && strings.TrimSpace(*opts.Title) != "" {
		doc.Title = *opts.Title
	}
	if opts.Description != nil && strings.TrimSpace(*opts.Description) != "" {
		doc.Description = *opts.Description
	}
}

// Update merges the set fields of patch onto the document.
func (s *documentService) Update(ctx context.Context, actor model.Actor, id string, patch model.DocumentPatch) (*model.Document, error) {
	if !actor.Authenticated() {
		return nil, errors.ErrUnauthenticated
	}

	var updated model.Document
	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		docs, err := s.store.LoadDocuments(ctx)
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}
		idx := indexOfDocument(docs, id)
		if idx < 0 {
			return errors.ErrDocumentNotFound
		}
		if !policy.CanMutate(actor, docs[idx]) {
			return errors.ErrForbidden
		}

		patch.Apply(&docs[idx])
		if err := s.store.SaveDocuments(ctx, docs); err != nil {
			return fmt.Errorf("save documents: %w", err)
		}
		updated = docs[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"document_id": id, "user_id": actor.ID}).Info("document updated")
	return &updated, nil
}

// Delete removes the document.
func (s *documentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !actor.Authenticated() {
		return errors.ErrUnauthenticated
	}

	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		docs, err := s.store.LoadDocuments(ctx)
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}
		idx := indexOfDocument(docs, id)
		if idx < 0 {
			return errors.ErrDocumentNotFound
		}
		if !policy.CanMutate(actor, docs[idx]) {
			return errors.ErrForbidden
		}

		docs = append(docs[:idx], docs[idx+1:]...)
		if err := s.store.SaveDocuments(ctx, docs); err != nil {
			return fmt.Errorf("save documents: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"document_id": id, "user_id": actor.ID}).Info("document deleted")
	return nil
}

func indexOfDocument(docs []model.Document, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}
