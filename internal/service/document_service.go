package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/drafting"
	"lexi-drafting-be/pkg/store"

	"github.com/gabriel-vasile/mimetype"
)

const (
	mimeMarkdown = "text/markdown"
	mimePlain    = "text/plain"
)

type IDocumentService interface {
	Upload(ctx context.Context, filename string, data []byte) (*dto.DocumentUploadResponse, error)
	Show(ctx context.Context, id string) (*dto.DocumentResponse, error)
	ExtractTemplate(ctx context.Context, id string, save bool) (*dto.ExtractTemplateResponse, error)
}

type documentService struct {
	catalog   Catalog
	extractor drafting.Extractor
	notifier  INotifierService
	maxSize   int64
	logger    logger.ILogger
}

func NewDocumentService(catalog Catalog, extractor drafting.Extractor, notifier INotifierService, maxSize int64, log logger.ILogger) IDocumentService {
	return &documentService{
		catalog:   catalog,
		extractor: extractor,
		notifier:  notifier,
		maxSize:   maxSize,
		logger:    log,
	}
}

// DetectTextMime sniffs data and returns the stored mime type. Only plain
// text and markdown are accepted; binary formats need external conversion.
func DetectTextMime(filename string, data []byte) (string, error) {
	detected := mimetype.Detect(data)
	if !detected.Is(mimePlain) || !utf8.Valid(data) {
		return "", fmt.Errorf("%s (%s): %w", filename, detected.String(), apperror.ErrUnsupportedMedia)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return mimeMarkdown, nil
	}
	return mimePlain, nil
}

func (s *documentService) Upload(ctx context.Context, filename string, data []byte) (*dto.DocumentUploadResponse, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil, apperror.Invalid("filename is required")
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, apperror.Invalid("file exceeds %d bytes", s.maxSize)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, apperror.Invalid("file is empty")
	}

	mime, err := DetectTextMime(filename, data)
	if err != nil {
		return nil, err
	}

	doc := &store.Document{
		Filename:  filename,
		MimeType:  mime,
		Text:      string(data),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.catalog.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("DOCUMENT", "Document stored", map[string]interface{}{"document_id": doc.ID, "filename": filename, "bytes": len(data)})
	s.notifier.DocumentUploaded(ctx, doc)

	return &dto.DocumentUploadResponse{
		DocumentId: doc.ID,
		Filename:   doc.Filename,
		MimeType:   doc.MimeType,
		Status:     "uploaded",
		Message:    "Document uploaded. Use extract-template to build a template from it.",
	}, nil
}

func (s *documentService) Show(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := s.catalog.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentResponse{
		Id:         doc.ID,
		Filename:   doc.Filename,
		MimeType:   doc.MimeType,
		TextLength: utf8.RuneCountInString(doc.Text),
		CreatedAt:  doc.CreatedAt,
	}, nil
}

func (s *documentService) ExtractTemplate(ctx context.Context, id string, save bool) (*dto.ExtractTemplateResponse, error) {
	doc, err := s.catalog.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.extractor.Extract(ctx, doc.Text, doc.Filename)
	if err != nil {
		return nil, err
	}

	out := &dto.ExtractTemplateResponse{
		Template:        res.Template,
		ExtractionStats: res.Stats,
	}
	if save {
		tpl := res.Template
		if err := s.catalog.CreateTemplate(ctx, &tpl); err != nil {
			return nil, err
		}
		s.notifier.TemplateCreated(ctx, &tpl)
		out.Template = tpl
		out.Saved = true
	}
	return out, nil
}
