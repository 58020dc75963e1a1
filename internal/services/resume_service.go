package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/cache"
	"resumebuilder/internal/layout"
	"resumebuilder/internal/logger"
	"resumebuilder/internal/models"
	"resumebuilder/internal/render"
	"resumebuilder/internal/repositories"
	"resumebuilder/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes resume lifecycle events. *rabbitmq.Client
// satisfies it.
type EventPublisher interface {
	PublishResumeEvent(ctx context.Context, evt rabbitmq.ResumeEvent) error
}

// Document is a rendered resume ready to be sent to a client.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ResumeService handles business logic related to resumes.
type ResumeService struct {
	repo      repositories.ResumeRepository
	builder   *AggregateBuilder
	engine    *layout.Engine
	pdf       render.Renderer
	png       render.Renderer
	docs      cache.DocumentCache
	publisher EventPublisher
	validate  *validator.Validate
	log       *logger.Logger
}

// NewResumeService creates a new ResumeService. docs and publisher may be nil
// when caching or events are disabled.
func NewResumeService(repo repositories.ResumeRepository, engine *layout.Engine, docs cache.DocumentCache, publisher EventPublisher, log *logger.Logger) *ResumeService {
	if docs == nil {
		docs = cache.NewNopCache()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ResumeService{
		repo:      repo,
		builder:   NewAggregateBuilder(repo),
		engine:    engine,
		pdf:       render.NewPDFRenderer(),
		png:       render.NewPNGRenderer(1),
		docs:      docs,
		publisher: publisher,
		validate:  validator.New(),
		log:       log,
	}
}

// CreateResume normalizes the payload, validates the header and stores the
// resume with all of its collections. It returns the new id.
func (s *ResumeService) CreateResume(ctx context.Context, in models.ResumeInput) (string, error) {
	header, children := in.Normalize()

	if err := s.validate.Struct(header); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return "", apperr.Validation(e.Field(), fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return "", apperr.Validation("", err.Error())
	}

	if err := s.repo.Create(ctx, header, children); err != nil {
		return "", err
	}
	s.log.Info("resume created", "resume_id", header.ID,
		"skills", len(children.Skills), "education", len(children.Education),
		"projects", len(children.Projects), "certificates", len(children.Certificates),
		"hobbies", len(children.Hobbies))

	s.publish(ctx, rabbitmq.ResumeEvent{
		Type:       rabbitmq.EventResumeCreated,
		ResumeID:   header.ID,
		Name:       header.Name,
		OccurredAt: header.CreatedAt,
	})
	return header.ID, nil
}

// ListResumes returns every resume header, newest first.
func (s *ResumeService) ListResumes(ctx context.Context) ([]models.Resume, error) {
	resumes, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if resumes == nil {
		resumes = []models.Resume{}
	}
	return resumes, nil
}

// GetResume returns the aggregate view of one resume.
func (s *ResumeService) GetResume(ctx context.Context, id string) (*models.Aggregate, error) {
	return s.builder.Build(ctx, id)
}

// DeleteResume removes a resume and its collections. Unknown ids succeed.
func (s *ResumeService) DeleteResume(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		s.log.Warn("failed to invalidate cached documents", "resume_id", id, "error", err)
	}
	s.log.Info("resume deleted", "resume_id", id)

	s.publish(ctx, rabbitmq.ResumeEvent{
		Type:       rabbitmq.EventResumeDeleted,
		ResumeID:   id,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// RenderResume lays out the resume and encodes it as a PDF.
func (s *ResumeService) RenderResume(ctx context.Context, id string) (*Document, error) {
	return s.renderDocument(ctx, id, cache.FormatPDF, s.pdf)
}

// PreviewResume renders the first page of the resume as a PNG image.
func (s *ResumeService) PreviewResume(ctx context.Context, id string) (*Document, error) {
	return s.renderDocument(ctx, id, cache.FormatPNG, s.png)
}

// Layout returns the draw instructions for a resume without encoding them.
func (s *ResumeService) Layout(ctx context.Context, id string) (*layout.Document, error) {
	agg, err := s.builder.Build(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Layout(agg)
}

func (s *ResumeService) renderDocument(ctx context.Context, id string, format cache.Format, r render.Renderer) (*Document, error) {
	header, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	filename, err := render.Filename(header.Name)
	if err != nil {
		return nil, err
	}
	if format != cache.FormatPDF {
		filename = filename[:len(filename)-len(".pdf")] + "." + string(format)
	}

	if data, ok, err := s.docs.Get(ctx, id, format); err != nil {
		s.log.Warn("document cache lookup failed", "resume_id", id, "format", format, "error", err)
	} else if ok {
		s.log.Debug("document cache hit", "resume_id", id, "format", format)
		return &Document{Filename: filename, ContentType: r.ContentType(), Data: data}, nil
	}

	doc, err := s.Layout(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, err
	}

	if err := s.docs.Set(ctx, id, format, buf.Bytes()); err != nil {
		s.log.Warn("failed to cache rendered document", "resume_id", id, "format", format, "error", err)
	}
	s.log.Info("resume rendered", "resume_id", id, "format", format, "pages", doc.Pages, "bytes", buf.Len())
	return &Document{Filename: filename, ContentType: r.ContentType(), Data: buf.Bytes()}, nil
}

// HandleResumeEvent reacts to events published by any instance. Deleting a
// resume drops its cached documents.
func (s *ResumeService) HandleResumeEvent(evt rabbitmq.ResumeEvent) error {
	if evt.Type != rabbitmq.EventResumeDeleted || evt.ResumeID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.docs.Delete(ctx, evt.ResumeID)
}

// Ping checks that the record store is reachable.
func (s *ResumeService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *ResumeService) publish(ctx context.Context, evt rabbitmq.ResumeEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishResumeEvent(ctx, evt); err != nil {
		s.log.Warn("failed to publish resume event", "type", evt.Type, "resume_id", evt.ResumeID, "error", err)
	}
}
