package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/models"

	"github.com/google/uuid"
)

// MemoryResumeRepository is an in-memory implementation of ResumeRepository.
// Every operation holds the lock for its whole duration, so creates and
// deletes are atomic for readers.
type MemoryResumeRepository struct {
	resumes  map[string]models.Resume
	children map[string]models.Children
	nextRow  uint
	clock    *createdAtClock
	mu       sync.RWMutex
}

// NewMemoryResumeRepository creates a new instance of MemoryResumeRepository.
func NewMemoryResumeRepository() *MemoryResumeRepository {
	return &MemoryResumeRepository{
		resumes:  make(map[string]models.Resume),
		children: make(map[string]models.Children),
		clock:    newCreatedAtClock(),
	}
}

// Create adds a new resume with its child rows.
func (r *MemoryResumeRepository) Create(ctx context.Context, header *models.Resume, children models.Children) error {
	if strings.TrimSpace(header.Name) == "" {
		return apperr.Validation("name", "name is required")
	}
	if err := ctx.Err(); err != nil {
		return apperr.Storage("create", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	header.ID = uuid.New().String()
	header.CreatedAt = r.clock.Next()
	children.SetResumeID(header.ID)

	stored := models.Children{
		Skills:       append([]models.Skill(nil), children.Skills...),
		Education:    append([]models.Education(nil), children.Education...),
		Projects:     append([]models.Project(nil), children.Projects...),
		Certificates: append([]models.Certificate(nil), children.Certificates...),
		Hobbies:      append([]models.Hobby(nil), children.Hobbies...),
	}
	for i := range stored.Skills {
		stored.Skills[i].ID = r.rowID()
	}
	for i := range stored.Education {
		stored.Education[i].ID = r.rowID()
	}
	for i := range stored.Projects {
		stored.Projects[i].ID = r.rowID()
	}
	for i := range stored.Certificates {
		stored.Certificates[i].ID = r.rowID()
	}
	for i := range stored.Hobbies {
		stored.Hobbies[i].ID = r.rowID()
	}

	r.resumes[header.ID] = *header
	r.children[header.ID] = stored
	return nil
}

func (r *MemoryResumeRepository) rowID() uint {
	r.nextRow++
	return r.nextRow
}

// GetAll returns all resume headers, newest first.
func (r *MemoryResumeRepository) GetAll(ctx context.Context) ([]models.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Resume, 0, len(r.resumes))
	for _, resume := range r.resumes {
		list = append(list, resume)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// GetByID returns a resume header by its ID.
func (r *MemoryResumeRepository) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resume, ok := r.resumes[id]
	if !ok {
		return nil, apperr.NotFound(id)
	}
	return &resume, nil
}

// GetChildren returns a copy of one collection for id.
func (r *MemoryResumeRepository) GetChildren(ctx context.Context, id string, kind models.CollectionKind) (models.Children, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.children[id]
	var c models.Children
	switch kind {
	case models.CollectionSkills:
		c.Skills = append([]models.Skill{}, stored.Skills...)
	case models.CollectionEducation:
		c.Education = append([]models.Education{}, stored.Education...)
	case models.CollectionProjects:
		c.Projects = append([]models.Project{}, stored.Projects...)
	case models.CollectionCertificates:
		c.Certificates = append([]models.Certificate{}, stored.Certificates...)
	case models.CollectionHobbies:
		c.Hobbies = append([]models.Hobby{}, stored.Hobbies...)
	default:
		return models.Children{}, apperr.Storage("get "+string(kind), fmt.Errorf("unknown collection kind %q", string(kind)))
	}
	return c, nil
}

// CountChildren counts the rows of one collection that reference id.
func (r *MemoryResumeRepository) CountChildren(ctx context.Context, id string, kind models.CollectionKind) (int64, error) {
	if !kind.Valid() {
		return 0, apperr.Storage("count", fmt.Errorf("unknown collection kind %q", string(kind)))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.children[id]
	return int64(stored.Len(kind)), nil
}

// Delete removes a resume and its child rows. Unknown ids are ignored.
func (r *MemoryResumeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.children, id)
	delete(r.resumes, id)
	return nil
}

func (r *MemoryResumeRepository) Ping(ctx context.Context) error {
	return nil
}
