package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMResumeRepository is a GORM implementation of ResumeRepository.
type GORMResumeRepository struct {
	db    *gorm.DB
	clock *createdAtClock
}

// NewGORMResumeRepository creates a new instance of GORMResumeRepository.
func NewGORMResumeRepository(db *gorm.DB) *GORMResumeRepository {
	return &GORMResumeRepository{
		db:    db,
		clock: newCreatedAtClock(),
	}
}

// Create inserts the header and all child rows in a single transaction.
func (r *GORMResumeRepository) Create(ctx context.Context, header *models.Resume, children models.Children) error {
	if strings.TrimSpace(header.Name) == "" {
		return apperr.Validation("name", "name is required")
	}

	id := uuid.New().String()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header.ID = id
		header.CreatedAt = r.clock.Next()
		if err := tx.Create(header).Error; err != nil {
			return fmt.Errorf("failed to create resume: %w", err)
		}

		children.SetResumeID(id)
		if len(children.Skills) > 0 {
			if err := tx.Create(&children.Skills).Error; err != nil {
				return fmt.Errorf("failed to create skills: %w", err)
			}
		}
		if len(children.Education) > 0 {
			if err := tx.Create(&children.Education).Error; err != nil {
				return fmt.Errorf("failed to create education: %w", err)
			}
		}
		if len(children.Projects) > 0 {
			if err := tx.Create(&children.Projects).Error; err != nil {
				return fmt.Errorf("failed to create projects: %w", err)
			}
		}
		if len(children.Certificates) > 0 {
			if err := tx.Create(&children.Certificates).Error; err != nil {
				return fmt.Errorf("failed to create certificates: %w", err)
			}
		}
		if len(children.Hobbies) > 0 {
			if err := tx.Create(&children.Hobbies).Error; err != nil {
				return fmt.Errorf("failed to create hobbies: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		header.ID = ""
		return apperr.Storage("create", err)
	}
	return nil
}

// GetAll retrieves every resume header, newest first.
func (r *GORMResumeRepository) GetAll(ctx context.Context) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&resumes).Error; err != nil {
		return nil, apperr.Storage("list", fmt.Errorf("failed to get all resumes: %w", err))
	}
	return resumes, nil
}

// GetByID retrieves a single resume header by its ID.
func (r *GORMResumeRepository) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).First(&resume, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(id)
		}
		return nil, apperr.Storage("get", fmt.Errorf("failed to get resume by ID %s: %w", id, err))
	}
	return &resume, nil
}

// GetChildren retrieves the rows of one collection in insertion order.
func (r *GORMResumeRepository) GetChildren(ctx context.Context, id string, kind models.CollectionKind) (models.Children, error) {
	var c models.Children
	q := r.db.WithContext(ctx).Where("resume_id = ?", id).Order("id")

	var err error
	switch kind {
	case models.CollectionSkills:
		err = q.Find(&c.Skills).Error
	case models.CollectionEducation:
		err = q.Find(&c.Education).Error
	case models.CollectionProjects:
		err = q.Find(&c.Projects).Error
	case models.CollectionCertificates:
		err = q.Find(&c.Certificates).Error
	case models.CollectionHobbies:
		err = q.Find(&c.Hobbies).Error
	default:
		err = fmt.Errorf("unknown collection kind %q", string(kind))
	}
	if err != nil {
		return models.Children{}, apperr.Storage("get "+string(kind), fmt.Errorf("failed to get %s for resume %s: %w", kind, id, err))
	}
	return c, nil
}

// CountChildren counts the rows of one collection that reference id.
func (r *GORMResumeRepository) CountChildren(ctx context.Context, id string, kind models.CollectionKind) (int64, error) {
	model, err := kind.Model()
	if err != nil {
		return 0, apperr.Storage("count", err)
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(model).Where("resume_id = ?", id).Count(&n).Error; err != nil {
		return 0, apperr.Storage("count "+string(kind), fmt.Errorf("failed to count %s for resume %s: %w", kind, id, err))
	}
	return n, nil
}

// Delete removes all child rows and then the header in one transaction.
func (r *GORMResumeRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, kind := range models.Collections {
			model, err := kind.Model()
			if err != nil {
				return err
			}
			if err := tx.Where("resume_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", kind, err)
			}
		}
		if err := tx.Where("id = ?", id).Delete(&models.Resume{}).Error; err != nil {
			return fmt.Errorf("failed to delete resume: %w", err)
		}
		return nil
	})
	if err != nil {
		return apperr.Storage("delete", err)
	}
	return nil
}

// Ping checks that the underlying database is reachable.
func (r *GORMResumeRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return apperr.Storage("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperr.Storage("ping", err)
	}
	return nil
}
