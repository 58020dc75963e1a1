package models

import (
	"encoding/json"
	"time"
)

// Aggregate is the denormalized view of one resume and all its collections.
// Collections are never nil so they encode as [] rather than null.
type Aggregate struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Phone        string            `json:"phone" yaml:"phone"`
	Email        string            `json:"email" yaml:"email"`
	LinkedIn     string            `json:"linkedin" yaml:"linkedin"`
	CreatedAt    time.Time         `json:"created_at" yaml:"created_at"`
	Skills       []string          `json:"skills" yaml:"skills"`
	Education    []EducationItem   `json:"education" yaml:"education"`
	Projects     []ProjectItem     `json:"projects" yaml:"projects"`
	Certificates []CertificateItem `json:"certificates" yaml:"certificates"`
	Hobbies      []string          `json:"hobbies" yaml:"hobbies"`
}

type EducationItem struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field" yaml:"field"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	GPA         string `json:"gpa" yaml:"gpa"`
}

// MarshalJSON also writes the dates under start_date/end_date, the keys the
// bundled list view reads.
func (e EducationItem) MarshalJSON() ([]byte, error) {
	type plain EducationItem
	return json.Marshal(struct {
		plain
		StartDateSnake string `json:"start_date"`
		EndDateSnake   string `json:"end_date"`
	}{plain(e), e.StartDate, e.EndDate})
}

type ProjectItem struct {
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Technologies string `json:"technologies" yaml:"technologies"`
	Link         string `json:"link" yaml:"link"`
}

type CertificateItem struct {
	Name   string `json:"name" yaml:"name"`
	Issuer string `json:"issuer" yaml:"issuer"`
	Date   string `json:"date" yaml:"date"`
	Link   string `json:"link" yaml:"link"`
}

// NewAggregate starts an aggregate from a header with empty collections.
func NewAggregate(header *Resume) *Aggregate {
	return &Aggregate{
		ID:           header.ID,
		Name:         header.Name,
		Phone:        header.Phone,
		Email:        header.Email,
		LinkedIn:     header.LinkedIn,
		CreatedAt:    header.CreatedAt,
		Skills:       []string{},
		Education:    []EducationItem{},
		Projects:     []ProjectItem{},
		Certificates: []CertificateItem{},
		Hobbies:      []string{},
	}
}

// Merge copies the rows of one collection into the aggregate.
func (a *Aggregate) Merge(kind CollectionKind, c Children) {
	switch kind {
	case CollectionSkills:
		for _, s := range c.Skills {
			a.Skills = append(a.Skills, s.Skill)
		}
	case CollectionEducation:
		for _, e := range c.Education {
			a.Education = append(a.Education, EducationItem{
				Institution: e.Institution,
				Degree:      e.Degree,
				Field:       e.Field,
				StartDate:   e.StartDate,
				EndDate:     e.EndDate,
				GPA:         e.GPA,
			})
		}
	case CollectionProjects:
		for _, p := range c.Projects {
			a.Projects = append(a.Projects, ProjectItem{
				Title:        p.Title,
				Description:  p.Description,
				Technologies: p.Technologies,
				Link:         p.Link,
			})
		}
	case CollectionCertificates:
		for _, ct := range c.Certificates {
			a.Certificates = append(a.Certificates, CertificateItem{
				Name:   ct.Name,
				Issuer: ct.Issuer,
				Date:   ct.Date,
				Link:   ct.Link,
			})
		}
	case CollectionHobbies:
		for _, h := range c.Hobbies {
			a.Hobbies = append(a.Hobbies, h.Hobby)
		}
	}
}
