package models

import "fmt"

// CollectionKind names one of the five child collections of a resume.
type CollectionKind string

const (
	CollectionSkills       CollectionKind = "skills"
	CollectionEducation    CollectionKind = "education"
	CollectionProjects     CollectionKind = "projects"
	CollectionCertificates CollectionKind = "certificates"
	CollectionHobbies      CollectionKind = "hobbies"
)

// Collections is the fixed order in which child collections are written and
// deleted.
var Collections = []CollectionKind{
	CollectionSkills,
	CollectionEducation,
	CollectionProjects,
	CollectionCertificates,
	CollectionHobbies,
}

func (k CollectionKind) Valid() bool {
	switch k {
	case CollectionSkills, CollectionEducation, CollectionProjects, CollectionCertificates, CollectionHobbies:
		return true
	}
	return false
}

// Model returns an empty gorm model for the collection's table.
func (k CollectionKind) Model() (interface{}, error) {
	switch k {
	case CollectionSkills:
		return &Skill{}, nil
	case CollectionEducation:
		return &Education{}, nil
	case CollectionProjects:
		return &Project{}, nil
	case CollectionCertificates:
		return &Certificate{}, nil
	case CollectionHobbies:
		return &Hobby{}, nil
	}
	return nil, fmt.Errorf("unknown collection kind %q", string(k))
}

// Children holds child rows of one resume. A value returned for a single
// collection only has that collection's field populated.
type Children struct {
	Skills       []Skill
	Education    []Education
	Projects     []Project
	Certificates []Certificate
	Hobbies      []Hobby
}

// Len returns the number of rows held for kind.
func (c *Children) Len(kind CollectionKind) int {
	switch kind {
	case CollectionSkills:
		return len(c.Skills)
	case CollectionEducation:
		return len(c.Education)
	case CollectionProjects:
		return len(c.Projects)
	case CollectionCertificates:
		return len(c.Certificates)
	case CollectionHobbies:
		return len(c.Hobbies)
	}
	return 0
}

// SetResumeID tags every row with id.
func (c *Children) SetResumeID(id string) {
	for i := range c.Skills {
		c.Skills[i].ResumeID = id
	}
	for i := range c.Education {
		c.Education[i].ResumeID = id
	}
	for i := range c.Projects {
		c.Projects[i].ResumeID = id
	}
	for i := range c.Certificates {
		c.Certificates[i].ResumeID = id
	}
	for i := range c.Hobbies {
		c.Hobbies[i].ResumeID = id
	}
}
