package models

import "time"

// Resume is the header row of a resume. Child rows reference it by ResumeID.
type Resume struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:text;not null" validate:"required"`
	Phone     string    `json:"phone" gorm:"type:text"`
	Email     string    `json:"email" gorm:"type:text"`
	LinkedIn  string    `json:"linkedin" gorm:"column:linkedin;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Resume) TableName() string { return "resumes" }

// Skill is one row of the skills collection.
type Skill struct {
	ID       uint    `gorm:"primaryKey"`
	ResumeID string  `gorm:"index;type:varchar(36);not null"`
	Resume   *Resume `gorm:"foreignKey:ResumeID;constraint:OnDelete:RESTRICT"`
	Skill    string  `gorm:"type:text"`
}

func (Skill) TableName() string { return "skills" }

// Education is one row of the education collection.
type Education struct {
	ID          uint    `gorm:"primaryKey"`
	ResumeID    string  `gorm:"index;type:varchar(36);not null"`
	Resume      *Resume `gorm:"foreignKey:ResumeID;constraint:OnDelete:RESTRICT"`
	Institution string  `gorm:"type:text"`
	Degree      string  `gorm:"type:text"`
	Field       string  `gorm:"type:text"`
	StartDate   string  `gorm:"column:start_date;type:text"`
	EndDate     string  `gorm:"column:end_date;type:text"`
	GPA         string  `gorm:"column:gpa;type:text"`
}

func (Education) TableName() string { return "education" }

// Project is one row of the projects collection.
type Project struct {
	ID           uint    `gorm:"primaryKey"`
	ResumeID     string  `gorm:"index;type:varchar(36);not null"`
	Resume       *Resume `gorm:"foreignKey:ResumeID;constraint:OnDelete:RESTRICT"`
	Title        string  `gorm:"type:text"`
	Description  string  `gorm:"type:text"`
	Technologies string  `gorm:"type:text"`
	Link         string  `gorm:"type:text"`
}

func (Project) TableName() string { return "projects" }

// Certificate is one row of the certificates collection.
type Certificate struct {
	ID       uint    `gorm:"primaryKey"`
	ResumeID string  `gorm:"index;type:varchar(36);not null"`
	Resume   *Resume `gorm:"foreignKey:ResumeID;constraint:OnDelete:RESTRICT"`
	Name     string  `gorm:"type:text"`
	Issuer   string  `gorm:"type:text"`
	Date     string  `gorm:"type:text"`
	Link     string  `gorm:"type:text"`
}

func (Certificate) TableName() string { return "certificates" }

// Hobby is one row of the hobbies collection.
type Hobby struct {
	ID       uint    `gorm:"primaryKey"`
	ResumeID string  `gorm:"index;type:varchar(36);not null"`
	Resume   *Resume `gorm:"foreignKey:ResumeID;constraint:OnDelete:RESTRICT"`
	Hobby    string  `gorm:"type:text"`
}

func (Hobby) TableName() string { return "hobbies" }

// AllTables lists the persisted models, header first.
func AllTables() []interface{} {
	return []interface{}{&Resume{}, &Skill{}, &Education{}, &Project{}, &Certificate{}, &Hobby{}}
}
