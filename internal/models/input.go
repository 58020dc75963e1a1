package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResumeInput is the creation payload submitted by the form client.
type ResumeInput struct {
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email"`
	LinkedIn     string             `json:"linkedin"`
	Skills       StringList         `json:"skills"`
	Education    []EducationInput   `json:"education"`
	Projects     []ProjectInput     `json:"projects"`
	Certificates []CertificateInput `json:"certificates"`
	Hobbies      StringList         `json:"hobbies"`
}

type EducationInput struct {
	Institution string     `json:"institution"`
	Degree      string     `json:"degree"`
	Field       string     `json:"field"`
	StartDate   FlexString `json:"startDate"`
	EndDate     FlexString `json:"endDate"`
	GPA         FlexString `json:"gpa"`
}

// UnmarshalJSON also accepts the snake_case date keys used by the stored rows.
func (e *EducationInput) UnmarshalJSON(b []byte) error {
	type plain EducationInput
	var aux struct {
		plain
		StartDateSnake *FlexString `json:"start_date"`
		EndDateSnake   *FlexString `json:"end_date"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*e = EducationInput(aux.plain)
	if e.StartDate == "" && aux.StartDateSnake != nil {
		e.StartDate = *aux.StartDateSnake
	}
	if e.EndDate == "" && aux.EndDateSnake != nil {
		e.EndDate = *aux.EndDateSnake
	}
	return nil
}

type ProjectInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Technologies StringList `json:"technologies"`
	Link         string     `json:"link"`
}

type CertificateInput struct {
	Name   string     `json:"name"`
	Issuer string     `json:"issuer"`
	Date   FlexString `json:"date"`
	Link   string     `json:"link"`
}

// StringList decodes a JSON array of strings/numbers or a single
// comma-separated string. null decodes to an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("expected a string or an array of strings: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s FlexString
		if err := json.Unmarshal(item, &s); err != nil {
			return err
		}
		out = append(out, string(s))
	}
	*l = out
	return nil
}

// Joined renders the list the way it is stored in a single text column.
func (l StringList) Joined() string {
	parts := make([]string, 0, len(l))
	for _, s := range l {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FlexString decodes a JSON string, number or boolean into its text form.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")):
		*f = FlexString(b)
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return fmt.Errorf("expected a string or a number, got %s", string(b))
		}
		*f = FlexString(b)
	}
	return nil
}

// Normalize trims every field and splits the payload into a header row and
// the child rows of the five collections. Blank list entries and structured
// entries with no content are dropped. Required fields are not checked here.
func (in ResumeInput) Normalize() (*Resume, Children) {
	header := &Resume{
		Name:     strings.TrimSpace(in.Name),
		Phone:    strings.TrimSpace(in.Phone),
		Email:    strings.TrimSpace(in.Email),
		LinkedIn: strings.TrimSpace(in.LinkedIn),
	}

	var children Children
	for _, s := range in.Skills {
		if s = strings.TrimSpace(s); s != "" {
			children.Skills = append(children.Skills, Skill{Skill: s})
		}
	}
	for _, e := range in.Education {
		row := Education{
			Institution: strings.TrimSpace(e.Institution),
			Degree:      strings.TrimSpace(e.Degree),
			Field:       strings.TrimSpace(e.Field),
			StartDate:   strings.TrimSpace(string(e.StartDate)),
			EndDate:     strings.TrimSpace(string(e.EndDate)),
			GPA:         strings.TrimSpace(string(e.GPA)),
		}
		if row != (Education{}) {
			children.Education = append(children.Education, row)
		}
	}
	for _, p := range in.Projects {
		row := Project{
			Title:        strings.TrimSpace(p.Title),
			Description:  strings.TrimSpace(p.Description),
			Technologies: p.Technologies.Joined(),
			Link:         strings.TrimSpace(p.Link),
		}
		if row != (Project{}) {
			children.Projects = append(children.Projects, row)
		}
	}
	for _, c := range in.Certificates {
		row := Certificate{
			Name:   strings.TrimSpace(c.Name),
			Issuer: strings.TrimSpace(c.Issuer),
			Date:   strings.TrimSpace(string(c.Date)),
			Link:   strings.TrimSpace(c.Link),
		}
		if row != (Certificate{}) {
			children.Certificates = append(children.Certificates, row)
		}
	}
	for _, h := range in.Hobbies {
		if h = strings.TrimSpace(h); h != "" {
			children.Hobbies = append(children.Hobbies, Hobby{Hobby: h})
		}
	}
	return header, children
}
