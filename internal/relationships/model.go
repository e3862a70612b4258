package relationships

import "time"

// Kind describes one ordered join table: where its rows live, which table
// holds the parent endpoint, and the two endpoint columns. A kind with a
// version column points its child endpoint at versioned content.
type Kind struct {
	Name        string
	Table       string
	ParentTable string
	ParentCol   string
	ChildCol    string
	VersionCol  string
}

// Versioned reports whether rows of this kind carry a content version.
func (k Kind) Versioned() bool { return k.VersionCol != "" }

// The relationship kinds the composer manages. Educations, experiences and
// sections hang off a resume; bullets hang off one resume-experience row and
// reference a snippet lineage at a pinned version.
var (
	ResumeEducations = Kind{
		Name:        "education",
		Table:       "resume_educations",
		ParentTable: "resumes",
		ParentCol:   "resume_id",
		ChildCol:    "education_id",
	}
	ResumeExperiences = Kind{
		Name:        "experience",
		Table:       "resume_experiences",
		ParentTable: "resumes",
		ParentCol:   "resume_id",
		ChildCol:    "experience_id",
	}
	ResumeSections = Kind{
		Name:        "section",
		Table:       "resume_sections",
		ParentTable: "resumes",
		ParentCol:   "resume_id",
		ChildCol:    "section_id",
	}
	ExperienceBullets = Kind{
		Name:        "bullet",
		Table:       "experience_bullets",
		ParentTable: "resume_experiences",
		ParentCol:   "resume_experience_id",
		ChildCol:    "lineage_id",
		VersionCol:  "version",
	}
)

// Row is one placement: a child attached to a parent at an ordering
// position. Version is set only for versioned kinds.
type Row struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId"`
	ChildID   string    `json:"childId"`
	Version   int64     `json:"version,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}
