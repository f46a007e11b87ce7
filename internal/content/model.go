// Package content holds the portfolio's in-memory content model: resumes, categorized projects,
// certificates and the contact draft, each managed by its own collection type.
package content

// Resume is one downloadable resume shown in the resumes section.
type Resume struct {
	ID    int64  `json:"id" toml:"id" form:"id"`
	Title string `json:"title" toml:"title" form:"title" binding:"required"`
	Type  string `json:"type" toml:"type" form:"type" binding:"required"`
	URL   string `json:"url" toml:"url" form:"url" binding:"required"`
}

// Project is a portfolio project. IDs are unique within a category only.
type Project struct {
	ID          int64  `json:"id" toml:"id"`
	Title       string `json:"title" toml:"title"`
	Description string `json:"description" toml:"description"`
	Link        string `json:"link,omitempty" toml:"link"`
}

// Certificate is an uploaded or seeded certification document.
type Certificate struct {
	ID   int64  `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
	URL  string `json:"url" toml:"url"`
}

// ContactDraft is the unsent contact form.
type ContactDraft struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email" binding:"required"`
	Message string `json:"message" form:"message" binding:"required"`
}

// IsZero reports whether every field of the draft is empty.
func (d ContactDraft) IsZero() bool {
	return d.Name == "" && d.Email == "" && d.Message == ""
}

// File is one uploaded source file.
type File struct {
	Name    string
	Content []byte
}

// Internship is a read-only experience entry on the profile.
type Internship struct {
	Title          string `json:"title" toml:"title"`
	Organization   string `json:"organization" toml:"organization"`
	Summary        string `json:"summary" toml:"summary"`
	CertificateURL string `json:"certificate_url" toml:"certificate_url"`
}

// Profile is the static biography rendered around the collections.
type Profile struct {
	Name        string       `json:"name" toml:"name"`
	Headline    string       `json:"headline" toml:"headline"`
	Badge       string       `json:"badge" toml:"badge"`
	About       string       `json:"about" toml:"about"`
	Photo       string       `json:"photo" toml:"photo"`
	ResumeURL   string       `json:"resume_url" toml:"resume_url"`
	Email       string       `json:"email" toml:"email"`
	GitHub      string       `json:"github" toml:"github"`
	LinkedIn    string       `json:"linkedin" toml:"linkedin"`
	Skills      []string     `json:"skills" toml:"skills"`
	Tools       []string     `json:"tools" toml:"tools"`
	Interests   []string     `json:"interests" toml:"interests"`
	Internships []Internship `json:"internships" toml:"internships"`
}
