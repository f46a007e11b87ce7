package content

import "slices"

// Seed is the initial content every store starts from.
type Seed struct {
	Profile      Profile              `toml:"profile"`
	Resumes      []Resume             `toml:"resumes"`
	Projects     map[string][]Project `toml:"projects"`
	Certificates []Certificate        `toml:"certificates"`
}

// Options wires a store to its collaborators.
type Options struct {
	IDs              *IDSource
	Refs             Referencer
	Deliverer        Deliverer
	StrictCategories bool
}

// Store composes the four independent collections shown on the page.
type Store struct {
	Profile      Profile
	Resumes      *ResumeRegistry
	Projects     *ProjectCatalog
	Certificates *CertificateRegistry
	Contact      *ContactForm
	IDs          *IDSource
}

// NewStore builds a store from seed. The seed is copied, so stores built from
// the same seed never share state.
func NewStore(seed *Seed, opts Options) *Store {
	if seed == nil {
		seed = &Seed{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = NewIDSource(nil)
	}
	deliverer := opts.Deliverer
	if deliverer == nil {
		deliverer = NewMockDeliverer(nil)
	}

	return &Store{
		Profile:      cloneProfile(seed.Profile),
		Resumes:      NewResumeRegistry(seed.Resumes),
		Projects:     NewProjectCatalog(seedBuckets(seed.Projects), ids, opts.Refs, opts.StrictCategories),
		Certificates: NewCertificateRegistry(seed.Certificates, ids, opts.Refs),
		Contact:      NewContactForm(deliverer),
		IDs:          ids,
	}
}

func cloneProfile(p Profile) Profile {
	p.Skills = slices.Clone(p.Skills)
	p.Tools = slices.Clone(p.Tools)
	p.Interests = slices.Clone(p.Interests)
	p.Internships = slices.Clone(p.Internships)
	return p
}

func seedBuckets(in map[string][]Project) map[Category][]Project {
	out := make(map[Category][]Project, len(in))
	for k, v := range in {
		out[Category(k)] = v
	}
	return out
}
