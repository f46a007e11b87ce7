package content

import "slices"

// ResumeRegistry is an ordered, id-keyed list of resumes.
type ResumeRegistry struct {
	items []Resume
}

// NewResumeRegistry returns a registry holding a copy of seed.
func NewResumeRegistry(seed []Resume) *ResumeRegistry {
	return &ResumeRegistry{items: slices.Clone(seed)}
}

// Upsert replaces the resume with r.ID in place, or appends r when the id is new.
func (reg *ResumeRegistry) Upsert(r Resume) []Resume {
	if i := reg.index(r.ID); i >= 0 {
		reg.items[i] = r
	} else {
		reg.items = append(reg.items, r)
	}
	return reg.List()
}

// Remove drops the resume with id. Unknown ids leave the registry unchanged.
func (reg *ResumeRegistry) Remove(id int64) []Resume {
	reg.items = slices.DeleteFunc(reg.items, func(r Resume) bool {
		return r.ID == id
	})
	return reg.List()
}

// Get looks up a resume by id.
func (reg *ResumeRegistry) Get(id int64) (Resume, bool) {
	if i := reg.index(id); i >= 0 {
		return reg.items[i], true
	}
	return Resume{}, false
}

// List returns the resumes in display order.
func (reg *ResumeRegistry) List() []Resume {
	out := make([]Resume, len(reg.items))
	copy(out, reg.items)
	return out
}

func (reg *ResumeRegistry) index(id int64) int {
	return slices.IndexFunc(reg.items, func(r Resume) bool {
		return r.ID == id
	})
}
