package content

import (
	"fmt"
	"slices"
)

// UploadedProjectDescription is the placeholder description given to uploaded projects.
const UploadedProjectDescription = "Uploaded project file from your system."

// Category keys a project tab.
type Category string

const (
	CategoryDataScience     Category = "data-science"
	CategoryAILLMs          Category = "ai-llms"
	CategoryMachineLearning Category = "machine-learning"
	CategoryDataAnalytics   Category = "data-analytics"
)

var categoryLabels = map[Category]string{
	CategoryDataScience:     "Data Science",
	CategoryAILLMs:          "AI & LLMs",
	CategoryMachineLearning: "Machine Learning",
	CategoryDataAnalytics:   "Data Analytics",
}

// Categories returns the fixed category set in tab order.
func Categories() []Category {
	return []Category{
		CategoryDataScience,
		CategoryAILLMs,
		CategoryMachineLearning,
		CategoryDataAnalytics,
	}
}

// Known reports whether c belongs to the fixed category set.
func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the tab title. Unknown categories are shown by key.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Referencer turns uploaded content into a session-scoped link.
type Referencer interface {
	Reference(f File) (string, error)
}

// ProjectCatalog maps each category to its ordered project list.
type ProjectCatalog struct {
	buckets map[Category][]Project
	ids     *IDSource
	refs    Referencer
	strict  bool
}

// NewProjectCatalog copies seed into a new catalog. With strict set, uploads to
// categories outside the fixed set fail with ErrInvalidCategory instead of
// opening a new bucket.
func NewProjectCatalog(seed map[Category][]Project, ids *IDSource, refs Referencer, strict bool) *ProjectCatalog {
	buckets := make(map[Category][]Project, len(seed))
	for k, v := range seed {
		buckets[k] = slices.Clone(v)
	}
	return &ProjectCatalog{buckets: buckets, ids: ids, refs: refs, strict: strict}
}

// BulkAppend creates one project per file and appends them to category in file order.
// An empty file list changes nothing, whatever the category.
func (c *ProjectCatalog) BulkAppend(category Category, files []File) ([]Project, error) {
	if len(files) == 0 {
		return c.ListCategory(category), nil
	}
	if c.strict && !category.Known() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	ids := c.ids.Batch(len(files))
	created := make([]Project, 0, len(files))
	for i, f := range files {
		link, err := c.refs.Reference(f)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", f.Name, err)
		}
		created = append(created, Project{
			ID:          ids[i],
			Title:       f.Name,
			Description: UploadedProjectDescription,
			Link:        link,
		})
	}

	c.buckets[category] = append(c.buckets[category], created...)
	return c.ListCategory(category), nil
}

// ListCategory returns the projects of category, or an empty list if it was never populated.
func (c *ProjectCatalog) ListCategory(category Category) []Project {
	out := make([]Project, len(c.buckets[category]))
	copy(out, c.buckets[category])
	return out
}

// Keys returns the fixed categories followed by any extra buckets opened by uploads, sorted.
func (c *ProjectCatalog) Keys() []Category {
	keys := Categories()
	var extra []Category
	for k := range c.buckets {
		if !k.Known() {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}
