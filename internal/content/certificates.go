package content

import (
	"fmt"
	"slices"
)

// CertificateRegistry is the global, append-only certificate list.
type CertificateRegistry struct {
	items []Certificate
	ids   *IDSource
	refs  Referencer
}

func NewCertificateRegistry(seed []Certificate, ids *IDSource, refs Referencer) *CertificateRegistry {
	return &CertificateRegistry{items: slices.Clone(seed), ids: ids, refs: refs}
}

// BulkAppend creates one certificate per file, named after the file.
func (reg *CertificateRegistry) BulkAppend(files []File) ([]Certificate, error) {
	if len(files) == 0 {
		return reg.List(), nil
	}

	ids := reg.ids.Batch(len(files))
	created := make([]Certificate, 0, len(files))
	for i, f := range files {
		url, err := reg.refs.Reference(f)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", f.Name, err)
		}
		created = append(created, Certificate{ID: ids[i], Name: f.Name, URL: url})
	}

	reg.items = append(reg.items, created...)
	return reg.List(), nil
}

func (reg *CertificateRegistry) List() []Certificate {
	out := make([]Certificate, len(reg.items))
	copy(out, reg.items)
	return out
}
