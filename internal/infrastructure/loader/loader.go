package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docuquery/docuquery/internal/core/domain"
	"github.com/docuquery/docuquery/internal/core/ports"
)

// Registry selects a document loader by file extension.
type Registry struct {
	byExt map[string]ports.DocumentLoader
}

func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]ports.DocumentLoader)}
}

func (r *Registry) Register(ext string, l ports.DocumentLoader) {
	r.byExt[strings.ToLower(ext)] = l
}

func (r *Registry) For(filename string) (ports.DocumentLoader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	l, ok := r.byExt[ext]
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "select document loader",
			fmt.Errorf("unsupported file format %q", ext))
	}
	return l, nil
}
