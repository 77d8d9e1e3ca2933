package pdf

import (
	"fmt"

	"github.com/abiiranathan/pdfscan/search"
)

// Extraction backends accepted by NewExtractor.
const (
	BackendPoppler = "poppler"
	BackendDocconv = "docconv"
)

var (
	_ search.PageExtractor = (*Poppler)(nil)
	_ search.Extractor     = Docconv{}
)

// NewExtractor returns the extractor for backend. An empty name means poppler.
func NewExtractor(backend string) (search.Extractor, error) {
	switch backend {
	case "", BackendPoppler:
		p, err := NewPoppler()
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendDocconv:
		return Docconv{}, nil
	}
	return nil, fmt.Errorf("unknown pdf backend %q", backend)
}
