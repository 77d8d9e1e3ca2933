//go:build !cgo || nopoppler

package pdf

import (
	"context"
	"errors"
)

// ErrPopplerUnavailable is returned when the binary was built without poppler.
var ErrPopplerUnavailable = errors.New("pdf: built without poppler support (cgo disabled or nopoppler tag)")

// SetLocale is a no-op without poppler.
func SetLocale() {}

// Poppler is unavailable in this build.
type Poppler struct{}

func NewPoppler() (*Poppler, error) {
	return nil, ErrPopplerUnavailable
}

func (p *Poppler) ExtractPages(context.Context, string) ([]string, error) {
	return nil, ErrPopplerUnavailable
}

func (p *Poppler) ExtractAll(context.Context, string) (string, error) {
	return "", ErrPopplerUnavailable
}

func (p *Poppler) PageCount(context.Context, string) (int, error) {
	return 0, ErrPopplerUnavailable
}

func (p *Poppler) PageText(context.Context, string, int) (string, error) {
	return "", ErrPopplerUnavailable
}
