//go:build cgo && !nopoppler

package pdf

/*
#cgo pkg-config: glib-2.0 gio-2.0 poppler-glib
#cgo LDFLAGS: -pthread

#include <locale.h>
#include <stdlib.h>
#include <poppler/glib/poppler.h>

// Load a document fully into memory. On failure returns NULL and stores a
// message in *err_out that the caller frees with g_free.
PopplerDocument *open_document(const char *filename, int *num_pages, char **err_out){
	*err_out = NULL;

	GFile* file = g_file_new_for_path(filename);
	if(file == NULL){
		*err_out = g_strdup("unable to create GFile");
		return NULL;
	}

	GError* error = NULL;
	GBytes* bytes = g_file_load_bytes(file, NULL, NULL, &error);
	g_object_unref(file);

	if (error != NULL) {
		*err_out = g_strdup(error->message);
		g_clear_error(&error);
		return NULL;
	}

	PopplerDocument *doc = poppler_document_new_from_bytes(bytes, NULL, &error);
	g_bytes_unref(bytes);
	if (error != NULL) {
		*err_out = g_strdup(error->message);
		g_clear_error(&error);
		return NULL;
	}

	*num_pages = poppler_document_get_n_pages(doc);
	return doc;
}
*/
import "C"
import (
	"context"
	"fmt"
	"strings"
	"unsafe"
)

// SetLocale sets the C locale from the environment so poppler decodes UTF-8.
func SetLocale() {
	empty := C.CString("")
	defer C.free(unsafe.Pointer(empty))
	C.setlocale(C.LC_ALL, empty)
}

type Document struct {
	doc      *C.PopplerDocument
	Path     string
	NumPages int
}

// Open loads the PDF at path. The caller must Close the document.
func Open(path string) (*Document, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var numPages C.int
	var cErr *C.char
	doc := C.open_document(cPath, &numPages, &cErr)
	if doc == nil {
		msg := "unknown error"
		if cErr != nil {
			msg = C.GoString(cErr)
			C.g_free(C.gpointer(unsafe.Pointer(cErr)))
		}
		return nil, fmt.Errorf("unable to open %s: %s", path, msg)
	}

	return &Document{doc: doc, Path: path, NumPages: int(numPages)}, nil
}

func (pdf *Document) Close() {
	if pdf.doc != nil {
		C.g_object_unref(C.gpointer(unsafe.Pointer(pdf.doc)))
		pdf.doc = nil
	}
}

type Page struct {
	page    *C.PopplerPage
	PageNum int // zero-indexed
}

// GetPage returns the zero-indexed page, or nil when out of range.
func (pdf *Document) GetPage(page int) *Page {
	if page < 0 || page >= pdf.NumPages {
		return nil
	}

	p := C.poppler_document_get_page(pdf.doc, C.int(page))
	if p == nil {
		return nil
	}
	return &Page{page: p, PageNum: page}
}

func (page *Page) Close() {
	if page.page != nil {
		C.g_object_unref(C.gpointer(unsafe.Pointer(page.page)))
		page.page = nil
	}
}

// Text returns the cleaned text content of the page.
func (page *Page) Text() string {
	gText := C.poppler_page_get_text(page.page)
	if gText == nil {
		return ""
	}
	defer C.g_free(C.gpointer(unsafe.Pointer(gText)))

	return CleanText(C.GoString((*C.char)(gText)))
}

// Poppler extracts text with poppler-glib. Every call opens the document.
type Poppler struct{}

func NewPoppler() (*Poppler, error) {
	return &Poppler{}, nil
}

func (p *Poppler) ExtractPages(ctx context.Context, path string) ([]string, error) {
	doc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPages)
	for i := range doc.NumPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(doc, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func (p *Poppler) ExtractAll(ctx context.Context, path string) (string, error) {
	pages, err := p.ExtractPages(ctx, path)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

func (p *Poppler) PageCount(_ context.Context, path string) (int, error) {
	doc, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPages, nil
}

// PageText returns the text of the 1-based page.
func (p *Poppler) PageText(_ context.Context, path string, page int) (string, error) {
	doc, err := Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPages {
		return "", fmt.Errorf("%w: page %d of %d", ErrPageRange, page, doc.NumPages)
	}
	return pageText(doc, page-1)
}

func pageText(doc *Document, index int) (string, error) {
	page := doc.GetPage(index)
	if page == nil {
		return "", fmt.Errorf("unable to get page %d of %s", index+1, doc.Path)
	}
	defer page.Close()
	return page.Text(), nil
}
