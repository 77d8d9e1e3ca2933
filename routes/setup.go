package routes

import (
	"net/http"

	"github.com/abiiranathan/pdfscan/search"
)

func SetupRoutes(mux *http.ServeMux, engine *search.Engine, opts Options) {
	// Search endpoints
	mux.HandleFunc("GET /api/search", Search(engine, opts))
	mux.HandleFunc("GET /api/search/stream", SearchStream(engine, opts))

	// Page lookup for a single document
	mux.HandleFunc("GET /api/locate", Locate(engine))

	// Document content for the viewer, local clients only
	mux.HandleFunc("GET /api/document", LocalOnly(Document(opts)))
	mux.HandleFunc("GET /api/document/pages", LocalOnly(DocumentPages(engine)))
	mux.HandleFunc("GET /api/page", LocalOnly(Page(engine)))

	// Open document with the OS viewer
	mux.HandleFunc("POST /api/open", LocalOnly(OpenDocument()))

	mux.HandleFunc("POST /api/cache/clear", ClearCache(engine))
}
