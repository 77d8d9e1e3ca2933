package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/abiiranathan/pdfscan/search"
	"github.com/abiiranathan/pdfscan/viewer"
)

// Options configures the handlers.
type Options struct {
	// Largest document returned by the document endpoint.
	MaxDocumentBytes int64

	// Drop English stop words from search keywords.
	Stopwords bool

	// Mode used when the request does not name one.
	DefaultMode search.Mode
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"message": err.Error()})
}

// statusOf maps errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, search.ErrEmptyQuery), errors.Is(err, search.ErrPagesUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, viewer.ErrNotFound), errors.Is(err, search.ErrPageNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, viewer.ErrSizeExceeded):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func parseQuery(r *http.Request, opts Options) (search.Query, error) {
	params := r.URL.Query()

	folder := params.Get("folder")
	if folder == "" {
		return search.Query{}, errors.New("folder is required")
	}

	mode := opts.DefaultMode
	if name := params.Get("mode"); name != "" {
		m, err := search.ParseMode(name)
		if err != nil {
			return search.Query{}, err
		}
		mode = m
	}

	var qopts []search.QueryOption
	if opts.Stopwords {
		qopts = append(qopts, search.WithoutStopwords("en"))
	}
	return search.NewQuery(folder, params.Get("q"), mode, qopts...)
}

// Search runs a query and returns the whole report as JSON.
func Search(engine *search.Engine, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseQuery(r, opts)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		report, err := engine.Run(r.Context(), query, search.Hooks{})
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

type runResult struct {
	report *search.Report
	err    error
}

// SearchStream runs a query and streams server-sent events: "progress" for
// every document started, "outcome" for every document done, then a single
// "done" with the report or "error". Events a slow client cannot keep up with
// are dropped; "done" and "error" always arrive.
func SearchStream(engine *search.Engine, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseQuery(r, opts)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		progress := make(chan search.Progress, 256)
		outcomes := make(chan search.Outcome, 256)
		done := make(chan runResult, 1)

		go func() {
			report, err := engine.Run(r.Context(), query, search.Hooks{
				Progress: search.ChannelProgress(progress),
				Outcome: func(o search.Outcome) {
					select {
					case outcomes <- o:
					default:
					}
				},
			})
			done <- runResult{report: report, err: err}
		}()

		for {
			select {
			case p := <-progress:
				writeEvent(w, "progress", p)
				flusher.Flush()

			case o := <-outcomes:
				writeEvent(w, "outcome", o)
				flusher.Flush()

			case res := <-done:
				drain(w, progress, outcomes)
				if res.err != nil {
					writeEvent(w, "error", map[string]string{"message": res.err.Error()})
				} else {
					writeEvent(w, "done", res.report)
				}
				flusher.Flush()
				return
			}
		}
	}
}

// drain writes the events still buffered once the run is over.
func drain(w http.ResponseWriter, progress <-chan search.Progress, outcomes <-chan search.Outcome) {
	for {
		select {
		case p := <-progress:
			writeEvent(w, "progress", p)
		case o := <-outcomes:
			writeEvent(w, "outcome", o)
		default:
			return
		}
	}
}

// Locate returns the page of a document containing some text.
func Locate(engine *search.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		text := strings.TrimSpace(r.URL.Query().Get("text"))
		if path == "" || text == "" {
			writeError(w, http.StatusBadRequest, errors.New("path and text are required"))
			return
		}

		page, found := engine.LocatePage(r.Context(), path, text)
		if !found {
			writeJSON(w, http.StatusOK, map[string]any{"path": path, "found": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"path": path, "found": true, "page_number": page})
	}
}

// Document returns a document base64 encoded for an embedded viewer.
func Document(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			writeError(w, http.StatusBadRequest, errors.New("path is required"))
			return
		}

		data, err := viewer.Base64(path, opts.MaxDocumentBytes)
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"path": path, "data": data})
	}
}

// isLoopback reports whether the request comes from this machine. The Host
// header is chosen by the client and is not trusted.
func isLoopback(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// LocalOnly rejects requests from other machines with 403. It guards the
// endpoints that hand out document content or act on the server's desktop.
func LocalOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isLoopback(r) {
			writeError(w, http.StatusForbidden, errors.New("only available to local clients"))
			return
		}
		next(w, r)
	}
}

// OpenDocument opens a document with the OS viewer.
func OpenDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			writeError(w, http.StatusBadRequest, errors.New("path is required"))
			return
		}

		if err := viewer.Open(path); err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Page returns one page of a document as text. A missing or out of range
// page is clamped to the document.
func Page(engine *search.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" {
			writeError(w, http.StatusBadRequest, errors.New("path is required"))
			return
		}

		var page int
		if raw := r.URL.Query().Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("invalid page %q", raw))
				return
			}
			page = n
		}

		view, err := engine.ViewPage(r.Context(), path, page)
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// DocumentPages lists the pages of a document containing some text.
func DocumentPages(engine *search.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		text := r.URL.Query().Get("text")
		if path == "" {
			writeError(w, http.StatusBadRequest, errors.New("path is required"))
			return
		}

		pages, err := engine.MatchingPages(r.Context(), path, text)
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"path": path, "pages": pages})
	}
}

// ClearCache drops every cached document text.
func ClearCache(engine *search.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleared := engine.Cache().Len()
		engine.Cache().Clear()
		writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
	}
}
