package pdfgate

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Engine names the PDF backend pandoc delegates rendering to.
// The zero value means no engine was requested.
type Engine string

// Supported engines.
const (
	EngineWeasyprint  Engine = "weasyprint"
	EngineWkhtmltopdf Engine = "wkhtmltopdf"
	EnginePdflatex    Engine = "pdflatex"
)

// DefaultEngine is used when a request does not choose one.
const DefaultEngine = EngineWeasyprint

// Engines lists the supported engines, default first.
var Engines = []Engine{EngineWeasyprint, EngineWkhtmltopdf, EnginePdflatex}

// Form field names.
const (
	FieldMarkdown = "markdown"
	FieldCSS      = "css"
	FieldEngine   = "engine"
)

// DefaultMaxFormBytes bounds a request body when no limit is configured.
const DefaultMaxFormBytes = 10 << 20

// ParseEngine matches s against the supported engines, ignoring case.
func ParseEngine(s string) (Engine, error) {
	for _, e := range Engines {
		if strings.EqualFold(s, string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of weasyprint, wkhtmltopdf, pdflatex)", ErrUnknownEngine, s)
}

// Request is a decoded conversion request.
type Request struct {
	Markdown string
	CSS      *string // nil when no stylesheet was submitted
	Engine   Engine  // empty when no engine was submitted
}

// ResolvedEngine returns the requested engine, or DefaultEngine.
func (r Request) ResolvedEngine() Engine {
	if r.Engine == "" {
		return DefaultEngine
	}
	return r.Engine
}

// DecodeForm builds a Request from submitted form values.
// markdown must be present but may be empty; css is taken verbatim.
func DecodeForm(values url.Values) (Request, error) {
	var req Request

	md, ok := values[FieldMarkdown]
	if !ok || len(md) == 0 {
		return Request{}, ErrMissingMarkdown
	}
	req.Markdown = md[0]

	if css, ok := values[FieldCSS]; ok && len(css) > 0 {
		s := css[0]
		req.CSS = &s
	}

	if engine, ok := values[FieldEngine]; ok && len(engine) > 0 {
		e, err := ParseEngine(engine[0])
		if err != nil {
			return Request{}, err
		}
		req.Engine = e
	}

	return req, nil
}

// DecodeRequest parses the body of r as a urlencoded or multipart form and
// decodes it. Query string parameters are ignored. Bodies larger than
// maxBytes are rejected; maxBytes <= 0 selects DefaultMaxFormBytes.
func DecodeRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (Request, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFormBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	// Parse a shallow copy without the query string, so a malformed query
	// cannot fail the request. The results are copied back so the server
	// still removes multipart temp files.
	body := *r
	u := *r.URL
	u.RawQuery = ""
	body.URL = &u

	var err error
	if mediaType == "multipart/form-data" {
		err = body.ParseMultipartForm(maxBytes)
	} else {
		err = body.ParseForm()
	}
	r.PostForm, r.MultipartForm = body.PostForm, body.MultipartForm
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Request{}, fmt.Errorf("%w: limit %d bytes", ErrFormTooLarge, tooLarge.Limit)
		}
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedForm, err)
	}

	return DecodeForm(body.PostForm)
}
