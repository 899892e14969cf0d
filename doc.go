// Package pdfgate converts Markdown to PDF by running pandoc as an external
// process, for use behind an HTTP endpoint.
//
// # Quick Start
//
// Create a converter and hand it a decoded request:
//
//	conv := pdfgate.NewConverter(
//	    pdfgate.WithTimeout(2 * time.Minute),
//	    pdfgate.WithMaxConcurrent(4),
//	)
//
//	req, err := pdfgate.DecodeRequest(w, r, 0)
//	if err != nil {
//	    http.Error(w, err.Error(), http.StatusBadRequest)
//	    return
//	}
//
//	err = conv.Convert(r.Context(), req, func(a *pdfgate.Artifact) error {
//	    w.Header().Set("Content-Type", "application/pdf")
//	    _, err := io.Copy(w, a.Body)
//	    return err
//	})
//
// # Conversion Pipeline
//
// Each call to Converter.Convert:
//
//  1. waits for a free conversion slot
//  2. allocates a uniquely named output file (and a stylesheet file when
//     Request.CSS is set) in the temp directory
//  3. runs pandoc --output=<pdf> --pdf-engine=<engine> [--css=<css>] with
//     the Markdown on stdin
//  4. hands the finished PDF to the deliver callback
//  5. removes every temporary file, on every exit path
//
// # Errors
//
// A non-zero pandoc exit is reported as *RejectedError carrying pandoc's
// stderr verbatim. Everything else that goes wrong (temp files, spawning,
// pipes, timeouts, a missing output file) wraps ErrInfrastructure.
// Classify maps any returned error to an Outcome.
//
// # Engines
//
// Three engines are accepted: weasyprint (default), wkhtmltopdf and
// pdflatex. ParseEngine matches them case-insensitively.
package pdfgate
