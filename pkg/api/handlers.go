package api

import (
	"encoding/json"
	"net/http"

	"github.com/atlantix-eda/aeda/pkg/buildinfo"
	"github.com/atlantix-eda/aeda/pkg/component"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/eseries"
	"github.com/atlantix-eda/aeda/pkg/mpn"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
	"github.com/atlantix-eda/aeda/pkg/smd"
)

// maxPreviewRecords bounds synchronous previews. Larger requests go through
// the job API.
const maxPreviewRecords = 5000

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// GenerateRequest is the body of POST /v1/preview and POST /v1/jobs.
type GenerateRequest struct {
	Series           string   `json:"series"`
	Packages         []string `json:"packages"`
	Decades          []int64  `json:"decades,omitempty"`
	Manufacturers    []string `json:"manufacturers,omitempty"`
	Formats          []string `json:"formats,omitempty"`
	SymbolStyle      string   `json:"symbol_style,omitempty"`
	FootprintLibrary string   `json:"footprint_library,omitempty"`
}

// options converts the request into pipeline options writing below dir.
func (g GenerateRequest) options(dir string) (pipeline.Options, error) {
	s, err := eseries.Parse(g.Series)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Series:           s,
		Packages:         g.Packages,
		Decades:          g.Decades,
		Manufacturers:    g.Manufacturers,
		Formats:          g.Formats,
		SymbolStyle:      g.SymbolStyle,
		FootprintLibrary: g.FootprintLibrary,
		OutputDir:        dir,
	}, nil
}

// SeriesInfo describes one supported E-series.
type SeriesInfo struct {
	Name      string `json:"name"`
	Values    int    `json:"values"`
	Tolerance string `json:"tolerance"`
}

// PreviewResponse is the body returned by POST /v1/preview.
type PreviewResponse struct {
	Count   int                `json:"count"`
	Records []component.Record `json:"records"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	var out []SeriesInfo
	for _, series := range eseries.All() {
		tol, _ := eseries.Tolerance(series)
		out = append(out, SeriesInfo{Name: series.String(), Values: int(series), Tolerance: tol})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, smd.All())
}

func (s *Server) handleManufacturers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mpn.Names())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	opts, err := req.options("preview")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}
	expand := opts.Request()
	if n := expand.Count(); n > maxPreviewRecords {
		writeError(w, errs.New(errs.ErrCodeInvalidInput,
			"preview of %d records exceeds the limit of %d; submit a job instead", n, maxPreviewRecords))
		return
	}
	records, err := component.Expand(r.Context(), expand)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Count: len(records), Records: records})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), ErrorResponse{Code: string(code), Message: errs.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeNotFound, errs.ErrCodeLibraryNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupportedSeries, errs.ErrCodeUnknownPackage,
		errs.ErrCodeMalformedDescriptor, errs.ErrCodeInvalidInput,
		errs.ErrCodeUnknownManufacturer, errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidStyle, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
