package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/datacanvas/pkg/buildinfo"
	"github.com/matzehuels/datacanvas/pkg/errors"
	"github.com/matzehuels/datacanvas/pkg/pipeline"
	"github.com/matzehuels/datacanvas/pkg/source"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// RenderRequest is the body of the render endpoints.
type RenderRequest struct {
	Records json.RawMessage  `json:"records"`
	Options pipeline.Options `json:"options"`
}

// RenderResponse is returned by POST /v1/render. Artifacts are UTF-8 text.
type RenderResponse struct {
	Hash      string            `json:"hash"`
	CacheHit  bool              `json:"cache_hit"`
	Stats     pipeline.Stats    `json:"stats"`
	Artifacts map[string]string `json:"artifacts"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatNodelink: "image/svg+xml",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(source.SampleJSON())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, records, err := s.decodeRender(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Render(r.Context(), records, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := RenderResponse{
		Hash:      res.RecordsHash,
		CacheHit:  res.CacheHit,
		Stats:     res.Stats,
		Artifacts: make(map[string]string, len(res.Artifacts)),
	}
	for f, data := range res.Artifacts {
		out.Artifacts[f] = string(data)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRenderFormat(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	req, records, err := s.decodeRender(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	req.Options.Formats = []string{format}

	res, err := s.runner.Render(r.Context(), records, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Records-Hash", res.RecordsHash)
	w.Header().Set("X-Cache-Hit", fmt.Sprint(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) decodeRender(w http.ResponseWriter, r *http.Request) (RenderRequest, []value.Value, error) {
	var req RenderRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if len(req.Records) == 0 {
		return req, nil, errors.New(errors.ErrCodeInvalidInput, "records is required")
	}
	doc, err := value.Parse(req.Records)
	if err != nil {
		return req, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
	}
	return req, source.Split(doc), nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func statusFor(err error) int {
	return errors.GetCode(err).HTTPStatus()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
