package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	// Schema is one document or an array of documents.
	Schema   json.RawMessage      `json:"schema"`
	Data     map[string]any       `json:"data,omitempty"`
	Errors   map[string][]string  `json:"errors,omitempty"`
	Columns  int                  `json:"columns,omitempty"`
	Readonly bool                 `json:"readonly,omitempty"`
	Action   string               `json:"action,omitempty"`
	Method   string               `json:"method,omitempty"`
	Hidden   []render.HiddenField `json:"hidden,omitempty"`

	// SchemaIndex selects the schema when several are supplied.
	SchemaIndex int `json:"schemaIndex,omitempty"`
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Schema json.RawMessage `json:"schema"`
	Data   map[string]any  `json:"data"`
}

// ValidateResponse reports the outcome of POST /validate.
type ValidateResponse struct {
	Valid  bool                `json:"valid"`
	Issues validation.Issues   `json:"issues,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
	Data   map[string]any      `json:"data,omitempty"`
}

func (s *Server) listRenderers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"renderers": s.cfg.renderers.List()})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}
	docs, ok := decodeSchemas(w, req.Schema)
	if !ok {
		return
	}
	f, err := s.buildForm(r.Context(), docs, req.Columns, req.Readonly, req.SchemaIndex, req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	s.write(w, r, f.View(), render.RenderOptions{
		Action: req.Action,
		Method: req.Method,
		Errors: req.Errors,
		Hidden: req.Hidden,
	})
}

func (s *Server) renderNamed(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" || strings.Contains(name, "..") {
		writeError(w, http.StatusBadRequest, "INVALID_NAME", "invalid form name")
		return
	}
	doc, err := s.cfg.loader.Load(r.Context(), schema.SourceFromFS(name))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "form "+name+" not found")
		return
	}
	docs, err := doc.Schemas()
	if err != nil {
		s.cfg.logger.Error("server: decode stored form", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "INVALID_SCHEMA", "stored form could not be decoded")
		return
	}

	query := r.URL.Query()
	columns, _ := strconv.Atoi(query.Get("columns"))
	index, _ := strconv.Atoi(query.Get("schema"))
	readonly := query.Get("readonly") == "true"
	f, err := s.buildForm(r.Context(), docs, columns, readonly, index, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}
	s.write(w, r, f.View(), render.RenderOptions{
		Action: f.CreateURL(),
		Method: http.MethodPost,
	})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !s.decode(w, r, &req) {
		return
	}
	docs, ok := decodeSchemas(w, req.Schema)
	if !ok {
		return
	}
	f, err := s.buildForm(r.Context(), docs, 0, false, 0, req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATA", err.Error())
		return
	}

	resp := ValidateResponse{Valid: f.IsValid()}
	if resp.Valid {
		resp.Data = f.GetData()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Issues = f.Issues()
	resp.Errors = render.FromIssues(resp.Issues)
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func (s *Server) validateSchema(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", err.Error())
		return
	}
	encoding := schema.EncodingJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		encoding = schema.EncodingYAML
	}
	result := validation.ValidateDocument(raw, encoding)
	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (s *Server) buildForm(ctx context.Context, docs []*schema.Schema, columns int, readonly bool, index int, data map[string]any) (*form.Form, error) {
	if columns <= 0 {
		columns = s.cfg.columns
	}
	f := form.New(
		form.WithColumns(columns),
		form.WithReadonly(readonly),
		form.WithLocale(s.cfg.locale),
		form.WithLogger(s.cfg.logger),
	)
	f.SetSchema(docs...)
	if index > 0 && index < len(docs) {
		f.SelectSchema(index)
	}
	if len(data) > 0 {
		if err := f.SetData(ctx, data); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// write renders view with the renderer named by ?renderer=, falling back to
// Accept negotiation.
func (s *Server) write(w http.ResponseWriter, r *http.Request, view *form.View, options render.RenderOptions) {
	var (
		renderer render.Renderer
		err      error
	)
	if name := r.URL.Query().Get("renderer"); name != "" {
		renderer, err = s.cfg.renderers.Get(name)
	} else {
		renderer, err = s.cfg.renderers.Negotiate(r.Header.Get("Accept"))
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrRendererNotFound) {
			status = http.StatusNotAcceptable
		}
		writeError(w, status, "RENDERER_NOT_FOUND", err.Error())
		return
	}

	out, err := renderer.Render(r.Context(), view, options)
	if err != nil {
		s.cfg.logger.Error("server: render", "renderer", renderer.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, "RENDER_FAILED", "form could not be rendered")
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.maxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return false
	}
	return true
}

func decodeSchemas(w http.ResponseWriter, raw json.RawMessage) ([]*schema.Schema, bool) {
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "MISSING_SCHEMA", "schema is required")
		return nil, false
	}
	docs, err := schema.DecodeAll(raw, schema.EncodingJSON)
	if err != nil || len(docs) == 0 {
		message := "schema is empty"
		if err != nil {
			message = err.Error()
		}
		writeError(w, http.StatusBadRequest, "INVALID_SCHEMA", message)
		return nil, false
	}
	return docs, true
}
