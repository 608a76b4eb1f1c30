// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/metadatalab/revisor/internal/store"
	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Request handlers.
 *
 * The wire format mirrors the editor frontend: a search returns a token
 * that preview and update submit back together with the user's rule
 * description (userActions). Errors map onto status codes by sentinel:
 * malformed rules and bad parameters are 400, unknown sessions and jobs
 * are 404, everything else is 500. Every error body is {"error": "..."}.
 */

type recordPayload struct {
	ID       types.RecordID `json:"id"`
	Revision int64          `json:"revision"`
	Record   map[string]any `json:"record"`
}

type searchResponse struct {
	Token   types.SessionToken `json:"token"`
	Total   int64              `json:"total"`
	Records []recordPayload    `json:"records"`
}

type previewRequest struct {
	Token       types.SessionToken `json:"token"`
	UserActions types.RuleSpec     `json:"userActions"`
	PageNum     int                `json:"pageNum"`
	PageSize    int                `json:"pageSize"`
	QueryString string             `json:"queryString"`
}

type previewResponse struct {
	Records []map[string]any `json:"records"`
	Errors  []string         `json:"errors"`
}

type updateRequest struct {
	Token          types.SessionToken `json:"token"`
	UserActions    types.RuleSpec     `json:"userActions"`
	CheckedRecords []types.RecordID   `json:"checkedRecords"`
}

type updateResponse struct {
	JobID types.JobID `json:"jobId"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	collection := q.Get("collection")
	if collection == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("collection is required"))
		return
	}
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	size, err := intParam(q.Get("size"), 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.editor.Search(collection, q.Get("q"), page, size)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse{
		Token:   result.Token,
		Total:   result.Total,
		Records: payloads(result.Documents),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	preview, err := s.editor.Preview(req.Token, req.UserActions, req.QueryString, req.PageNum, req.PageSize)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, previewResponse{
		Records: preview.Documents,
		Errors:  preview.Errors,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	jobID, err := s.editor.Update(req.Token, req.UserActions, req.CheckedRecords)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusAccepted, updateResponse{JobID: jobID})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := types.ParseJobID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	status, err := s.editor.Job(jobID)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// payloads converts store documents to their wire form.
func payloads(docs []store.Document) []recordPayload {
	out := make([]recordPayload, 0, len(docs))
	for _, doc := range docs {
		out = append(out, recordPayload{ID: doc.ID, Revision: doc.Revision, Record: doc.Tree})
	}
	return out
}

// intParam parses an optional integer query parameter.
func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid integer parameter: " + raw)
	}
	return n, nil
}

// badRuleSentinels are the build-time failures a caller can correct.
var badRuleSentinels = []error{
	types.ErrEmptyPath,
	types.ErrPathTooDeep,
	types.ErrUnknownActionName,
	types.ErrUnknownMatchType,
	types.ErrTooManyConditions,
	types.ErrTooManyActions,
	types.ErrNoActions,
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrSessionNotFound), errors.Is(err, types.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrUnknownSchema):
		return http.StatusBadRequest
	}
	for _, sentinel := range badRuleSentinels {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
