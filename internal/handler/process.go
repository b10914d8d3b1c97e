package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/pkordes/featureserv/internal/domain"
)

const bufferProcessID = "buffer"

// bufferProcess describes the buffer process for GET /processes.
func (s *Server) bufferProcess() domain.Process {
	return domain.Process{
		ID:          bufferProcessID,
		Title:       "Buffer Process",
		Description: "Buffer the input features",
		Version:     "1.0.0",
		Inputs: map[string]domain.ProcessInput{
			"features": {
				Title:       "Features",
				Description: "GeoJSON FeatureCollection whose geometries are buffered",
				Required:    true,
			},
			"buffer_distance": {
				Title:       "Buffer distance",
				Description: "Offset in coordinate units; negative values erode",
				Required:    true,
			},
			"options": {
				Title:       "Buffer options",
				Description: "quad_segments, cap_style (round|flat|square), join_style (round|mitre|bevel)",
			},
		},
		Links: []domain.Link{
			{Rel: "self", Type: "application/json", Title: "Process description", Href: s.links.href("/processes/" + bufferProcessID)},
			{Rel: "http://www.opengis.net/def/rel/ogc/1.0/execute", Type: "application/json", Title: "Execute", Href: s.links.href("/process/buffer")},
		},
	}
}

// GetProcesses handles GET /processes.
func (s *Server) GetProcesses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.ProcessList{
		Processes: []domain.Process{s.bufferProcess()},
		Links: []domain.Link{
			{Rel: "self", Type: "application/json", Title: "Processes", Href: s.links.href("/processes")},
		},
	})
}

// GetProcess handles GET /processes/{processId}.
func (s *Server) GetProcess(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "processId") != bufferProcessID {
		writeError(w, http.StatusNotFound, msgProcessNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.bufferProcess())
}

// ExecuteBuffer handles POST /process/buffer.
// The body is checked with gjson before any typed decoding so each shape
// problem maps to its own 400 message; the transformation runs only on a
// fully valid request.
func (s *Server) ExecuteBuffer(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	req, err := parseBufferRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, unwrapMessage(err))
		return
	}

	execID := uuid.New()
	w.Header().Set("X-Execution-Id", execID.String())
	start := time.Now()

	out, err := s.buffer.Buffer(r.Context(), req.Features, req.BufferDistance, req.Options)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGeometry):
			s.log.InfoContext(r.Context(), "buffer rejected",
				"execution_id", execID,
				"features", len(req.Features.Features),
				"error", err,
			)
			writeError(w, http.StatusBadRequest, unwrapMessage(err))
		case errors.Is(err, context.Canceled):
			s.log.InfoContext(r.Context(), "buffer cancelled", "execution_id", execID)
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.log.InfoContext(r.Context(), "buffer executed",
		"execution_id", execID,
		"features", len(out.Features),
		"distance", req.BufferDistance,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, out)
}

// parseBufferRequest validates body in the order the API documents and
// decodes it. Every returned error wraps domain.ErrValidation.
func parseBufferRequest(body []byte) (domain.BufferRequest, error) {
	if !gjson.ValidBytes(body) {
		return domain.BufferRequest{}, validation(msgInvalidJSON)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return domain.BufferRequest{}, validation(msgInvalidJSON)
	}

	features := doc.Get("features")
	distance := doc.Get("buffer_distance")
	if !features.Exists() || !distance.Exists() {
		return domain.BufferRequest{}, validation(msgInvalidInput)
	}
	if !features.IsObject() || features.Get("type").String() != domain.TypeFeatureCollection {
		return domain.BufferRequest{}, validation(msgNotCollection)
	}
	if !features.Get("features").IsArray() {
		return domain.BufferRequest{}, validation(msgFeaturesNotArray)
	}
	if distance.Type != gjson.Number {
		return domain.BufferRequest{}, validation(msgDistanceNotNumber)
	}

	// Decode the members gjson validated so a repeated key cannot swap in a
	// different value, then check the decoded collection as well.
	req := domain.BufferRequest{BufferDistance: distance.Float()}
	if err := decodeMember(features, &req.Features); err != nil {
		return domain.BufferRequest{}, err
	}
	if opts := doc.Get("options"); opts.Exists() {
		if err := decodeMember(opts, &req.Options); err != nil {
			return domain.BufferRequest{}, err
		}
	}
	if req.Features.Type != domain.TypeFeatureCollection {
		return domain.BufferRequest{}, validation(msgNotCollection)
	}
	if req.Features.Features == nil {
		return domain.BufferRequest{}, validation(msgFeaturesNotArray)
	}
	return req, nil
}

func decodeMember(member gjson.Result, v any) error {
	dec := json.NewDecoder(strings.NewReader(member.Raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return validation(fmt.Sprintf("%s: %v", msgInvalidJSON, err))
	}
	return nil
}

func validation(message string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, message)
}
