package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/featureserv/internal/domain"
)

// GetFeatures handles GET /collections/{collectionId}/items.
// It returns the whole stored FeatureCollection unchanged.
func (s *Server) GetFeatures(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "collectionId") != collectionID {
		writeError(w, http.StatusNotFound, msgCollectionNotFound)
		return
	}

	fc, err := s.features.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// GetFeature handles GET /collections/{collectionId}/items/{featureId}.
// featureId must be an integer; anything else is reported as not found,
// the same as an id that is absent from the store.
func (s *Server) GetFeature(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "collectionId") != collectionID {
		writeError(w, http.StatusNotFound, msgCollectionNotFound)
		return
	}

	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "featureId", chi.URLParam(r, "featureId"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusNotFound, msgFeatureNotFound)
		return
	}

	f, err := s.features.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgFeatureNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// internalError logs err and writes a generic 500 body.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
