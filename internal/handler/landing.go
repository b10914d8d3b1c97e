package handler

import (
	"net/http"

	"github.com/pkordes/featureserv/internal/domain"
)

// collectionID is the only collection this server publishes.
const collectionID = "features"

// conformsTo lists the OGC conformance classes implemented here.
var conformsTo = []string{
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/core",
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/geojson",
	"http://www.opengis.net/spec/ogcapi-processes-1/1.0/conf/core",
}

// linkBuilder turns server-relative paths into absolute hrefs.
type linkBuilder struct {
	base string
}

func (b linkBuilder) href(path string) string {
	return b.base + path
}

func (b linkBuilder) itemsHref() string {
	return b.href("/collections/" + collectionID + "/items")
}

// GetLandingPage handles GET /.
func (s *Server) GetLandingPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.LandingPage{
		Links: []domain.Link{
			{Rel: "self", Type: "application/json", Title: "This document", Href: s.links.href("")},
			{Rel: "data", Type: "application/json", Title: "Local GeoJSON Data", Href: s.links.itemsHref()},
			{Rel: "service-desc", Type: "application/vnd.oai.openapi;version=3.0", Title: "API definition", Href: s.links.href("/openapi.yaml")},
			{Rel: "conformance", Type: "application/json", Title: "Conformance classes", Href: s.links.href("/conformance")},
			{Rel: "processes", Type: "application/json", Title: "Processes", Href: s.links.href("/processes")},
		},
	})
}

// GetConformance handles GET /conformance.
func (s *Server) GetConformance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Conformance{ConformsTo: conformsTo})
}

// GetCollections handles GET /collections.
func (s *Server) GetCollections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Collections{
		Collections: []domain.Collection{{
			ID:          collectionID,
			Title:       "Local GeoJSON Features",
			Description: "A collection of point and polygon features",
			Links: []domain.Link{
				{Rel: "items", Type: "application/geo+json", Href: s.links.itemsHref()},
			},
		}},
	})
}
