package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// MetadataHandler serves GET /api/v1/data/metadata: which of the local
// stores and external collaborators are configured and reachable, without
// running a full radar analysis.
type MetadataHandler struct {
	patentsDBPath    string
	cordisDBPath     string
	gleifCacheDBPath string

	publicationBaseURL string
	papersBaseURL      string
	entityResBaseURL   string
}

// NewMetadataHandler creates a new MetadataHandler from the configured
// store paths and adapter base URLs.
func NewMetadataHandler(patentsDBPath, cordisDBPath, gleifCacheDBPath, publicationBaseURL, papersBaseURL, entityResBaseURL string) *MetadataHandler {
	return &MetadataHandler{
		patentsDBPath:      patentsDBPath,
		cordisDBPath:       cordisDBPath,
		gleifCacheDBPath:   gleifCacheDBPath,
		publicationBaseURL: publicationBaseURL,
		papersBaseURL:      papersBaseURL,
		entityResBaseURL:   entityResBaseURL,
	}
}

// MetadataResponse reports which data sources this service can currently
// draw on. It carries availability flags only — no row counts or schema
// detail, which would require opening and querying every store on every
// poll.
type MetadataResponse struct {
	PatentsAvailable    bool `json:"patents_available"`
	CordisAvailable     bool `json:"cordis_available"`
	GleifCacheAvailable bool `json:"gleif_cache_available"`
	PublicationsAPI     bool `json:"publications_api_configured"`
	PapersAPI           bool `json:"papers_api_configured"`
	EntityResolutionAPI bool `json:"entity_resolution_api_configured"`
}

// Metadata handles GET /api/v1/data/metadata.
func (h *MetadataHandler) Metadata(c *gin.Context) {
	c.JSON(http.StatusOK, MetadataResponse{
		PatentsAvailable:    filePresent(h.patentsDBPath),
		CordisAvailable:     filePresent(h.cordisDBPath),
		GleifCacheAvailable: filePresent(h.gleifCacheDBPath),
		PublicationsAPI:     h.publicationBaseURL != "",
		PapersAPI:           h.papersBaseURL != "",
		EntityResolutionAPI: h.entityResBaseURL != "",
	})
}

func filePresent(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
