package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/logging"
	"github.com/dmitrijs2005/taxiikeeper/internal/query"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/config"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/metrics"
	"github.com/dmitrijs2005/taxiikeeper/internal/taxii"
)

type CollectionService interface {
	List(ctx context.Context) (*taxii.Collections, error)
	Get(ctx context.Context, id string) (*taxii.Collection, error)
}

type ObjectService interface {
	Objects(ctx context.Context, spec *query.Spec) (*taxii.Envelope, taxii.DateRange, error)
	Manifest(ctx context.Context, spec *query.Spec) (*taxii.Manifest, taxii.DateRange, error)
	Versions(ctx context.Context, spec *query.Spec) (*taxii.Versions, taxii.DateRange, error)
}

// Handler routes TAXII requests to the services.
type Handler struct {
	config      *config.Config
	collections CollectionService
	objects     ObjectService
}

// NewHandler builds the complete HTTP handler: the TAXII routes under the
// configured API root, /metrics, and the instrumentation around them.
func NewHandler(c *config.Config, cs CollectionService, objs ObjectService, l logging.Logger, m *metrics.Metrics) http.Handler {
	h := &Handler{config: c, collections: cs, objects: objs}

	mux := http.NewServeMux()
	root := "/" + c.APIRootPath

	mux.HandleFunc("GET /taxii2/{$}", h.taxii(h.discovery))
	mux.HandleFunc("GET "+root+"/{$}", h.taxii(h.apiRoot))
	mux.HandleFunc("GET "+root+"/collections/{$}", h.taxii(h.listCollections))
	mux.HandleFunc("GET "+root+"/collections/{collection}/{$}", h.taxii(h.getCollection))
	mux.HandleFunc("GET "+root+"/collections/{collection}/manifest/{$}", h.taxii(h.manifest))
	mux.HandleFunc("GET "+root+"/collections/{collection}/objects/{$}", h.taxii(h.listObjects))
	mux.HandleFunc("GET "+root+"/collections/{collection}/objects/{object}/{$}", h.taxii(h.getObject))
	mux.HandleFunc("GET "+root+"/collections/{collection}/objects/{object}/versions/{$}", h.taxii(h.versions))
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
	mux.HandleFunc("/", h.fallback)

	return instrument(mux, l, m)
}

// taxii enforces content negotiation on TAXII routes.
func (h *Handler) taxii(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptable(r.Header.Get("Accept")) {
			writeError(w, r, common.ErrNotAcceptable)
			return
		}
		next(w, r)
	}
}

func (h *Handler) fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, &taxii.Error{
			Title:      titleFor(http.StatusMethodNotAllowed),
			HTTPStatus: "405",
		})
		return
	}
	writeError(w, r, common.ErrorNotFound)
}

func setDateHeaders(w http.ResponseWriter, dates taxii.DateRange) {
	if dates.First != "" {
		w.Header().Set(common.DateAddedFirstHeaderName, dates.First)
	}
	if dates.Last != "" {
		w.Header().Set(common.DateAddedLastHeaderName, dates.Last)
	}
}

func (h *Handler) discovery(w http.ResponseWriter, r *http.Request) {
	root := "/" + h.config.APIRootPath + "/"
	writeJSON(w, http.StatusOK, &taxii.Discovery{
		Title:       h.config.Title,
		Description: h.config.Description,
		Contact:     h.config.Contact,
		Default:     root,
		APIRoots:    []string{root},
	})
}

func (h *Handler) apiRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &taxii.APIRoot{
		Title:            h.config.Title,
		Description:      h.config.Description,
		Versions:         []string{common.TAXIIMediaType},
		MaxContentLength: h.config.MaxContentLength,
	})
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	res, err := h.collections.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	res, err := h.collections.Get(r.Context(), r.PathValue("collection"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) spec(r *http.Request) (*query.Spec, error) {
	return parseSpec(r, r.PathValue("collection"), r.PathValue("object"), h.config.MaxPageSize)
}

func (h *Handler) manifest(w http.ResponseWriter, r *http.Request) {
	spec, err := h.spec(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, dates, err := h.objects.Manifest(r.Context(), spec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setDateHeaders(w, dates)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) serveEnvelope(w http.ResponseWriter, r *http.Request) {
	spec, err := h.spec(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, dates, err := h.objects.Objects(r.Context(), spec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setDateHeaders(w, dates)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listObjects(w http.ResponseWriter, r *http.Request) {
	h.serveEnvelope(w, r)
}

func (h *Handler) getObject(w http.ResponseWriter, r *http.Request) {
	h.serveEnvelope(w, r)
}

func (h *Handler) versions(w http.ResponseWriter, r *http.Request) {
	spec, err := h.spec(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, dates, err := h.objects.Versions(r.Context(), spec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setDateHeaders(w, dates)
	writeJSON(w, http.StatusOK, res)
}
