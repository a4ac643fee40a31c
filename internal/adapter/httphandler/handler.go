package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"github.com/satvikfoods/catalog/internal/core/service"
)

// GET v1/catalog (200 OK, 503 Service unavailable)
// GET v1/products?brand_id=&category_id=&featured=&in_stock=&search=&sort=&order=&offset=&limit=
// GET v1/brands?order=  GET v1/categories?order=

type CatalogHandler struct {
	provider port.CatalogProvider
	querier  port.ProductsQuerier
}

func RegisterCatalog(
	mux *http.ServeMux,
	provider port.CatalogProvider,
	querier port.ProductsQuerier,
) {
	h := CatalogHandler{provider, querier}
	mux.HandleFunc("GET /v1/catalog", h.GetCatalog)
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/brands", h.GetBrands)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
}

func (h CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCatalog"
	log := slog.With("op", op)

	c, err := h.provider.Catalog(r.Context())
	if err != nil {
		writeFetchErr(w, log, err)
		return
	}

	writeJSON(w, log, toAPICatalog(c))
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	q, err := parseProductQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pg, err := h.querier.QueryProducts(r.Context(), q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeFetchErr(w, log, err)
		return
	}

	writeJSON(w, log, toAPIPage(pg))
}

func (h CatalogHandler) GetBrands(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetBrands"
	log := slog.With("op", op)

	bs, err := h.provider.Brands(r.Context())
	if err != nil {
		writeFetchErr(w, log, err)
		return
	}

	desc := r.URL.Query().Get("order") == string(domain.SortDesc)
	writeJSON(w, log, toAPIBrands(service.SortBrands(bs, desc)))
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"
	log := slog.With("op", op)

	cs, err := h.provider.Categories(r.Context())
	if err != nil {
		writeFetchErr(w, log, err)
		return
	}

	desc := r.URL.Query().Get("order") == string(domain.SortDesc)
	writeJSON(w, log, toAPICategories(service.SortCategories(cs, desc)))
}

func parseProductQuery(r *http.Request) (domain.ProductQuery, error) {
	params := r.URL.Query()

	q := domain.ProductQuery{
		BrandID:    params.Get("brand_id"),
		CategoryID: params.Get("category_id"),
		Search:     params.Get("search"),
		Sort:       domain.SortField(params.Get("sort")),
		Order:      domain.SortDirection(params.Get("order")),
	}

	var err error
	if q.Featured, err = parseBoolParam(params.Get("featured"), "featured"); err != nil {
		return domain.ProductQuery{}, err
	}
	if q.InStock, err = parseBoolParam(params.Get("in_stock"), "in_stock"); err != nil {
		return domain.ProductQuery{}, err
	}
	if q.Offset, err = parseIntParam(params.Get("offset"), "offset"); err != nil {
		return domain.ProductQuery{}, err
	}
	if q.Limit, err = parseIntParam(params.Get("limit"), "limit"); err != nil {
		return domain.ProductQuery{}, err
	}

	return q, nil
}

func parseBoolParam(raw, name string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New("invalid " + name + " parameter")
	}
	return &v, nil
}

func parseIntParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}

// PUT v1/admin/catalog/source JSON {"source": "local|sanity|backend"} (200 OK, 400 Bad request)
// POST v1/admin/catalog/resync JSON {"reason": string} is opt (202 Accepted, 503 Service unavailable)

type AdminHandler struct {
	resyncer port.CatalogResyncer
	switcher port.SourceSwitcher
}

func RegisterAdmin(
	mux *http.ServeMux,
	resyncer port.CatalogResyncer,
	switcher port.SourceSwitcher,
) {
	h := AdminHandler{resyncer, switcher}
	mux.HandleFunc("POST /v1/admin/catalog/resync", h.PostResync)
	mux.HandleFunc("PUT /v1/admin/catalog/source", h.PutSource)
	mux.HandleFunc("GET /v1/admin/catalog/source", h.GetSource)
}

func (h AdminHandler) PostResync(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PostResync"
	log := slog.With("op", op)

	var req ResyncRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON data", http.StatusBadRequest)
			log.Warn("failed to parse JSON", "err", err)
			return
		}
	}

	if err := h.resyncer.ResyncCatalog(r.Context(), req.Reason); err != nil {
		writeFetchErr(w, log, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	log.Info("catalog resync accepted", "reason", req.Reason)
}

func (h AdminHandler) PutSource(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PutSource"
	log := slog.With("op", op)

	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err := h.switcher.SetSourceOverride(domain.Source(req.Source))
	if err != nil {
		if errors.Is(err, domain.ErrUnknownSource) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to switch source", http.StatusInternalServerError)
		log.Error("failed to switch source", "err", err)
		return
	}

	log.Info("catalog source switched", "source", req.Source)
	writeJSON(w, log, SourceRequest{Source: req.Source})
}

func (h AdminHandler) GetSource(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.GetSource"
	log := slog.With("op", op)

	src := h.switcher.ActiveSource()
	writeJSON(w, log, SourceRequest{Source: string(src)})
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeFetchErr(w http.ResponseWriter, log *slog.Logger, err error) {
	if errors.Is(err, domain.ErrSourceUnavailable) {
		http.Error(w, "catalog is unavailable", http.StatusServiceUnavailable)
	} else {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
	log.Error("failed to load catalog", "err", err)
}
