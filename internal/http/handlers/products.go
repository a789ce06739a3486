package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// ProductHandler serves the supplier catalogue.
type ProductHandler struct {
	logger logx.Logger
	uc     productUsecase
}

// NewProductHandler wires a productUsecase into HTTP handlers.
func NewProductHandler(logger logx.Logger, uc productUsecase) *ProductHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &ProductHandler{logger: logger, uc: uc}
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := productFilter(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	ps, err := h.uc.List(r.Context(), f, page)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, productsFromDomain(ps))
}

func productFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	f := domain.ProductFilter{
		Category:    strings.TrimSpace(q.Get("category")),
		SubCategory: strings.TrimSpace(q.Get("subCategory")),
		Search:      strings.TrimSpace(q.Get("search")),
		SortBy:      domain.ProductSort(strings.TrimSpace(q.Get("sortBy"))),
	}
	if s := strings.TrimSpace(q.Get("supplierId")); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return domain.ProductFilter{}, queryError("invalid supplierId")
		}
		f.SupplierID = id
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("sortOrder"))) {
	case "", "asc":
	case "desc":
		f.Descending = true
	default:
		return domain.ProductFilter{}, queryError("invalid sortOrder")
	}

	var err error
	if f.MinPrice, err = queryFloat(r, "minPrice"); err != nil {
		return domain.ProductFilter{}, err
	}
	if f.MaxPrice, err = queryFloat(r, "maxPrice"); err != nil {
		return domain.ProductFilter{}, err
	}
	return f, nil
}

// Get handles GET /products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, productFromDomain(*p))
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	var req createProductRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	p, err := h.uc.Create(r.Context(), actor, req.toDomain())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, productFromDomain(*p))
}

// Update handles PUT /products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateProductRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	p, err := h.uc.Update(r.Context(), actor, id, req.toDomain())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, productFromDomain(*p))
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.uc.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
