package handlers

import (
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/services"
	"strings"
)

type CarrierHandler struct {
	Scorer *services.CarrierScorer
}

// Suggest ranks roster carriers for a material type, region and constraints.
func (h *CarrierHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SuggestCarriersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	material := strings.TrimSpace(req.MaterialType)
	if material == "" {
		writeError(w, r, http.StatusBadRequest, "material_type is required")
		return
	}

	constraints, err := req.Constraints.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "constraints: "+err.Error())
		return
	}

	list := h.Scorer.Suggest(r.Context(), material, constraints, req.Region)
	writeJSON(w, r, http.StatusOK, dto.NewSuggestCarriersResponse(list))
}
