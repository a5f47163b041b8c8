package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
	"staybook-backend/internal/utils"

	"github.com/gorilla/mux"
)

// SettlementHandler exposes the operator payout surface.
type SettlementHandler struct {
	settlements service.SettlementService
}

func NewSettlementHandler(settlements service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

type createSettlementRequest struct {
	HotelID   int64  `json:"hotel_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *SettlementHandler) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req createSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, fmt.Errorf("%w: start_date: %v", domain.ErrValidation, err))
		return
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, fmt.Errorf("%w: end_date: %v", domain.ErrValidation, err))
		return
	}

	actor := ""
	if claims := claimsFromContext(r.Context()); claims != nil {
		actor = claims.Email
	}

	settlement, err := h.settlements.CreateSettlement(r.Context(), req.HotelID, start, end, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlement)
}

func (h *SettlementHandler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var hotelID int64
	if raw := query.Get("hotel_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid hotel_id", domain.ErrValidation))
			return
		}
		hotelID = id
	}

	page := parseInt32(query.Get("page"), 1)
	pageSize := parseInt32(query.Get("limit"), 20)

	settlements, total, err := h.settlements.ListSettlements(r.Context(), hotelID, query.Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settlements": settlements,
		"total":       total,
		"page":        page,
		"limit":       pageSize,
	})
}

func (h *SettlementHandler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid settlement id", domain.ErrValidation))
		return
	}

	settlement, err := h.settlements.GetSettlement(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

type paySettlementRequest struct {
	TransactionID string `json:"transaction_id"`
	Notes         string `json:"notes"`
}

func (h *SettlementHandler) PaySettlement(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid settlement id", domain.ErrValidation))
		return
	}

	var req paySettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.TransactionID == "" {
		writeError(w, fmt.Errorf("%w: transaction_id is required", domain.ErrValidation))
		return
	}

	operator := ""
	if claims := claimsFromContext(r.Context()); claims != nil {
		operator = claims.Email
	}

	settlement, err := h.settlements.PaySettlement(r.Context(), id, req.TransactionID, req.Notes, operator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (h *SettlementHandler) GetPendingAmount(w http.ResponseWriter, r *http.Request) {
	hotelID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid hotel id", domain.ErrValidation))
		return
	}

	amount, err := h.settlements.PendingAmountForHotel(r.Context(), hotelID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hotel_id":       hotelID,
		"pending_amount": amount,
	})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func parseInt32(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
