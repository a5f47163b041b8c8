package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/service"
	"staybook-backend/internal/utils"

	"github.com/gorilla/mux"
)

// PaymentHandler exposes the reservation payment flow: payment URL creation,
// the signed gateway return callback and status lookups.
type PaymentHandler struct {
	payments       service.PaymentService
	availability   service.AvailabilityService
	successPageURL string
	failurePageURL string
}

func NewPaymentHandler(payments service.PaymentService, availability service.AvailabilityService, successPageURL, failurePageURL string) *PaymentHandler {
	return &PaymentHandler{
		payments:       payments,
		availability:   availability,
		successPageURL: successPageURL,
		failurePageURL: failurePageURL,
	}
}

type createReservationRequest struct {
	HotelID       int64  `json:"hotel_id"`
	RoomID        int64  `json:"room_id"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	TotalAmount   int64  `json:"total_amount"`
	OriginalTotal int64  `json:"original_total"`
	PaymentMethod string `json:"payment_method"`
}

func (h *PaymentHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		writeError(w, fmt.Errorf("%w: check_in: %v", domain.ErrValidation, err))
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		writeError(w, fmt.Errorf("%w: check_out: %v", domain.ErrValidation, err))
		return
	}

	claims := claimsFromContext(r.Context())
	var userID int64
	if claims != nil {
		userID = claims.UserID
	}

	rv, err := h.payments.CreateReservation(r.Context(), service.CreateReservationInput{
		HotelID:       req.HotelID,
		RoomID:        req.RoomID,
		UserID:        userID,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		TotalAmount:   req.TotalAmount,
		OriginalTotal: req.OriginalTotal,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

type paymentURLRequest struct {
	Locale   string `json:"locale"`
	BankCode string `json:"bank_code"`
}

type paymentURLResponse struct {
	PaymentURL string `json:"payment_url"`
}

func (h *PaymentHandler) CreatePaymentURL(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req paymentURLRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	paymentURL, err := h.payments.CreatePaymentURL(r.Context(), code, clientIP(r), req.Locale, req.BankCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentURLResponse{PaymentURL: paymentURL})
}

type rescheduleRequest struct {
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	ExtraAmount int64  `json:"extra_amount"`
}

func (h *PaymentHandler) RequestReschedule(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		writeError(w, fmt.Errorf("%w: check_in: %v", domain.ErrValidation, err))
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		writeError(w, fmt.Errorf("%w: check_out: %v", domain.ErrValidation, err))
		return
	}

	rv, err := h.payments.RequestReschedule(r.Context(), code, checkIn, checkOut, req.ExtraAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *PaymentHandler) CreateReschedulePaymentURL(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req paymentURLRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	paymentURL, err := h.payments.CreateReschedulePaymentURL(r.Context(), code, clientIP(r), req.Locale)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentURLResponse{PaymentURL: paymentURL})
}

// HandleGatewayReturn receives the signed callback redirect from the payment
// gateway. The customer always ends up on a definite success or failure
// page; protocol detail stays in the server log.
func (h *PaymentHandler) HandleGatewayReturn(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	outcome, err := h.payments.HandleCallback(r.Context(), params)
	if err != nil {
		logger.Warn("Gateway callback rejected", "txn_ref", params["vnp_TxnRef"], "error", err)
	}

	if outcome.Success {
		target := fmt.Sprintf("%s?code=%s&type=%s",
			h.successPageURL, url.QueryEscape(outcome.Code), url.QueryEscape(outcome.PaymentType))
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	target := fmt.Sprintf("%s?message=%s", h.failurePageURL, url.QueryEscape(outcome.Message))
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *PaymentHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	rv, err := h.payments.CheckStatus(r.Context(), claims.UserID, claims.IsOperator(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

type availabilityResponse struct {
	RoomID         int64    `json:"room_id"`
	AvailableCount int32    `json:"available_count"`
	AvailableDates []string `json:"available_dates,omitempty"`
}

// GetAvailability reports the remaining capacity for a room's type, and the
// bookable days when a from/to range is supplied.
func (h *PaymentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid room id", domain.ErrValidation))
		return
	}

	var checkIn, checkOut *time.Time
	query := r.URL.Query()
	if from := query.Get("check_in"); from != "" {
		t, err := utils.ParseDate(from)
		if err != nil {
			writeError(w, fmt.Errorf("%w: check_in: %v", domain.ErrValidation, err))
			return
		}
		checkIn = &t
	}
	if to := query.Get("check_out"); to != "" {
		t, err := utils.ParseDate(to)
		if err != nil {
			writeError(w, fmt.Errorf("%w: check_out: %v", domain.ErrValidation, err))
			return
		}
		checkOut = &t
	}

	count, err := h.availability.AvailableCount(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := availabilityResponse{RoomID: roomID, AvailableCount: count}
	if checkIn != nil && checkOut != nil {
		dates, err := h.availability.AvailableDates(r.Context(), roomID, *checkIn, checkOut.AddDate(0, 0, -1))
		if err != nil {
			writeError(w, err)
			return
		}
		resp.AvailableDates = dates
	}
	writeJSON(w, http.StatusOK, resp)
}
