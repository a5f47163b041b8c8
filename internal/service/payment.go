package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/gateway"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"

	"github.com/google/uuid"
)

// RescheduleSuffix marks a gateway transaction reference as belonging to a
// reschedule sub-payment. Stripping it yields the base reservation code.
const RescheduleSuffix = "-RS"

const (
	paymentTypePrimary    = "primary"
	paymentTypeReschedule = "reschedule"
)

type paymentService struct {
	reservationRepo repository.ReservationRepository
	gateway         *gateway.Client
	emailSvc        EmailService
}

func NewPaymentService(reservationRepo repository.ReservationRepository, gw *gateway.Client, emailSvc EmailService) PaymentService {
	return &paymentService{
		reservationRepo: reservationRepo,
		gateway:         gw,
		emailSvc:        emailSvc,
	}
}

func (s *paymentService) CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if !input.CheckOut.After(input.CheckIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}
	if input.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", domain.ErrValidation)
	}

	original := input.OriginalTotal
	if original == 0 {
		original = input.TotalAmount
	}

	rv := &domain.Reservation{
		Code:          newReferenceCode(),
		HotelID:       input.HotelID,
		RoomID:        input.RoomID,
		UserID:        input.UserID,
		GuestName:     input.GuestName,
		GuestEmail:    input.GuestEmail,
		CheckIn:       input.CheckIn,
		CheckOut:      input.CheckOut,
		TotalAmount:   input.TotalAmount,
		OriginalTotal: original,
		PaymentMethod: input.PaymentMethod,
		BookingStatus: domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}

	if err := s.reservationRepo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *paymentService) CreatePaymentURL(ctx context.Context, code, clientIP, locale, bankCode string) (string, error) {
	rv, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if rv.PaymentStatus == domain.PaymentStatusPaid {
		return "", fmt.Errorf("%w: reservation is already paid", domain.ErrValidation)
	}

	outstanding := rv.TotalAmount - rv.PaidAmount
	if outstanding <= 0 {
		return "", fmt.Errorf("%w: nothing left to pay", domain.ErrValidation)
	}

	return s.gateway.BuildPaymentURL(gateway.PaymentRequest{
		Amount:    outstanding,
		TxnRef:    rv.Code,
		OrderInfo: fmt.Sprintf("Payment for reservation %s", rv.Code),
		ClientIP:  clientIP,
		Locale:    locale,
		BankCode:  bankCode,
	})
}

func (s *paymentService) RequestReschedule(ctx context.Context, code string, checkIn, checkOut time.Time, extraAmount int64) (*domain.Reservation, error) {
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}
	if extraAmount < 0 {
		return nil, fmt.Errorf("%w: reschedule amount cannot be negative", domain.ErrValidation)
	}

	rv, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if rv.Reschedule != nil && rv.Reschedule.Status == domain.RescheduleStatusPending {
		return nil, fmt.Errorf("%w: a reschedule payment is already pending", domain.ErrValidation)
	}

	rv.CheckIn = checkIn
	rv.CheckOut = checkOut
	if extraAmount > 0 {
		rv.TotalAmount += extraAmount
		rv.Reschedule = &domain.ReschedulePayment{
			Amount:    extraAmount,
			Status:    domain.RescheduleStatusPending,
			CreatedAt: time.Now(),
		}
		if rv.PaymentStatus == domain.PaymentStatusPaid && rv.PaidAmount < rv.TotalAmount {
			rv.PaymentStatus = domain.PaymentStatusPending
		}
	}

	if err := s.reservationRepo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *paymentService) CreateReschedulePaymentURL(ctx context.Context, code, clientIP, locale string) (string, error) {
	rv, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if rv.Reschedule == nil || rv.Reschedule.Status != domain.RescheduleStatusPending {
		return "", fmt.Errorf("%w: no pending reschedule payment", domain.ErrValidation)
	}

	return s.gateway.BuildPaymentURL(gateway.PaymentRequest{
		Amount:    rv.Reschedule.Amount,
		TxnRef:    rv.Code + RescheduleSuffix,
		OrderInfo: fmt.Sprintf("Reschedule payment for reservation %s", rv.Code),
		ClientIP:  clientIP,
		Locale:    locale,
	})
}

func (s *paymentService) HandleCallback(ctx context.Context, params map[string]string) (*CallbackOutcome, error) {
	if !s.gateway.VerifyCallback(params) {
		logger.Warn("Gateway callback signature verification failed", "txn_ref", params["vnp_TxnRef"])
		return &CallbackOutcome{
			Success:     false,
			PaymentType: paymentTypePrimary,
			Message:     "Invalid payment signature",
		}, domain.ErrInvalidSignature
	}

	ref := params["vnp_TxnRef"]
	if base, ok := strings.CutSuffix(ref, RescheduleSuffix); ok {
		return s.applyRescheduleCallback(ctx, base, params)
	}
	return s.applyPrimaryCallback(ctx, ref, params)
}

func (s *paymentService) applyPrimaryCallback(ctx context.Context, code string, params map[string]string) (*CallbackOutcome, error) {
	outcome := &CallbackOutcome{Code: code, PaymentType: paymentTypePrimary}

	result := gateway.Interpret(params)
	outcome.Message = result.Message
	if !result.Success {
		logger.Info("Gateway reported payment failure", "code", code, "response_code", params["vnp_ResponseCode"])
		return outcome, nil
	}

	rv, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			outcome.Message = "Reservation not found"
		} else {
			outcome.Message = "Payment could not be processed"
		}
		return outcome, err
	}

	// Gateways retry callbacks; a replay of an already-applied payment is a
	// no-op, not a double credit.
	if rv.PaymentStatus == domain.PaymentStatusPaid {
		outcome.Success = true
		return outcome, nil
	}

	rv.PaymentStatus = domain.PaymentStatusPaid
	rv.GatewayTxnID = params["vnp_TransactionNo"]
	rv.BankCode = params["vnp_BankCode"]
	rv.CardType = params["vnp_CardType"]
	paidAt := parseGatewayDate(params["vnp_PayDate"])
	rv.GatewayPaidAt = &paidAt
	rv.PaidAmount = rv.TotalAmount
	if max := rv.MaxPayable(); rv.PaidAmount > max {
		rv.PaidAmount = max
	}

	if err := s.reservationRepo.Update(ctx, rv); err != nil {
		outcome.Message = "Payment could not be processed"
		return outcome, err
	}

	s.notifyPaymentAsync(rv, false)

	outcome.Success = true
	return outcome, nil
}

func (s *paymentService) applyRescheduleCallback(ctx context.Context, code string, params map[string]string) (*CallbackOutcome, error) {
	outcome := &CallbackOutcome{Code: code, PaymentType: paymentTypeReschedule}

	result := gateway.Interpret(params)
	outcome.Message = result.Message
	if !result.Success {
		logger.Info("Gateway reported reschedule payment failure", "code", code, "response_code", params["vnp_ResponseCode"])
		return outcome, nil
	}

	rv, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			outcome.Message = "Reservation not found"
		} else {
			outcome.Message = "Payment could not be processed"
		}
		return outcome, err
	}

	if rv.Reschedule == nil {
		// Compatibility shim: older reservations recorded the extra charge
		// on the reservation itself before a sub-payment record existed.
		if rv.RescheduleExtraToPay > 0 {
			rv.Reschedule = &domain.ReschedulePayment{
				Amount:    rv.RescheduleExtraToPay,
				Status:    domain.RescheduleStatusPending,
				CreatedAt: time.Now(),
			}
		} else {
			outcome.Message = "Reschedule payment not found"
			return outcome, domain.ErrRescheduleNotFound
		}
	}

	if rv.Reschedule.Status == domain.RescheduleStatusPaid {
		outcome.Success = true
		return outcome, nil
	}

	paidAt := parseGatewayDate(params["vnp_PayDate"])
	rv.Reschedule.Status = domain.RescheduleStatusPaid
	rv.Reschedule.TransactionID = params["vnp_TransactionNo"]
	rv.Reschedule.PaidAt = &paidAt
	rv.RescheduleExtraToPay = 0
	rv.CreditPayment(rv.Reschedule.Amount)

	if err := s.reservationRepo.Update(ctx, rv); err != nil {
		outcome.Message = "Payment could not be processed"
		return outcome, err
	}

	s.notifyPaymentAsync(rv, true)

	outcome.Success = true
	return outcome, nil
}

func (s *paymentService) CheckStatus(ctx context.Context, requesterID int64, operator bool, code string) (*domain.Reservation, error) {
	rv, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !operator && rv.UserID != requesterID {
		return nil, domain.ErrUnauthorized
	}
	return rv, nil
}

// notifyPaymentAsync sends the confirmation email out-of-band. A send
// failure never rolls back the payment state.
func (s *paymentService) notifyPaymentAsync(rv *domain.Reservation, reschedule bool) {
	if rv.GuestEmail == "" {
		return
	}
	email, name, code := rv.GuestEmail, rv.GuestName, rv.Code
	amount := rv.PaidAmount
	var reschedAmount int64
	if rv.Reschedule != nil {
		reschedAmount = rv.Reschedule.Amount
	}

	go func() {
		var err error
		if reschedule {
			err = s.emailSvc.SendReschedulePaymentConfirmation(context.Background(), email, name, code, reschedAmount)
		} else {
			err = s.emailSvc.SendPaymentConfirmation(context.Background(), email, name, code, amount)
		}
		if err != nil {
			logger.Error("Failed to send payment confirmation email", "code", code, "error", err)
		}
	}()
}

func parseGatewayDate(value string) time.Time {
	t, err := time.Parse("20060102150405", value)
	if err != nil {
		return time.Now()
	}
	return t
}

func newReferenceCode() string {
	id := uuid.NewString()
	return "SB" + strings.ToUpper(strings.ReplaceAll(id, "-", ""))[:10]
}
