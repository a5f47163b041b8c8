package http

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes wires the payment and operator endpoints onto the router.
// The gateway return endpoint stays unauthenticated: the gateway signs its
// own parameters and cannot carry our bearer tokens.
func RegisterRoutes(router *mux.Router, payments *PaymentHandler, settlements *SettlementHandler, auth *AuthMiddleware) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/payments/vnpay-return", payments.HandleGatewayReturn).Methods("GET")
	api.HandleFunc("/rooms/{id:[0-9]+}/availability", payments.GetAvailability).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(auth.Authenticate)
	authed.HandleFunc("/reservations", payments.CreateReservation).Methods("POST")
	authed.HandleFunc("/payments/{code}/url", payments.CreatePaymentURL).Methods("POST")
	authed.HandleFunc("/payments/{code}/reschedule", payments.RequestReschedule).Methods("POST")
	authed.HandleFunc("/payments/{code}/reschedule-url", payments.CreateReschedulePaymentURL).Methods("POST")
	authed.HandleFunc("/payments/{code}/status", payments.CheckStatus).Methods("GET")

	operator := api.NewRoute().Subrouter()
	operator.Use(auth.Authenticate, auth.RequireOperator)
	operator.HandleFunc("/settlements", settlements.ListSettlements).Methods("GET")
	operator.HandleFunc("/settlements", settlements.CreateSettlement).Methods("POST")
	operator.HandleFunc("/settlements/{id:[0-9]+}", settlements.GetSettlement).Methods("GET")
	operator.HandleFunc("/settlements/{id:[0-9]+}/pay", settlements.PaySettlement).Methods("POST")
	operator.HandleFunc("/hotels/{id:[0-9]+}/pending-settlement", settlements.GetPendingAmount).Methods("GET")
}
