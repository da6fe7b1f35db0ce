// Package docs Festival Registration API.
//
// Documentation of the Festival Registration API.
//
//	 Schemes: https
//	 BasePath: /
//	 Version: 1.0.0
//
//	 Consumes:
//	 - application/json
//
//	 Produces:
//	 - application/json
//
//	 Security:
//	 - bearer
//
//	SecurityDefinitions:
//	basic:
//	  type: basic
//	bearer:
//	  type: apiKey
//	  name: Authorization
//	  in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/festival-registration-api/api"
	"github.com/linesmerrill/festival-registration-api/flutterwave"
	"github.com/linesmerrill/festival-registration-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/register registration register
// Validates a registration form and creates a pending payment.
// Every field except ParentGuardianNumber is required; a ParentGuardianNumber
// that is sent must be a valid Nigerian number. agreementFestivalEmailSms must
// be true, and null, empty or false values are rejected as "Invalid data".
// responses:
//   200: registerResponse
//   400: messageResponse
//   500: messageResponse

// swagger:parameters register
type registerParams struct {
	// in:body
	Body models.Profile
}

// The tx_ref to pay for and where to continue.
// swagger:response registerResponse
type registerResponseWrapper struct {
	// in:body
	Body struct {
		Message    string `json:"message"`
		TxRef      string `json:"tx_ref"`
		RedirectTo string `json:"redirectTo"`
	}
}

// swagger:route POST /api/make-payment payment makePayment
// Records the amount and returns the hosted checkout link.
// responses:
//   200: makePaymentResponse
//   400: messageResponse
//   404: messageResponse

// swagger:parameters makePayment
type makePaymentParams struct {
	// in:query
	// required: true
	TxRef string `json:"tx_ref"`
	// in:body
	Body struct {
		// minimum: 1020
		Amount float64 `json:"amount"`
	}
}

// The hosted checkout link.
// swagger:response makePaymentResponse
type makePaymentResponseWrapper struct {
	// in:body
	Body struct {
		Message    string `json:"message"`
		PaymentURL string `json:"paymentUrl"`
	}
}

// swagger:route GET /api/payment/verify payment verifyPayment
// Confirms a payment when the payer returns from checkout. Safe to repeat.
// responses:
//   200: verifyResponse
//   400: messageResponse
//   404: messageResponse

// swagger:parameters verifyPayment
type verifyParams struct {
	// in:query
	// required: true
	TxRef string `json:"tx_ref"`
	// in:query
	// required: true
	TransactionID string `json:"transaction_id"`
}

// The registrant created for the payment.
// swagger:response verifyResponse
type verifyResponseWrapper struct {
	// in:body
	Body struct {
		Message string                   `json:"message"`
		Student models.RegistrantSummary `json:"student"`
	}
}

// swagger:route POST /api/payment/webhook payment webhook
// Receives Flutterwave payment events. Requires the verif-hash header.
// responses:
//   200: messageResponse
//   403: messageResponse
//   500: messageResponse

// swagger:parameters webhook
type webhookParams struct {
	// in:header
	// required: true
	Signature string `json:"verif-hash"`
	// in:body
	Body flutterwave.WebhookEvent
}

// swagger:route POST /api/admin/login admin adminLogin
// Exchanges basic auth credentials for an admin token.
// security:
//   basic:
// responses:
//   200: loginResponse
//   401: messageResponse

// swagger:response loginResponse
type loginResponseWrapper struct {
	// in:body
	Body api.LoginResponse
}

// swagger:route GET /api/students admin students
// Lists every registrant, newest first.
// responses:
//   200: studentsResponse
//   401: messageResponse

// swagger:response studentsResponse
type studentsResponseWrapper struct {
	// in:body
	Body []models.Registrant
}

// swagger:route GET /api/ws/students admin liveFeed
// Websocket feed of new registrants. The admin token goes in the token query parameter.
// responses:
//   101: description: switching protocols
//   401: messageResponse

// swagger:response messageResponse
type messageResponseWrapper struct {
	// in:body
	Body models.MessageResponse
}
