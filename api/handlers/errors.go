package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/config"
	"github.com/linesmerrill/festival-registration-api/models"
	"github.com/linesmerrill/festival-registration-api/registration"
)

const internalServerError = "Internal server error"

// statusFor maps a registration error reason to its http status code
func statusFor(reason registration.ErrorReason) int {
	switch reason {
	case registration.REASON_INVALID_SUBMISSION,
		registration.REASON_INVALID_PHONE_NUMBER,
		registration.REASON_ALREADY_REGISTERED,
		registration.REASON_PENDING_REGISTRATION_EXISTS,
		registration.REASON_INVALID_AMOUNT,
		registration.REASON_PAYMENT_ALREADY_SUCCESSFUL,
		registration.REASON_PAYMENT_INITIATION_FAILED,
		registration.REASON_VERIFICATION_FAILED:
		return http.StatusBadRequest
	case registration.REASON_PENDING_PAYMENT_NOT_FOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the response for an error returned by the registration
// service. Server side failures only ever expose a generic message.
func writeError(w http.ResponseWriter, err error) {
	var regErr *registration.Error
	if !errors.As(err, &regErr) {
		config.ErrorStatus(internalServerError, http.StatusInternalServerError, w, err)
		return
	}

	status := statusFor(regErr.Reason)
	if status >= http.StatusInternalServerError {
		config.ErrorStatus(internalServerError, status, w, err)
		return
	}

	zap.S().Infow(regErr.Message, "reason", regErr.Reason, "status", status, "cause", regErr.Cause)
	config.WriteJSON(w, status, models.MessageResponse{Message: regErr.Message})
}

func reasonOf(err error) registration.ErrorReason {
	var regErr *registration.Error
	if errors.As(err, &regErr) {
		return regErr.Reason
	}
	return ""
}
