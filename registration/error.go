package registration

import "fmt"

type ErrorReason string

const (
	REASON_INVALID_SUBMISSION          ErrorReason = "INVALID_SUBMISSION"
	REASON_INVALID_PHONE_NUMBER        ErrorReason = "INVALID_PHONE_NUMBER"
	REASON_ALREADY_REGISTERED          ErrorReason = "ALREADY_REGISTERED"
	REASON_PENDING_REGISTRATION_EXISTS ErrorReason = "PENDING_REGISTRATION_EXISTS"
	REASON_INVALID_AMOUNT              ErrorReason = "INVALID_AMOUNT"
	REASON_PENDING_PAYMENT_NOT_FOUND   ErrorReason = "PENDING_PAYMENT_NOT_FOUND"
	REASON_PAYMENT_ALREADY_SUCCESSFUL  ErrorReason = "PAYMENT_ALREADY_SUCCESSFUL"
	REASON_PAYMENT_INITIATION_FAILED   ErrorReason = "PAYMENT_INITIATION_FAILED"
	REASON_VERIFICATION_FAILED         ErrorReason = "VERIFICATION_FAILED"
	REASON_FAILED_TO_FETCH             ErrorReason = "FAILED_TO_FETCH"
	REASON_FAILED_TO_WRITE             ErrorReason = "FAILED_TO_WRITE"
	REASON_QR_GENERATION_FAILED        ErrorReason = "QR_GENERATION_FAILED"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newRegistrationError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewInvalidSubmissionError(message string, cause error) *Error {
	return newRegistrationError(REASON_INVALID_SUBMISSION, message, cause)
}

func NewInvalidPhoneNumberError(message string, cause error) *Error {
	return newRegistrationError(REASON_INVALID_PHONE_NUMBER, message, cause)
}

func NewAlreadyRegisteredError(message string, cause error) *Error {
	return newRegistrationError(REASON_ALREADY_REGISTERED, message, cause)
}

func NewPendingRegistrationExistsError(message string, cause error) *Error {
	return newRegistrationError(REASON_PENDING_REGISTRATION_EXISTS, message, cause)
}

func NewInvalidAmountError(message string, cause error) *Error {
	return newRegistrationError(REASON_INVALID_AMOUNT, message, cause)
}

func NewPendingPaymentNotFoundError(message string, cause error) *Error {
	return newRegistrationError(REASON_PENDING_PAYMENT_NOT_FOUND, message, cause)
}

func NewPaymentAlreadySuccessfulError(message string, cause error) *Error {
	return newRegistrationError(REASON_PAYMENT_ALREADY_SUCCESSFUL, message, cause)
}

func NewPaymentInitiationFailedError(message string, cause error) *Error {
	return newRegistrationError(REASON_PAYMENT_INITIATION_FAILED, message, cause)
}

func NewVerificationFailedError(message string, cause error) *Error {
	return newRegistrationError(REASON_VERIFICATION_FAILED, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewQRGenerationFailedError(message string, cause error) *Error {
	return newRegistrationError(REASON_QR_GENERATION_FAILED, message, cause)
}
