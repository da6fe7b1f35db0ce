package templates

import (
	"fmt"
	"html"
)

// QRContentID links the inline QR attachment to the img tag in the email
const QRContentID = "qr_code"

// RegistrationConfirmationData holds data for the confirmation email
type RegistrationConfirmationData struct {
	FullName       string
	RegistrationID string
}

// RenderRegistrationConfirmationEmail generates the HTML sent once a payment
// is confirmed. The QR code is expected as an inline attachment with
// QRContentID as its content id.
func RenderRegistrationConfirmationEmail(data RegistrationConfirmationData) string {
	body := fmt.Sprintf(`<p>Dear %s,</p>
      <p>Your registration is confirmed. Please find your QR code below and have it ready at the entrance.</p>
      <div class="qr"><img src="cid:%s" alt="QR Code" width="300" height="300" /></div>
      <p class="regid">Your Registration ID: %s</p>
      <p>We look forward to seeing you at the festival!</p>`,
		html.EscapeString(data.FullName),
		QRContentID,
		html.EscapeString(data.RegistrationID),
	)
	return renderLayout("Thank you for registering for the Jesus Festival!", body)
}

// RenderRegistrationConfirmationText is the plain text alternative
func RenderRegistrationConfirmationText(data RegistrationConfirmationData) string {
	return fmt.Sprintf("Dear %s,\n\n"+
		"Thank you for registering for the Jesus Festival! Your registration is confirmed.\n\n"+
		"Your Registration ID: %s\n\n"+
		"Your QR code is attached. We look forward to seeing you at the festival!\n",
		data.FullName, data.RegistrationID)
}
