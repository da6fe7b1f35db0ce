package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderRegistrationConfirmationEmail(t *testing.T) {
	out := RenderRegistrationConfirmationEmail(RegistrationConfirmationData{
		FullName:       "Ada <Obi>",
		RegistrationID: "EVT-004211",
	})

	assert.Contains(t, out, "Thank you for registering for the Jesus Festival!")
	assert.Contains(t, out, `<img src="cid:qr_code"`)
	assert.Contains(t, out, "Your Registration ID: EVT-004211")
	assert.Contains(t, out, "Dear Ada &lt;Obi&gt;,")
	assert.NotContains(t, out, "<Obi>")
	assert.Contains(t, out, "0%, #b45309 100%")
}

func TestRenderRegistrationConfirmationText(t *testing.T) {
	out := RenderRegistrationConfirmationText(RegistrationConfirmationData{
		FullName:       "Ada Obi",
		RegistrationID: "EVT-004211",
	})

	assert.Contains(t, out, "Dear Ada Obi,")
	assert.Contains(t, out, "Your Registration ID: EVT-004211")
}
