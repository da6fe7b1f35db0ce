package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"slices"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/linesmerrill/festival-registration-api/models"
)

// PhoneRegion is the region phone numbers are validated against
const PhoneRegion = "NG"

const invalidGuardianNumberMessage = "Invalid parent/guardian phone number. ParentGuardianNumber is optional; omit it or send a valid Nigerian number"

// allowedFields is the whitelist of keys a registration form may send
var allowedFields = []string{
	"fullName",
	"age",
	"gender",
	"phoneNumber",
	"email",
	"ParentGuardianNumber",
	"school",
	"address",
	"howDidYouHearAboutUs",
	"agreementFestivalEmailSms",
}

type submission struct {
	FullName                  string  `json:"fullName"`
	Age                       flexInt `json:"age"`
	Gender                    string  `json:"gender"`
	PhoneNumber               string  `json:"phoneNumber"`
	Email                     string  `json:"email"`
	ParentGuardianNumber      string  `json:"ParentGuardianNumber"`
	School                    string  `json:"school"`
	Address                   string  `json:"address"`
	HowDidYouHearAboutUs      string  `json:"howDidYouHearAboutUs"`
	AgreementFestivalEmailSms *bool   `json:"agreementFestivalEmailSms"`
}

// flexInt accepts 17 as well as "17", since form libraries send either
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a whole number: %s", b)
	}
	*f = flexInt(n)
	return nil
}

// ParseSubmission turns a raw registration body into a normalized profile. The
// whitelist projection of the body must equal the body itself, so unknown keys
// and blank values (null, "" and false) are all rejected. A consent of false
// therefore fails as "Invalid data".
func ParseSubmission(raw []byte) (models.Profile, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Profile{}, NewInvalidSubmissionError("Invalid data", err)
	}

	projected := project(fields)
	if len(projected) != len(fields) {
		return models.Profile{}, NewInvalidSubmissionError("Invalid data", fmt.Errorf("unexpected or empty fields in %v", keys(fields)))
	}

	b, err := json.Marshal(projected)
	if err != nil {
		return models.Profile{}, NewInvalidSubmissionError("Invalid data", err)
	}
	var s submission
	if err := json.Unmarshal(b, &s); err != nil {
		return models.Profile{}, NewInvalidSubmissionError("Invalid data", err)
	}

	return s.validate()
}

func project(fields map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields))
	for _, name := range allowedFields {
		v, ok := fields[name]
		if !ok || isBlank(v) {
			continue
		}
		out[name] = v
	}
	return out
}

func isBlank(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 ||
		bytes.Equal(t, []byte("null")) ||
		bytes.Equal(t, []byte(`""`)) ||
		bytes.Equal(t, []byte("false"))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (s submission) validate() (models.Profile, error) {
	p := models.Profile{
		FullName:             strings.TrimSpace(s.FullName),
		Age:                  int(s.Age),
		Gender:               strings.TrimSpace(s.Gender),
		PhoneNumber:          strings.TrimSpace(s.PhoneNumber),
		Email:                NormalizeEmail(s.Email),
		ParentGuardianNumber: strings.TrimSpace(s.ParentGuardianNumber),
		School:               strings.TrimSpace(s.School),
		Address:              strings.TrimSpace(s.Address),
		HowDidYouHearAboutUs: strings.TrimSpace(s.HowDidYouHearAboutUs),
	}

	switch {
	case p.FullName == "":
		return p, NewInvalidSubmissionError("Full name is required", nil)
	case p.Age < 1 || p.Age > 120:
		return p, NewInvalidSubmissionError("Age must be between 1 and 120", nil)
	case p.Gender != models.GenderMale && p.Gender != models.GenderFemale:
		return p, NewInvalidSubmissionError("Gender must be Male or Female", nil)
	case p.School == "":
		return p, NewInvalidSubmissionError("School is required", nil)
	case p.Address == "":
		return p, NewInvalidSubmissionError("Address is required", nil)
	case !slices.Contains(models.ReferralSources, p.HowDidYouHearAboutUs):
		return p, NewInvalidSubmissionError("Invalid value for howDidYouHearAboutUs", nil)
	case s.AgreementFestivalEmailSms == nil:
		return p, NewInvalidSubmissionError("agreementFestivalEmailSms is required", nil)
	}
	p.AgreementFestivalEmailSms = *s.AgreementFestivalEmailSms

	if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
		return p, NewInvalidSubmissionError("Invalid email address", err)
	}

	if err := ValidatePhoneNumber(p.PhoneNumber); err != nil {
		return p, NewInvalidPhoneNumberError("Invalid phone number", err)
	}
	// ParentGuardianNumber may be left out, but when sent it must be a real number
	if p.ParentGuardianNumber != "" {
		if err := ValidatePhoneNumber(p.ParentGuardianNumber); err != nil {
			return p, NewInvalidPhoneNumberError(invalidGuardianNumberMessage, err)
		}
	}

	return p, nil
}

// NormalizeEmail lower-cases and trims an address for lookups
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidatePhoneNumber checks number against the numbering plan of PhoneRegion
func ValidatePhoneNumber(number string) error {
	num, err := phonenumbers.Parse(number, PhoneRegion)
	if err != nil {
		return err
	}
	if !phonenumbers.IsValidNumberForRegion(num, PhoneRegion) {
		return fmt.Errorf("%q is not a valid %s number", number, PhoneRegion)
	}
	return nil
}
