package models

// Gender values accepted on a registration
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// ReferralSources lists the accepted answers to howDidYouHearAboutUs
var ReferralSources = []string{"School", "Instagram", "WhatsApp", "Church", "Friend", "Other"}

// Profile holds the attendee details collected by the registration form. It is
// carried on the pending payment and copied onto the registrant once paid.
type Profile struct {
	FullName    string `json:"fullName" bson:"fullName"`
	Age         int    `json:"age" bson:"age"`
	Gender      string `json:"gender" bson:"gender"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Email       string `json:"email" bson:"email"`
	// ParentGuardianNumber is optional
	ParentGuardianNumber      string `json:"ParentGuardianNumber,omitempty" bson:"ParentGuardianNumber,omitempty"`
	School                    string `json:"school" bson:"school"`
	Address                   string `json:"address" bson:"address"`
	HowDidYouHearAboutUs      string `json:"howDidYouHearAboutUs" bson:"howDidYouHearAboutUs"`
	AgreementFestivalEmailSms bool   `json:"agreementFestivalEmailSms" bson:"agreementFestivalEmailSms"`
}
