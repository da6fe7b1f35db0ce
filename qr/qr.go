package qr

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	goqrcode "github.com/skip2/go-qrcode"
)

// Size is the width and height of the generated PNG in pixels
const Size = 300

const registrationIDPrefix = "EVT-"

// Code is a registration id with the QR image that encodes it
type Code struct {
	RegistrationID string
	PNG            []byte
}

// payload is what a check-in scanner reads back from the image
type payload struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	RegistrationID string `json:"registrationId"`
}

// Generator issues registration ids and renders them as QR codes
type Generator struct{}

// NewGenerator returns a Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Issue creates a new registration id for the attendee and renders the QR image
func (g *Generator) Issue(name, email string) (Code, error) {
	id, err := NewRegistrationID()
	if err != nil {
		return Code{}, err
	}

	content, err := json.Marshal(payload{Name: name, Email: email, RegistrationID: id})
	if err != nil {
		return Code{}, fmt.Errorf("failed to encode qr payload: %w", err)
	}

	png, err := goqrcode.Encode(string(content), goqrcode.Highest, Size)
	if err != nil {
		return Code{}, fmt.Errorf("failed to render qr code: %w", err)
	}

	return Code{RegistrationID: id, PNG: png}, nil
}

// NewRegistrationID returns an id like EVT-004217
func NewRegistrationID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate registration id: %w", err)
	}
	return fmt.Sprintf("%s%06d", registrationIDPrefix, n.Int64()), nil
}
