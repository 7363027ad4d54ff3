package dto

import (
	"strings"

	certDto "anoa.com/eventtech/internal/modules/certificate/dto"
)

// RegisterForm is the raw submission, bound without validation so the
// fields can be trimmed first.
type RegisterForm struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	College string `json:"college" form:"college"`
	Event   string `json:"event" form:"event"`
}

type RegisterRequest struct {
	Name    string `binding:"notblank,max=100"`
	Email   string `binding:"notblank,email,max=150"`
	College string `binding:"notblank,max=200"`
	Event   string `binding:"notblank,max=100"`
}

// Normalize trims every field and lower-cases the email.
func (f RegisterForm) Normalize() RegisterRequest {
	return RegisterRequest{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.ToLower(strings.TrimSpace(f.Email)),
		College: strings.TrimSpace(f.College),
		Event:   strings.TrimSpace(f.Event),
	}
}

type RegisterResponse struct {
	RegistrationID  uint
	Message         string
	CertificateData *certDto.CertificateData
}
