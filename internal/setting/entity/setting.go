package entity

import "time"

// SupportRequest is a message sent from the settings page to the support
// team. The contact fields are copied from the profile at submission time.
type SupportRequest struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject" validate:"min=5"`
	Message   string    `json:"message" validate:"min=20"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSupportRequest creates an open request.
func NewSupportRequest(id, subject, message, email, phone string, at time.Time) *SupportRequest {
	return &SupportRequest{ID: id, Subject: subject, Message: message, Email: email, Phone: phone, Status: "open", CreatedAt: at}
}
