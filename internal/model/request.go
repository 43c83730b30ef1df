package model

import "time"

// RequestStatus is the workflow state of a book request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestClosed   RequestStatus = "closed"
)

// Request is a row in the solicitudes table: a reader asking for access to a
// catalog title.
type Request struct {
	ID        string        `json:"id"`
	ReaderID  string        `json:"reader_id"`
	BookID    string        `json:"book_id"`
	Reason    string        `json:"reason,omitempty"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TicketStatus is the workflow state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in-progress"
	TicketResolved   TicketStatus = "resolved"
)

// SupportTicket is a row in the soporte table.
type SupportTicket struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id,omitempty"`
	Email     string       `json:"email"`
	Subject   string       `json:"subject"`
	Message   string       `json:"message"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
