package apperrors

import (
	"errors"
)

var (
	ErrMemberAlreadyExists = errors.New("member already exists")
	ErrMemberNotFound      = errors.New("member not found")
	ErrInvalidMember       = errors.New("member password mismatch")
	ErrPasswordsNotMatched = errors.New("password and confirmation do not match")

	ErrInvalidToken         = errors.New("token is not valid")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketSoldOut  = errors.New("ticket has no seats left")
)

// Codes for the HTTP result envelope. Handlers map sentinel errors to these,
// nothing below the handler layer should know about them.
const (
	CodeDuplicatedUserID    = "DUPLICATED_USER_ID"
	CodePasswordsNotMatched = "PASSWORDS_NOT_MATCHED"
	CodeMemberNotFound      = "MEMBER_NOT_FOUND"
	CodeInvalidMember       = "INVALID_MEMBER"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenNotFound       = "TOKEN_NOT_FOUND"
	CodeTicketNotFound      = "TICKET_NOT_FOUND"
	CodeTicketSoldOut       = "TICKET_SOLD_OUT"
)
