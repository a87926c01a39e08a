package core

// # Error Codes Reference
//
// This file maps errors raised while driving a wizard session to
// user-friendly messages with codes for support reference. Domain errors
// are matched with errors.Is against their sentinels; infrastructure
// errors that only surface as text are matched by pattern.
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Empty selection: No matrix size was selected
//	         Action: Choose at least one row and one column
//	         Sentinel: wizard.ErrEmptySelection
//
//	SEL002 - Out of range: A row or column is outside the matrix
//	         Action: Use an index between 1 and the matrix size
//	         Sentinel: matrix.ErrOutOfRange
//
// # Entry Errors (ENT001-ENT099)
//
//	ENT001 - Division by zero: A fraction has a zero denominator
//	         Action: Use a non-zero denominator
//	         Sentinel: entry.ErrDenominatorZero
//
//	ENT002 - Unknown variable: A letter is not an allowed variable
//	         Action: Use only a, b, c, d, m, n, x, y, z or λ
//	         Sentinel: entry.ErrUnknownVariable
//
//	ENT003 - Malformed entry: The value is not a linear polynomial
//	         Action: Enter a number, fraction or sum like 2x-1/2
//	         Sentinel: entry.ErrMalformedPolynomial
//
//	ENT004 - Empty cell: A cell was left blank
//	         Action: Fill in every cell before continuing
//	         Sentinel: entry.ErrUnfilledCell
//
// # Matrix Errors (MAT001-MAT099)
//
//	MAT001 - Empty matrix: There is no matrix to work on
//	         Action: Enter a matrix first
//	         Sentinel: matrix.ErrEmptyMatrix
//
//	MAT002 - Ragged rows: Rows of the literal differ in length
//	         Action: Give every row the same number of elements
//	         Sentinel: matrix.ErrRaggedRows
//
//	MAT003 - Malformed literal: The matrix literal cannot be read
//	         Action: Use the form [[1, 2], [3, 4]]
//	         Sentinel: matrix.ErrMalformedLiteral
//
//	MAT004 - Bad shape: The matrix size is not usable
//	         Action: Choose between 1 and 10 rows and columns
//	         Sentinel: matrix.ErrBadShape
//
// # Transformation Errors (TRN001-TRN099)
//
//	TRN001 - Non-constant coefficient: Coefficients must be numbers
//	         Action: Use an integer or fraction as the coefficient
//	         Sentinel: transform.ErrCoefficientMustBeConstant
//
//	TRN002 - Mixed axes: Rows and columns cannot be combined
//	         Action: Use two rows or two columns
//	         Sentinel: transform.ErrIncompatibleAxisTypes
//
//	TRN003 - Malformed command: The transformation is incomplete
//	         Action: Give a target like r1, a parameter and an operator
//	         Sentinel: transform.ErrMalformedCommand
//
//	TRN004 - Zero scale: Scaling by zero is not elementary
//	         Action: Use a non-zero coefficient
//	         Sentinel: transform.ErrZeroScale
//
// # Wizard Errors (WIZ001-WIZ099)
//
//	WIZ001 - Nothing to undo: Already at the first step
//	WIZ002 - Last step: There is no step after transformations
//	WIZ003 - Wrong step: The action is not available in this step
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The session expired or never existed
//	         Action: Start a new session
//	SES002 - System busy: Too many sessions are open
//	         Action: Please wait a moment and try again
//	SES003 - Invalid session ID
//	SES004 - Request cancelled (context.Canceled)
//	SES005 - Request timed out (context.DeadlineExceeded)
//
// # Storage and Rate Limiting (DB001-DB099, RATE001)
//
//	DB004 - Connection refused       Patterns: "connection refused"
//	DB005 - Connection reset         Patterns: "connection reset"
//	RATE001 - Too many requests      Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Sentinels are checked in order before any pattern, so an entry error
// found while parsing a transformation coefficient reports ENT rather than
// TRN003. For ERR000 reports, check the logs for the original error.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
	"github.com/JonMunkholm/MatrixWizard/internal/store"
	"github.com/JonMunkholm/MatrixWizard/internal/transform"
	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorSentinel struct {
	target error
	msg    UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorSentinels is searched first, in order.
var errorSentinels = []errorSentinel{
	// Entry errors come first: they can be wrapped by command parsing.
	{entry.ErrDenominatorZero, UserMessage{
		Message: "A fraction has a zero denominator",
		Action:  "Use a non-zero denominator",
		Code:    "ENT001",
	}},
	{entry.ErrUnknownVariable, UserMessage{
		Message: "Unknown variable",
		Action:  "Use only a, b, c, d, m, n, x, y, z or λ",
		Code:    "ENT002",
	}},
	{entry.ErrMalformedPolynomial, UserMessage{
		Message: "The value is not a linear polynomial",
		Action:  "Enter a number, fraction or sum like 2x-1/2",
		Code:    "ENT003",
	}},
	{entry.ErrUnfilledCell, UserMessage{
		Message: "A cell was left blank",
		Action:  "Fill in every cell before continuing",
		Code:    "ENT004",
	}},

	{wizard.ErrEmptySelection, UserMessage{
		Message: "No matrix size was selected",
		Action:  "Choose at least one row and one column",
		Code:    "SEL001",
	}},
	{matrix.ErrOutOfRange, UserMessage{
		Message: "A row or column is outside the matrix",
		Action:  "Use an index between 1 and the matrix size",
		Code:    "SEL002",
	}},

	{transform.ErrCoefficientMustBeConstant, UserMessage{
		Message: "Coefficients must be numbers",
		Action:  "Use an integer or fraction as the coefficient",
		Code:    "TRN001",
	}},
	{transform.ErrIncompatibleAxisTypes, UserMessage{
		Message: "Rows and columns cannot be combined",
		Action:  "Use two rows or two columns",
		Code:    "TRN002",
	}},
	{transform.ErrZeroScale, UserMessage{
		Message: "Scaling by zero is not an elementary transformation",
		Action:  "Use a non-zero coefficient",
		Code:    "TRN004",
	}},
	{transform.ErrMalformedCommand, UserMessage{
		Message: "The transformation is incomplete or malformed",
		Action:  "Give a target like r1, a parameter and an operator",
		Code:    "TRN003",
	}},

	{matrix.ErrEmptyMatrix, UserMessage{
		Message: "There is no matrix to work on",
		Action:  "Enter a matrix first",
		Code:    "MAT001",
	}},
	{matrix.ErrRaggedRows, UserMessage{
		Message: "Rows have different lengths",
		Action:  "Give every row the same number of elements",
		Code:    "MAT002",
	}},
	{matrix.ErrMalformedLiteral, UserMessage{
		Message: "The matrix literal cannot be read",
		Action:  "Use the form [[1, 2], [3, 4]]",
		Code:    "MAT003",
	}},
	{matrix.ErrBadShape, UserMessage{
		Message: "The matrix size is not usable",
		Action:  "Choose between 1 and 10 rows and columns",
		Code:    "MAT004",
	}},

	{wizard.ErrNoHistoryToUndo, UserMessage{
		Message: "Nothing to undo",
		Action:  "You are already at the first step",
		Code:    "WIZ001",
	}},
	{wizard.ErrTerminalState, UserMessage{
		Message: "This is the last step",
		Action:  "Apply transformations or undo to go back",
		Code:    "WIZ002",
	}},
	{wizard.ErrWrongState, UserMessage{
		Message: "That action is not available in this step",
		Action:  "Move to the right step first",
		Code:    "WIZ003",
	}},

	{ErrSessionNotFound, UserMessage{
		Message: "Session not found",
		Action:  "The session may have expired. Please start a new one",
		Code:    "SES001",
	}},
	{ErrTooManySessions, UserMessage{
		Message: "Too many sessions are open",
		Action:  "Please wait a moment and try again",
		Code:    "SES002",
	}},
	{store.ErrInvalidID, UserMessage{
		Message: "Invalid session ID",
		Action:  "Check the session link",
		Code:    "SES003",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "SES004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "SES005",
	}},
}

// errorPatterns catches errors that reach us only as text, typically from
// the database driver. Matching is case-insensitive via strings.Contains.
var errorPatterns = []errorPattern{
	{"connection refused", UserMessage{
		Message: "Unable to connect to session storage",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Session storage connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
//
//	_, err := entry.Parse("1/0")
//	msg := MapError(err)
//	// msg.Code == "ENT001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than the
// ERR000 fallback. User-facing errors carry details (cell positions,
// offending text) that are safe to show.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs an original error, kept for logging, with its
// user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
