package services

import "fmt"

// Error codes for every recoverable failure the engine surfaces. Callers can
// branch on the code; the message is for humans.
const (
	CodeValidation          = "validationError"
	CodeNotFound            = "notFound"
	CodeForbidden           = "forbidden"
	CodeConflict            = "conflictDetected"
	CodeNoScheduleDeclared  = "noScheduleDeclared"
	CodeDoctorUnavailable   = "doctorUnavailable"
	CodeOutsideWorkingHours = "outsideWorkingHours"
	CodeSlotAlreadyTaken    = "slotAlreadyTaken"
	CodeEmptyMedicationList = "emptyMedicationList"
)

// Error is a typed, recoverable engine failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...interface{}) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(format string, args ...interface{}) error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func NewUnavailable(code, format string, args ...interface{}) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
