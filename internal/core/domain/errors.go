package domain

import "errors"

// The only failure text ever shown to a user. It deliberately does not
// distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrAuthTimeout = errors.New("authentication timed out")
var ErrUnauthenticated = errors.New("authentication required")
var ErrRoleForbidden = errors.New("role not permitted for this view")

var ErrPatientNotFound = errors.New("patient not found")
var ErrPractitionerNotFound = errors.New("practitioner not found")
var ErrAppointmentNotFound = errors.New("appointment not found")
var ErrPractitionerAtCapacity = errors.New("practitioner at patient capacity")
var ErrInvalidTransition = errors.New("invalid appointment status transition")
