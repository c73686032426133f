package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoOwner         = errors.New("session has no owner")
	ErrAlreadyOwned    = errors.New("session already has a different owner")
	ErrNoSuchRequest   = errors.New("no pending entry request")
	ErrNotOwner        = errors.New("operation requires session owner")
	ErrSelfRequest     = errors.New("owner cannot request entry to own session")
	ErrUnroutable      = errors.New("target participant not routable")

	ErrMeetingNotFound = errors.New("meeting not found")
	ErrMeetingExists   = errors.New("meeting already exists")
)
