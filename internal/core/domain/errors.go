package domain

import "errors"

var (
	ErrInvalidSlotLabel = errors.New("invalid slot label")
	ErrInvalidStatus    = errors.New("invalid slot status")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMonth     = errors.New("invalid month or year")
	ErrDoctorRequired   = errors.New("doctor id is required")
	ErrViewNotFound     = errors.New("calendar view not found")
	ErrSearchSuperseded = errors.New("search superseded by a newer request")
	ErrSearchStale      = errors.New("search result is older than the adopted one")
)
