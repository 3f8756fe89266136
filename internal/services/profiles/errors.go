package profiles

import "errors"

// ErrProfileNotFound - no profile exists for the addressed user.
var ErrProfileNotFound = errors.New("profile not found")

// ErrEntryNotFound - the addressed embedded entry is absent from its sequence.
var ErrEntryNotFound = errors.New("entry not found")

// ErrUpsertProfile is returned when the create-or-update write fails.
var ErrUpsertProfile = errors.New("failed to save profile")

// ErrListProfiles is returned when listing profiles fails.
var ErrListProfiles = errors.New("failed to list profiles")

// ErrMutateProfile is returned when an embedded-sequence write fails.
var ErrMutateProfile = errors.New("failed to update profile")

// ErrDeleteAccount is returned when the cascade account deletion fails
// part-way; no rollback is attempted.
var ErrDeleteAccount = errors.New("failed to delete account")
