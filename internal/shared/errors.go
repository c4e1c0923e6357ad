package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Lookup and provider errors
	ErrValidation          = fmt.Errorf("invalid input")
	ErrLookupFailure       = fmt.Errorf("lookup failed")
	ErrProviderUnavailable = fmt.Errorf("provider unavailable")
	ErrNoMatchFound        = fmt.Errorf("no match found")
	ErrTrackNotFound       = fmt.Errorf("track not found")

	// Acquisition errors
	ErrExtractionFailed = fmt.Errorf("extraction failed")
	ErrFilesystem       = fmt.Errorf("filesystem error")

	// Batch errors
	ErrEmptyPlaylist      = fmt.Errorf("playlist is empty")
	ErrAllDownloadsFailed = fmt.Errorf("all downloads failed")

	// Session errors
	ErrDuplicateName        = fmt.Errorf("playlist already exists")
	ErrDuplicateTrack       = fmt.Errorf("track already in playlist")
	ErrPlaylistNotFound     = fmt.Errorf("playlist not found")
	ErrInvalidIndex         = fmt.Errorf("index out of range")
	ErrNothingSelected      = fmt.Errorf("no track selected")
	ErrConfirmationRequired = fmt.Errorf("confirmation required")
	ErrSessionNotFound      = fmt.Errorf("session not found")
	ErrSessionClosed        = fmt.Errorf("session closed")

	// Creator errors
	ErrUploadNotFound = fmt.Errorf("upload not found")
	ErrUnknownTier    = fmt.Errorf("unknown promotion tier")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrValidation, "validation"},
	{ErrLookupFailure, "lookup_failure"},
	{ErrProviderUnavailable, "provider_unavailable"},
	{ErrNoMatchFound, "no_match_found"},
	{ErrTrackNotFound, "track_not_found"},
	{ErrExtractionFailed, "extraction_failed"},
	{ErrFilesystem, "filesystem"},
	{ErrEmptyPlaylist, "empty_playlist"},
	{ErrAllDownloadsFailed, "all_downloads_failed"},
	{ErrDuplicateName, "duplicate_name"},
	{ErrDuplicateTrack, "duplicate_track"},
	{ErrPlaylistNotFound, "playlist_not_found"},
	{ErrInvalidIndex, "invalid_index"},
	{ErrNothingSelected, "nothing_selected"},
	{ErrConfirmationRequired, "confirmation_required"},
	{ErrSessionNotFound, "session_not_found"},
	{ErrSessionClosed, "session_closed"},
	{ErrUploadNotFound, "upload_not_found"},
	{ErrUnknownTier, "unknown_tier"},
	{ErrInvalidConfig, "invalid_config"},
	{ErrMissingCredentials, "missing_credentials"},
	{ErrNotImplemented, "not_implemented"},
	{context.DeadlineExceeded, "timeout"},
	{context.Canceled, "canceled"},
}

// ErrorKind maps err onto a stable, machine readable kind name.
//
// Errors that do not wrap any known sentinel are reported as "internal".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return "internal"
}
