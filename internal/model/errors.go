package model

import "errors"

// Sentinel errors for the operations. Callers classify with errors.Is and
// display Error() directly; the groups below mirror the handler's status
// mapping (validation, authentication, not found, duplicate, storage).
var (
	// Validation
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrMissingTitle       = errors.New("game title is required")
	ErrMissingDescription = errors.New("game description is required")
	ErrSelfFriend         = errors.New("cannot add yourself as a friend")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Not found
	ErrUserNotFound = errors.New("user not found")

	// Duplicate
	ErrUsernameTaken  = errors.New("username already exists")
	ErrAlreadyFriends = errors.New("user is already in your friends list")

	// ErrStorageUnavailable wraps backend failures on mutating paths. Bulk
	// loads never return it; they degrade to empty collections instead.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNoSession is returned when no session pointer is stored. Absent at
	// cold start means "not logged in", not a failure.
	ErrNoSession = errors.New("no active session")
)

// Media upload errors (cover/screenshot hosting).
var (
	ErrFileTooLarge     = errors.New("file exceeds the size limit")
	ErrInvalidImageType = errors.New("unsupported image type")
)

// Image upload limits and formats.
const (
	MaxImageSizeBytes = 5 * 1024 * 1024

	CoverWidth  = 640
	CoverHeight = 360

	ScreenshotWidth  = 1280
	ScreenshotHeight = 720

	ContentTypeJPEG = "image/jpeg"

	CoverFolder      = "covers"
	ScreenshotFolder = "screenshots"
	ImageExt         = ".jpg"
	ImageCacheControl = "public, max-age=31536000, immutable"
)

// IsAllowedImageType reports whether an uploaded content type is accepted.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// UploadResult is returned after a successful media upload.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
