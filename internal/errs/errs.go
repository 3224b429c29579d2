// Package errs defines common error variables used across the application.
package errs

import "errors"

// Submission errors.
var (
	// ErrEmptyURL indicates that a job was submitted without a URL.
	ErrEmptyURL = errors.New("url is empty")
	// ErrInvalidURL indicates that the URL field in the request is invalid.
	ErrInvalidURL = errors.New("invalid url field")
	// ErrInvalidQuality indicates an unknown quality tier name.
	ErrInvalidQuality = errors.New("invalid quality tier")
	// ErrQueueClosed indicates that the manager is shut down and cannot accept new jobs.
	ErrQueueClosed = errors.New("queue is closed")
)

// Settings errors.
var (
	// ErrInvalidBufferSize indicates a buffer size string that does not parse
	// to a positive byte count.
	ErrInvalidBufferSize = errors.New("invalid buffer size")
	// ErrInvalidSegments indicates a non-positive concurrent segment count.
	ErrInvalidSegments = errors.New("invalid segment count")
	// ErrInvalidRetries indicates a negative retry count.
	ErrInvalidRetries = errors.New("invalid retry count")
)

// Auth errors.
var (
	// ErrAuthEntryNotFound indicates that no auth entry exists for the domain.
	ErrAuthEntryNotFound = errors.New("auth entry not found")
)

// Request errors.
var (
	// ErrInvalidRequestBody indicates that the request body is invalid or cannot be parsed.
	ErrInvalidRequestBody = errors.New("invalid request body")
)

// Engine errors.
var (
	// ErrDownloadFailed indicates that the download failed.
	ErrDownloadFailed = errors.New("download failed")
	// ErrBinaryNotFound indicates that a required binary was not found.
	ErrBinaryNotFound = errors.New("binary not found")
)
