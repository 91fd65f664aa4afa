package domain

import (
	"context"
	"errors"
)

// ProviderPageSize is the page ceiling enforced by mail providers when
// listing messages
const ProviderPageSize = 50

var (
	// ErrUnauthorized signals a provider-reported authorization failure.
	// The mail client refreshes the credential and retries the call once.
	ErrUnauthorized = errors.New("mail provider: unauthorized")

	// ErrSyncInProgress is returned when a sync is requested for a user
	// whose checkpoint is already in the syncing state
	ErrSyncInProgress = errors.New("sync already in progress for this user")
)

// MessagePage is one page of a message listing
type MessagePage struct {
	MessageIDs    []string
	NextPageToken string
}

// Header is a single raw message header
type Header struct {
	Name  string
	Value string
}

// MessagePart mirrors the provider's multi-part body tree. Data carries the
// base64url-encoded part payload.
type MessagePart struct {
	MimeType string
	Filename string
	Data     string
	Parts    []*MessagePart
}

// RawMessage is a fetched message in provider-neutral form, before
// normalization into an Email record
type RawMessage struct {
	ID       string
	ThreadID string
	Snippet  string
	LabelIDs []string
	Headers  []Header
	Payload  *MessagePart
}

// MailProvider abstracts the remote mail API: paginated listing of message
// identifiers matching a query, and per-message fetch. Implementations map
// the provider's authorization failures to ErrUnauthorized.
type MailProvider interface {
	ListMessageIDs(ctx context.Context, accessToken, query, pageToken string, pageSize int64) (*MessagePage, error)
	GetMessage(ctx context.Context, accessToken, messageID string) (*RawMessage, error)
}
