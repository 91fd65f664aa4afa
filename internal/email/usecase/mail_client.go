package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	emaildomain "crmsync-backend/internal/email/domain"
)

// mailClient wraps a MailProvider with pagination and a single
// refresh-and-retry on authorization failure. It is scoped to one user's
// sync cycle and carries that user's access token.
type mailClient struct {
	provider    emaildomain.MailProvider
	tokens      TokenManager
	userID      string
	accessToken string
}

func newMailClient(provider emaildomain.MailProvider, tokens TokenManager, userID, accessToken string) *mailClient {
	return &mailClient{
		provider:    provider,
		tokens:      tokens,
		userID:      userID,
		accessToken: accessToken,
	}
}

// ListMessageIDs pages through the provider until maxResults identifiers are
// collected, the provider stops returning a next-page token, or a page comes
// back empty
func (c *mailClient) ListMessageIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	var messageIDs []string
	pageToken := ""

	for len(messageIDs) < maxResults {
		pageSize := int64(maxResults - len(messageIDs))
		if pageSize > emaildomain.ProviderPageSize {
			pageSize = emaildomain.ProviderPageSize
		}

		page, err := c.listPage(ctx, query, pageToken, pageSize)
		if err != nil {
			return nil, err
		}

		messageIDs = append(messageIDs, page.MessageIDs...)
		if page.NextPageToken == "" || len(page.MessageIDs) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(messageIDs) > maxResults {
		messageIDs = messageIDs[:maxResults]
	}
	return messageIDs, nil
}

func (c *mailClient) listPage(ctx context.Context, query, pageToken string, pageSize int64) (*emaildomain.MessagePage, error) {
	page, err := c.provider.ListMessageIDs(ctx, c.accessToken, query, pageToken, pageSize)
	if errors.Is(err, emaildomain.ErrUnauthorized) {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			return nil, refreshErr
		}
		return c.provider.ListMessageIDs(ctx, c.accessToken, query, pageToken, pageSize)
	}
	return page, err
}

// GetMessage fetches one full message, refreshing the token once if the
// provider rejects it
func (c *mailClient) GetMessage(ctx context.Context, messageID string) (*emaildomain.RawMessage, error) {
	msg, err := c.provider.GetMessage(ctx, c.accessToken, messageID)
	if errors.Is(err, emaildomain.ErrUnauthorized) {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			return nil, refreshErr
		}
		return c.provider.GetMessage(ctx, c.accessToken, messageID)
	}
	return msg, err
}

func (c *mailClient) refresh(ctx context.Context) error {
	log.Printf("[MailClient] Access token rejected for user %s, refreshing", c.userID)
	cred, err := c.tokens.Refresh(ctx, c.userID)
	if err != nil {
		return fmt.Errorf("unable to refresh access token: %v", err)
	}
	c.accessToken = cred.AccessToken
	return nil
}
