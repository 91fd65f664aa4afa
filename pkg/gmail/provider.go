package gmail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	emaildomain "crmsync-backend/internal/email/domain"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Provider implements emaildomain.MailProvider on top of the Gmail API
type Provider struct{}

// NewProvider creates a new Gmail provider
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}

	srv, err := gmail.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}

// ListMessageIDs lists one page of message identifiers matching the query
func (p *Provider) ListMessageIDs(ctx context.Context, accessToken, query, pageToken string, pageSize int64) (*emaildomain.MessagePage, error) {
	srv, err := p.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := srv.Users.Messages.List("me").MaxResults(pageSize)
	if query != "" {
		call = call.Q(query)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, mapError(err)
	}

	page := &emaildomain.MessagePage{
		MessageIDs:    make([]string, 0, len(resp.Messages)),
		NextPageToken: resp.NextPageToken,
	}
	for _, msg := range resp.Messages {
		page.MessageIDs = append(page.MessageIDs, msg.Id)
	}
	return page, nil
}

// GetMessage fetches one full message and converts it to the
// provider-neutral form
func (p *Provider) GetMessage(ctx context.Context, accessToken, messageID string) (*emaildomain.RawMessage, error) {
	srv, err := p.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, mapError(err)
	}

	return convertMessage(msg), nil
}

// mapError translates Gmail's authorization failures into the domain
// sentinel the mail client retries on
func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return emaildomain.ErrUnauthorized
	}
	return err
}

func convertMessage(msg *gmail.Message) *emaildomain.RawMessage {
	raw := &emaildomain.RawMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		LabelIDs: msg.LabelIds,
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			raw.Headers = append(raw.Headers, emaildomain.Header{
				Name:  header.Name,
				Value: header.Value,
			})
		}
		raw.Payload = convertPart(msg.Payload)
	}
	return raw
}

func convertPart(part *gmail.MessagePart) *emaildomain.MessagePart {
	converted := &emaildomain.MessagePart{
		MimeType: part.MimeType,
		Filename: part.Filename,
	}
	if part.Body != nil {
		converted.Data = part.Body.Data
	}
	for _, child := range part.Parts {
		converted.Parts = append(converted.Parts, convertPart(child))
	}
	return converted
}
