package imapmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	emaildomain "crmsync-backend/internal/email/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
)

// Provider implements emaildomain.MailProvider over IMAP for mailboxes that
// are not hosted on Gmail. The caller's access token is presented via
// OAUTHBEARER; listing is emulated with UID search plus numeric page tokens.
type Provider struct {
	server   string // host:port
	username string
}

// NewProvider creates a new IMAP provider for one mailbox
func NewProvider(server, username string) *Provider {
	return &Provider{
		server:   server,
		username: username,
	}
}

func (p *Provider) connect(accessToken string) (*client.Client, error) {
	c, err := client.DialTLS(p.server, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %v", err)
	}

	auth := sasl.NewOAuthBearerClient(&sasl.OAuthBearerOptions{
		Username: p.username,
		Token:    accessToken,
	})
	if err := c.Authenticate(auth); err != nil {
		_ = c.Logout()
		return nil, emaildomain.ErrUnauthorized
	}

	if _, err := c.Select("INBOX", true); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to select INBOX: %v", err)
	}
	return c, nil
}

// ListMessageIDs searches the mailbox and returns one page of message UIDs
func (p *Provider) ListMessageIDs(ctx context.Context, accessToken, query, pageToken string, pageSize int64) (*emaildomain.MessagePage, error) {
	c, err := p.connect(accessToken)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	criteria := imap.NewSearchCriteria()
	if since, ok := sinceFromQuery(query); ok {
		criteria.Since = since
	}

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search mailbox: %v", err)
	}

	offset := 0
	if pageToken != "" {
		if parsed, parseErr := strconv.Atoi(pageToken); parseErr == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if offset >= len(uids) {
		return &emaildomain.MessagePage{}, nil
	}

	end := offset + int(pageSize)
	if end > len(uids) {
		end = len(uids)
	}

	page := &emaildomain.MessagePage{
		MessageIDs: make([]string, 0, end-offset),
	}
	for _, uid := range uids[offset:end] {
		page.MessageIDs = append(page.MessageIDs, strconv.FormatUint(uint64(uid), 10))
	}
	if end < len(uids) {
		page.NextPageToken = strconv.Itoa(end)
	}
	return page, nil
}

// GetMessage fetches one message by UID and converts it to the
// provider-neutral form
func (p *Provider) GetMessage(ctx context.Context, accessToken, messageID string) (*emaildomain.RawMessage, error) {
	uid, err := strconv.ParseUint(messageID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %v", messageID, err)
	}

	c, err := p.connect(accessToken)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uint32(uid))

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, imap.FetchFlags, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqSet, items, messages)
	}()

	var fetched *imap.Message
	for msg := range messages {
		fetched = msg
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %v", messageID, err)
	}
	if fetched == nil {
		return nil, fmt.Errorf("message %s not found", messageID)
	}

	return p.convertMessage(messageID, fetched, section), nil
}

func (p *Provider) convertMessage(messageID string, msg *imap.Message, section *imap.BodySectionName) *emaildomain.RawMessage {
	raw := &emaildomain.RawMessage{
		ID: messageID,
	}

	for _, flag := range msg.Flags {
		if flag == imap.FlaggedFlag {
			raw.LabelIDs = append(raw.LabelIDs, "STARRED")
		}
	}

	if msg.Envelope != nil {
		raw.Headers = append(raw.Headers,
			emaildomain.Header{Name: "Subject", Value: msg.Envelope.Subject},
			emaildomain.Header{Name: "Date", Value: msg.Envelope.Date.Format(time.RFC1123Z)},
			emaildomain.Header{Name: "From", Value: formatAddresses(msg.Envelope.From)},
			emaildomain.Header{Name: "To", Value: formatAddresses(msg.Envelope.To)},
			emaildomain.Header{Name: "Cc", Value: formatAddresses(msg.Envelope.Cc)},
			emaildomain.Header{Name: "Bcc", Value: formatAddresses(msg.Envelope.Bcc)},
		)
	}

	bodyReader := msg.GetBody(section)
	if bodyReader == nil {
		return raw
	}

	mr, err := mail.CreateReader(bodyReader)
	if err != nil {
		log.Printf("[IMAP] Failed to read message %s body: %v", messageID, err)
		return raw
	}

	payload := &emaildomain.MessagePart{MimeType: "multipart/mixed"}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[IMAP] Failed to read part of message %s: %v", messageID, err)
			break
		}

		switch header := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := header.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			payload.Parts = append(payload.Parts, &emaildomain.MessagePart{
				MimeType: contentType,
				Data:     base64.URLEncoding.EncodeToString(body),
			})
		case *mail.AttachmentHeader:
			filename, _ := header.Filename()
			contentType, _, _ := header.ContentType()
			payload.Parts = append(payload.Parts, &emaildomain.MessagePart{
				MimeType: contentType,
				Filename: filename,
			})
		}
	}
	raw.Payload = payload
	return raw
}

func formatAddresses(addrs []*imap.Address) string {
	formatted := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr.PersonalName != "" {
			formatted = append(formatted, fmt.Sprintf("%s <%s>", addr.PersonalName, addr.Address()))
		} else {
			formatted = append(formatted, addr.Address())
		}
	}
	return strings.Join(formatted, ", ")
}

// sinceFromQuery extracts the date window from an "after:YYYY/MM/DD" query
func sinceFromQuery(query string) (time.Time, bool) {
	for _, field := range strings.Fields(query) {
		if !strings.HasPrefix(field, "after:") {
			continue
		}
		if parsed, err := time.Parse("2006/01/02", strings.TrimPrefix(field, "after:")); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
