package usecase

import (
	"encoding/base64"
	"net/mail"
	"strings"
	"time"

	emaildomain "crmsync-backend/internal/email/domain"
)

// normalizeMessage converts a provider message into the stored Email form.
// Timestamps fall back to the current time when the Date header is missing
// or unparseable.
func normalizeMessage(raw *emaildomain.RawMessage, userID, organizationID string) *emaildomain.Email {
	subject := headerValue(raw.Headers, "Subject")
	if subject == "" {
		subject = "(No Subject)"
	}

	receivedAt := time.Now()
	if dateHeader := headerValue(raw.Headers, "Date"); dateHeader != "" {
		if parsed, err := mail.ParseDate(dateHeader); err == nil {
			receivedAt = parsed
		}
	}

	bodyText, bodyHTML := extractBodies(raw.Payload)

	return &emaildomain.Email{
		MessageID:      raw.ID,
		ThreadID:       raw.ThreadID,
		Subject:        subject,
		From:           headerValue(raw.Headers, "From"),
		To:             splitRecipients(headerValue(raw.Headers, "To")),
		CC:             splitRecipients(headerValue(raw.Headers, "Cc")),
		BCC:            splitRecipients(headerValue(raw.Headers, "Bcc")),
		Snippet:        raw.Snippet,
		BodyText:       bodyText,
		BodyHTML:       bodyHTML,
		Labels:         raw.LabelIDs,
		HasAttachments: hasAttachments(raw.Payload),
		IsStarred:      hasLabel(raw.LabelIDs, "STARRED"),
		ReceivedAt:     receivedAt,
		UserID:         userID,
		OrganizationID: organizationID,
	}
}

func headerValue(headers []emaildomain.Header, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

func splitRecipients(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	recipients := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}

// extractBodies walks the part tree depth-first and keeps the first
// text/plain and first text/html bodies it finds
func extractBodies(payload *emaildomain.MessagePart) (bodyText, bodyHTML string) {
	var walk func(part *emaildomain.MessagePart)
	walk = func(part *emaildomain.MessagePart) {
		if part == nil {
			return
		}
		if part.Data != "" {
			switch part.MimeType {
			case "text/plain":
				if bodyText == "" {
					bodyText = decodeBody(part.Data)
				}
			case "text/html":
				if bodyHTML == "" {
					bodyHTML = decodeBody(part.Data)
				}
			}
		}
		for _, child := range part.Parts {
			walk(child)
		}
	}
	walk(payload)
	return bodyText, bodyHTML
}

func decodeBody(data string) string {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

func hasAttachments(payload *emaildomain.MessagePart) bool {
	if payload == nil {
		return false
	}
	if payload.Filename != "" {
		return true
	}
	for _, child := range payload.Parts {
		if hasAttachments(child) {
			return true
		}
	}
	return false
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
