package imapmail

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"

	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMessage(t *testing.T) {
	p := NewProvider("imap.example.com:993", "alice@acme.com")

	section := &imap.BodySectionName{}
	body := "Subject: Quarterly report\r\n" +
		"From: Alice Smith <alice@acme.com>\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Numbers attached"
	msg := &imap.Message{
		Flags: []string{imap.SeenFlag, imap.FlaggedFlag},
		Envelope: &imap.Envelope{
			Subject: "Quarterly report",
			Date:    time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC),
			From:    []*imap.Address{{PersonalName: "Alice Smith", MailboxName: "alice", HostName: "acme.com"}},
			To:      []*imap.Address{{MailboxName: "bob", HostName: "acme.com"}},
		},
		Body: map[*imap.BodySectionName]imap.Literal{section: bytes.NewBufferString(body)},
	}

	raw := p.convertMessage("42", msg, section)

	assert.Equal(t, "42", raw.ID)
	assert.Contains(t, raw.LabelIDs, "STARRED")
	assert.NotContains(t, raw.LabelIDs, imap.SeenFlag)

	headers := make(map[string]string)
	for _, header := range raw.Headers {
		headers[header.Name] = header.Value
	}
	assert.Equal(t, "Quarterly report", headers["Subject"])
	assert.Equal(t, "Alice Smith <alice@acme.com>", headers["From"])
	assert.Equal(t, "bob@acme.com", headers["To"])
	assert.Equal(t, "Mon, 01 Jun 2026 10:30:00 +0000", headers["Date"])

	require.NotNil(t, raw.Payload)
	require.Len(t, raw.Payload.Parts, 1)
	part := raw.Payload.Parts[0]
	assert.Equal(t, "text/plain", part.MimeType)
	decoded, err := base64.URLEncoding.DecodeString(part.Data)
	require.NoError(t, err)
	assert.Equal(t, "Numbers attached", string(decoded))
}

func TestConvertMessageWithoutEnvelopeOrBody(t *testing.T) {
	p := NewProvider("imap.example.com:993", "alice@acme.com")

	raw := p.convertMessage("7", &imap.Message{}, &imap.BodySectionName{})

	assert.Equal(t, "7", raw.ID)
	assert.Empty(t, raw.Headers)
	assert.Empty(t, raw.LabelIDs)
	assert.Nil(t, raw.Payload)
}

func TestFormatAddresses(t *testing.T) {
	addrs := []*imap.Address{
		{PersonalName: "Alice Smith", MailboxName: "alice", HostName: "acme.com"},
		{MailboxName: "bob", HostName: "acme.com"},
	}

	assert.Equal(t, "Alice Smith <alice@acme.com>, bob@acme.com", formatAddresses(addrs))
	assert.Equal(t, "", formatAddresses(nil))
}

func TestSinceFromQuery(t *testing.T) {
	since, ok := sinceFromQuery("after:2026/05/10")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), since)

	_, ok = sinceFromQuery("")
	assert.False(t, ok)

	_, ok = sinceFromQuery("after:not-a-date")
	assert.False(t, ok)
}
