// Package mailparse converts RFC 5322 messages into the engine's
// EmailDocument shape. It is a convenience for the CLIs and batch
// tools; the production document accessor is the ingestion
// collaborator.
package mailparse

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mailrisk/risk-engine/internal/core"
)

var authResultPattern = regexp.MustCompile(`(?i)\b(spf|dkim|dmarc)\s*=\s*([a-z]+)`)

// ParseFile parses an email from a file
func ParseFile(path string) (*core.EmailDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse parses an email from a reader into an EmailDocument. Malformed
// or missing headers degrade to empty fields rather than failing; only
// an unreadable message is an error.
func Parse(reader io.Reader) (*core.EmailDocument, error) {
	msg, err := mail.ReadMessage(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email: %w", err)
	}

	doc := &core.EmailDocument{
		ID:         messageID(msg.Header),
		Subject:    msg.Header.Get("Subject"),
		Auth:       parseAuthResults(msg.Header),
		ReceivedAt: receivedAt(msg.Header),
	}

	if addr, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		doc.From = addr.Address
		doc.DisplayName = addr.Name
	} else {
		doc.From = msg.Header.Get("From")
	}
	if addr, err := mail.ParseAddress(msg.Header.Get("Reply-To")); err == nil {
		doc.ReplyTo = addr.Address
	} else {
		doc.ReplyTo = msg.Header.Get("Reply-To")
	}

	body, attachments, err := readBody(msg)
	if err != nil {
		return nil, err
	}
	doc.Body = body
	doc.Attachments = attachments

	return doc, nil
}

// messageID returns the Message-ID without angle brackets, or a fresh
// uuid when absent
func messageID(header mail.Header) string {
	id := strings.Trim(header.Get("Message-ID"), "<> \t")
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func receivedAt(header mail.Header) time.Time {
	if date, err := header.Date(); err == nil {
		return date
	}
	return time.Now().UTC()
}

// parseAuthResults extracts SPF/DKIM/DMARC outcomes from the
// Authentication-Results header, falling back to Received-SPF for the
// SPF result.
func parseAuthResults(header mail.Header) core.AuthResults {
	auth := core.AuthResults{}

	for _, match := range authResultPattern.FindAllStringSubmatch(header.Get("Authentication-Results"), -1) {
		method := strings.ToLower(match[1])
		result := strings.ToLower(match[2])
		switch method {
		case "spf":
			auth.SPF = result
		case "dkim":
			auth.DKIM = result
		case "dmarc":
			auth.DMARC = result
		}
	}

	if auth.SPF == "" {
		if received := strings.TrimSpace(header.Get("Received-SPF")); received != "" {
			auth.SPF = strings.ToLower(strings.Fields(received)[0])
		}
	}

	return auth
}

// readBody collects the text content and declared attachments. For
// multipart messages each part is inspected; attachment bodies are
// discarded, only filenames and declared types are kept.
func readBody(msg *mail.Message) (string, []core.Attachment, error) {
	contentType := msg.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		raw, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read email body: %w", err)
		}
		return string(raw), nil, nil
	}

	var body strings.Builder
	var attachments []core.Attachment

	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep whatever was parsed so far; a truncated part list
			// still yields a scoreable document
			break
		}

		filename := part.FileName()
		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if filename != "" {
			attachments = append(attachments, core.Attachment{
				Filename:    filename,
				ContentType: partType,
			})
			continue
		}

		if partType == "" || strings.HasPrefix(partType, "text/") {
			raw, err := io.ReadAll(part)
			if err == nil {
				body.Write(raw)
				body.WriteString("\n")
			}
		}
	}

	return body.String(), attachments, nil
}
