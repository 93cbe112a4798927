package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRole           = errors.New("model: invalid message role")
	ErrInvalidAttachmentType = errors.New("model: invalid attachment type")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

type Message struct {
	ID          string       `json:"id"`
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

func (m Message) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("model: message id is required")
	}
	if !m.Role.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return errors.New("model: message content is required")
	}
	if m.Timestamp.IsZero() {
		return errors.New("model: message timestamp is required")
	}
	if m.Role == RoleAssistant && len(m.Attachments) > 0 {
		return errors.New("model: assistant messages carry no attachments")
	}
	for _, att := range m.Attachments {
		if err := att.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type AttachmentType string

const (
	AttachmentFile AttachmentType = "file"
	AttachmentLink AttachmentType = "link"
)

func (t AttachmentType) IsValid() bool {
	switch t {
	case AttachmentFile, AttachmentLink:
		return true
	default:
		return false
	}
}

// Attachment references a local file or a link. File content is never read;
// only the name and size are captured.
type Attachment struct {
	ID   string         `json:"id"`
	Type AttachmentType `json:"type"`
	Name string         `json:"name"`
	URL  string         `json:"url,omitempty"`
	Size int64          `json:"size,omitempty"`
}

func (a Attachment) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: attachment id is required")
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAttachmentType, a.Type)
	}
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("model: attachment name is required")
	}
	if a.Type == AttachmentLink && strings.TrimSpace(a.URL) == "" {
		return errors.New("model: link attachment url is required")
	}
	if a.Size < 0 {
		return errors.New("model: attachment size must not be negative")
	}
	return nil
}

// FormatSize renders a byte count as B, KB or MB with one decimal.
func FormatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
