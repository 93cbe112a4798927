package session

import (
	"strings"

	"github.com/sandeepkv93/grace/internal/model"
)

type AttachmentStaging struct {
	items []model.Attachment
	newID func() string
}

func NewAttachmentStaging(newID func() string) *AttachmentStaging {
	return &AttachmentStaging{newID: newID}
}

func (s *AttachmentStaging) AddFile(name string, size int64) (model.Attachment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Attachment{}, ErrEmptyAttachment
	}
	if size < 0 {
		size = 0
	}
	att := model.Attachment{ID: s.newID(), Type: model.AttachmentFile, Name: name, Size: size}
	s.items = append(s.items, att)
	return att, nil
}

func (s *AttachmentStaging) AddLink(url string) (model.Attachment, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.Attachment{}, ErrEmptyLink
	}
	att := model.Attachment{ID: s.newID(), Type: model.AttachmentLink, Name: url, URL: url}
	s.items = append(s.items, att)
	return att, nil
}

func (s *AttachmentStaging) Remove(id string) bool {
	for i, att := range s.items {
		if att.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *AttachmentStaging) Items() []model.Attachment {
	out := make([]model.Attachment, len(s.items))
	copy(out, s.items)
	return out
}

func (s *AttachmentStaging) Len() int { return len(s.items) }

// Take hands the staged attachments over and empties staging.
func (s *AttachmentStaging) Take() []model.Attachment {
	if len(s.items) == 0 {
		return nil
	}
	out := s.items
	s.items = nil
	return out
}

func (s *AttachmentStaging) Reset() {
	s.items = nil
}
