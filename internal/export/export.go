// Package export writes a snapshot of the assistant state as a dated JSON
// document.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/grace/internal/model"
	"github.com/sandeepkv93/grace/internal/session"
)

const filePrefix = "grace-export-"

var ErrEmptyPath = errors.New("export: empty path")

// Document is the exported snapshot. ChatHistory holds one message list per
// archived conversation, oldest first.
type Document struct {
	Messages        []model.Message         `json:"messages"`
	Metrics         model.EfficiencyMetrics `json:"metrics"`
	Achievements    []model.Achievement     `json:"achievements"`
	ActiveReminders []model.ActiveReminder  `json:"activeReminders"`
	ChatHistory     [][]model.Message       `json:"chatHistory"`
	ExportDate      time.Time               `json:"exportDate"`
}

// FileName is the dated name an export taken at now is written under.
func FileName(now time.Time) string {
	return filePrefix + now.Format(time.DateOnly) + ".json"
}

// Snapshot collects the current state and archive into a Document.
func Snapshot(ctx context.Context, s *session.State, now time.Time) (Document, error) {
	history, err := s.History(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("load history: %w", err)
	}
	doc := Document{
		Messages:        nonNil(s.Messages),
		Metrics:         s.Tracker.Metrics(),
		Achievements:    s.Tracker.Achievements(),
		ActiveReminders: s.Reminders.Items(),
		ChatHistory:     make([][]model.Message, 0, len(history)),
		ExportDate:      now,
	}
	for _, conv := range history {
		doc.ChatHistory = append(doc.ChatHistory, nonNil(conv.Messages))
	}
	return doc, nil
}

// Write stores doc under dir as FileName(doc.ExportDate) and returns the path.
func Write(dir string, doc Document) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(doc.ExportDate))
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Read loads a previously written export.
func Read(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Document{}, ErrEmptyPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode export %s: %w", path, err)
	}
	return doc, nil
}

func nonNil(msgs []model.Message) []model.Message {
	if msgs == nil {
		return []model.Message{}
	}
	return msgs
}
