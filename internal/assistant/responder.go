// Package assistant produces the assistant side of a conversation. There is
// no model behind it: replies come from a small canned table after a fixed
// delay.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const DefaultDelay = 1500 * time.Millisecond

// ApologyMessage is appended in place of a reply when a Responder fails.
const ApologyMessage = "I apologize, but I encountered an error processing your request. Please try again."

type Responder interface {
	Respond(ctx context.Context, task string) (string, error)
}

type CannedResponse struct {
	Key   string
	Reply string
}

// DefaultTable is matched in order; the first key contained in the task wins.
func DefaultTable() []CannedResponse {
	return []CannedResponse{
		{Key: "search gmail", Reply: "I've searched your Gmail and found 47 unread messages. The most recent are from your team about the Q4 project updates. Would you like me to summarize them?"},
		{Key: "analyze salesforce", Reply: "I've analyzed your Salesforce data. You have 23 active opportunities worth $450K in total pipeline. 5 deals are closing this week. Would you like a detailed breakdown?"},
		{Key: "summarize slack", Reply: "I've reviewed your Slack messages from the past 24 hours. Key highlights: Team standup completed, design review scheduled for Thursday, and 3 urgent questions requiring your response."},
		{Key: "search drive", Reply: "I found 156 documents in your Google Drive. Recent activity includes 12 files shared with you today. Would you like me to organize them by project?"},
		{Key: "explain notion", Reply: "Your Notion workspace has 8 active projects. The 'Product Launch' page was updated 2 hours ago with new timelines. I can walk you through the changes."},
	}
}

func Fallback(task string) string {
	return fmt.Sprintf(`I've completed your task: "%s". The results show positive outcomes across all metrics. Would you like me to provide more detailed analysis or take any follow-up actions?`, task)
}

// Match picks the reply for task without any delay.
func Match(table []CannedResponse, task string) string {
	lower := strings.ToLower(task)
	for _, entry := range table {
		if strings.Contains(lower, strings.ToLower(entry.Key)) {
			return entry.Reply
		}
	}
	return Fallback(task)
}

type MockResponder struct {
	Delay time.Duration
	Table []CannedResponse
}

func NewMockResponder(delay time.Duration) MockResponder {
	if delay < 0 {
		delay = 0
	}
	return MockResponder{Delay: delay, Table: DefaultTable()}
}

// Respond waits for Delay and then answers from the table. The only failure
// is the context ending first.
func (r MockResponder) Respond(ctx context.Context, task string) (string, error) {
	table := r.Table
	if table == nil {
		table = DefaultTable()
	}
	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", fmt.Errorf("assistant: %w", ctx.Err())
		}
	} else if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("assistant: %w", err)
	}
	return Match(table, task), nil
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, task string) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, task string) (string, error) {
	return f(ctx, task)
}
