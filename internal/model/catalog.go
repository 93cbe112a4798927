package model

type TaskItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type TaskCategory struct {
	ID    string
	Title string
	Items []TaskItem
}

func (c TaskCategory) Item(id string) (TaskItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return TaskItem{}, false
}

type SelectedTask struct {
	Category string   `json:"category"`
	Item     TaskItem `json:"item"`
}

// TaskCatalog returns the builder categories in declaration order. The
// order is significant: it decides how selections are joined.
func TaskCatalog() []TaskCategory {
	return []TaskCategory{
		{
			ID:    "want",
			Title: "I WANT TO",
			Items: []TaskItem{
				{ID: "ask", Label: "Ask", Icon: "💬"},
				{ID: "search", Label: "Search", Icon: "🔍"},
				{ID: "explain", Label: "Explain", Icon: "💡"},
				{ID: "analyze", Label: "Analyze", Icon: "📈"},
				{ID: "summarize", Label: "Summarize", Icon: "📝"},
				{ID: "research", Label: "Research", Icon: "🔬"},
			},
		},
		{
			ID:    "use",
			Title: "USE MY",
			Items: []TaskItem{
				{ID: "slack", Label: "Slack", Icon: "💬"},
				{ID: "gmail", Label: "Gmail", Icon: "📧"},
				{ID: "salesforce", Label: "Salesforce", Icon: "☁️"},
				{ID: "drive", Label: "Drive", Icon: "📁"},
				{ID: "tabs", Label: "Browser Tabs", Icon: "🌐"},
				{ID: "calendar", Label: "Calendar", Icon: "📅"},
			},
		},
		{
			ID:    "make",
			Title: "MAKE A",
			Items: []TaskItem{
				{ID: "doc", Label: "Doc", Icon: "📄"},
				{ID: "table", Label: "Table", Icon: "📊"},
				{ID: "powerpoint", Label: "PowerPoint", Icon: "📽️"},
				{ID: "sheet", Label: "Sheet", Icon: "📈"},
				{ID: "image", Label: "Image", Icon: "🖼️"},
				{ID: "wordfile", Label: "Word File", Icon: "📝"},
			},
		},
	}
}

type QuickAction struct {
	ID          string
	Title       string
	Description string
	// Placeholder replaces the composer hint when the action is chosen.
	Placeholder string
}

const (
	QuickGuidance  = "guidance"
	QuickSummary   = "summary"
	QuickOverview  = "overview"
	QuickReminders = "reminders"
)

func QuickActions() []QuickAction {
	return []QuickAction{
		{ID: QuickGuidance, Title: "Guidance", Description: "Give me guidance to complete a task", Placeholder: "Give me guidance to complete..."},
		{ID: QuickSummary, Title: "Summary", Description: "Summarize this content", Placeholder: "Summarize this content..."},
		{ID: QuickOverview, Title: "Overview", Description: "Show me my risk overview", Placeholder: "Show me my risk overview..."},
		{ID: QuickReminders, Title: "Manage Reminders", Description: "View and manage active reminders"},
	}
}

func QuickActionByID(id string) (QuickAction, bool) {
	for _, qa := range QuickActions() {
		if qa.ID == id {
			return qa, true
		}
	}
	return QuickAction{}, false
}
