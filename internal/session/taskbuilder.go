package session

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/grace/internal/model"
)

// TaskBuilder holds at most one selected item per category.
type TaskBuilder struct {
	catalog  []model.TaskCategory
	selected map[string]model.TaskItem
}

func NewTaskBuilder(catalog []model.TaskCategory) *TaskBuilder {
	if catalog == nil {
		catalog = model.TaskCatalog()
	}
	return &TaskBuilder{
		catalog:  catalog,
		selected: make(map[string]model.TaskItem),
	}
}

func (b *TaskBuilder) Catalog() []model.TaskCategory {
	return b.catalog
}

// Select replaces any earlier selection for the category.
func (b *TaskBuilder) Select(categoryID, itemID string) error {
	cat, ok := b.category(categoryID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, categoryID)
	}
	item, ok := cat.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: %q in %q", ErrUnknownItem, itemID, categoryID)
	}
	b.selected[categoryID] = item
	return nil
}

func (b *TaskBuilder) Clear(categoryID string) {
	delete(b.selected, categoryID)
}

func (b *TaskBuilder) Reset() {
	b.selected = make(map[string]model.TaskItem)
}

func (b *TaskBuilder) IsSelected(categoryID, itemID string) bool {
	item, ok := b.selected[categoryID]
	return ok && item.ID == itemID
}

func (b *TaskBuilder) Len() int {
	return len(b.selected)
}

// Selected lists the selections in category declaration order.
func (b *TaskBuilder) Selected() []model.SelectedTask {
	out := make([]model.SelectedTask, 0, len(b.selected))
	for _, cat := range b.catalog {
		if item, ok := b.selected[cat.ID]; ok {
			out = append(out, model.SelectedTask{Category: cat.ID, Item: item})
		}
	}
	return out
}

func (b *TaskBuilder) Build() string {
	selected := b.Selected()
	if len(selected) == 0 {
		return ""
	}
	labels := make([]string, 0, len(selected))
	for _, s := range selected {
		labels = append(labels, s.Item.Label)
	}
	return strings.Join(labels, " ")
}

// Compose merges the built task with free text as "task: text". Either part
// may be empty.
func (b *TaskBuilder) Compose(input string) string {
	task := b.Build()
	blank := strings.TrimSpace(input) == ""
	switch {
	case task != "" && !blank:
		return task + ": " + input
	case task != "":
		return task
	default:
		return input
	}
}

func (b *TaskBuilder) category(id string) (model.TaskCategory, bool) {
	for _, cat := range b.catalog {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.TaskCategory{}, false
}
