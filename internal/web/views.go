package web

import (
	"time"

	"task-manager/internal/model"
	"task-manager/internal/service"
)

type taskView struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DueDate       string    `json:"due_date"`
	Priority      string    `json:"priority"`
	PriorityLabel string    `json:"priority_label"`
	IsCompleted   bool      `json:"is_completed"`
	IsOverdue     bool      `json:"is_overdue"`
	CategoryID    uint      `json:"category_id"`
	Category      string    `json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type categoryView struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	TotalTasks     *int64 `json:"total_tasks,omitempty"`
	PendingTasks   *int64 `json:"pending_tasks,omitempty"`
	CompletedTasks *int64 `json:"completed_tasks,omitempty"`
}

type pageView struct {
	Number       int   `json:"page"`
	NumPages     int   `json:"num_pages"`
	Count        int64 `json:"count"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
	NextPage     int   `json:"next_page,omitempty"`
	PreviousPage int   `json:"previous_page,omitempty"`
}

type choiceView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type taskFormView struct {
	Categories      []categoryView `json:"categories"`
	DefaultCategory uint           `json:"default_category"`
	Priorities      []choiceView   `json:"priorities"`
	DefaultPriority string         `json:"default_priority"`
	MinDueDate      string         `json:"min_due_date"`
	Task            *taskView      `json:"task,omitempty"`
}

type userView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func newTaskView(t model.Task, categories map[uint]string, today time.Time) taskView {
	return taskView{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       t.DueDate.Format(model.DateLayout),
		Priority:      string(t.Priority),
		PriorityLabel: t.Priority.Label(),
		IsCompleted:   t.IsCompleted,
		IsOverdue:     t.IsOverdue(today),
		CategoryID:    t.CategoryID,
		Category:      categories[t.CategoryID],
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func newTaskViews(tasks []model.Task, categories map[uint]string, today time.Time) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskView(t, categories, today))
	}
	return out
}

func newCategoryView(c model.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name}
}

func newCategoryStatsView(c model.CategoryStats) categoryView {
	v := newCategoryView(c.Category)
	v.TotalTasks = &c.TotalTasks
	v.PendingTasks = &c.PendingTasks
	v.CompletedTasks = &c.CompletedTasks
	return v
}

func newPageView(p service.Page) pageView {
	v := pageView{
		Number:      p.Number,
		NumPages:    p.NumPages,
		Count:       p.Count,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
	if p.HasNext {
		v.NextPage = p.Number + 1
	}
	if p.HasPrevious {
		v.PreviousPage = p.Number - 1
	}
	return v
}

func priorityChoices() []choiceView {
	out := make([]choiceView, 0, len(model.Priorities))
	for _, p := range model.Priorities {
		out = append(out, choiceView{Value: string(p), Label: p.Label()})
	}
	return out
}

func newTaskFormView(f *service.TaskForm) taskFormView {
	categories := make([]categoryView, 0, len(f.Categories))
	for _, c := range f.Categories {
		categories = append(categories, newCategoryView(c))
	}
	return taskFormView{
		Categories:      categories,
		DefaultCategory: f.DefaultCategoryID,
		Priorities:      priorityChoices(),
		DefaultPriority: string(model.PriorityNormal),
		MinDueDate:      f.MinDueDate.Format(model.DateLayout),
	}
}

func newUserView(u *model.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
