package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"task-manager/internal/form"
	"task-manager/internal/service"
)

const archivesPath = "/archives/"

// taskInput decodes a task form. A category value that is not a number is
// reported like any other invalid choice.
func taskInput(w http.ResponseWriter, r *http.Request) (service.TaskInput, error) {
	var in service.TaskInput
	err := decodeInput(w, r, &in, func(v url.Values) error {
		in = service.TaskInput{
			Title:       v.Get("title"),
			Description: v.Get("description"),
			DueDate:     v.Get("due_date"),
			Priority:    v.Get("priority"),
		}
		raw := strings.TrimSpace(v.Get("category"))
		if raw == "" {
			return nil
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			errs := form.Errors{}
			errs.Add("category", form.InvalidChoiceMsg)
			return errs.Err()
		}
		in.CategoryID = uint(id)
		return nil
	})
	return in, err
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	q := r.URL.Query()
	d, err := s.tasks.Dashboard(r.Context(), uid, q.Get("priority"), q.Get("page"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names, err := s.tasks.CategoryNames(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":           newTaskViews(d.Tasks, names, s.tasks.Today()),
		"pagination":      newPageView(d.Page),
		"priority":        string(d.Priority),
		"priorities":      priorityChoices(),
		"total_tasks":     d.Counts.Total,
		"pending_tasks":   d.Counts.Pending,
		"completed_tasks": d.Counts.Completed,
	})
}

func (s *Server) taskForm(w http.ResponseWriter, r *http.Request) {
	f, err := s.tasks.PrepareForm(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskFormView(f))
}

func (s *Server) taskCreate(w http.ResponseWriter, r *http.Request) {
	in, err := taskInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	uid := userID(r)
	task, err := s.tasks.CreateTask(r.Context(), uid, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names, err := s.tasks.CategoryNames(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, dashboardPath, map[string]any{
		"message": "Task created successfully!",
		"task":    newTaskView(*task, names, s.tasks.Today()),
	})
}

func (s *Server) taskEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	uid := userID(r)
	task, err := s.tasks.Get(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.tasks.PrepareForm(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view := newTaskFormView(f)
	names := make(map[uint]string, len(f.Categories))
	for _, c := range f.Categories {
		names[c.ID] = c.Name
	}
	tv := newTaskView(*task, names, s.tasks.Today())
	view.Task = &tv
	view.DefaultCategory = task.CategoryID
	view.DefaultPriority = string(task.Priority)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) taskUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := taskInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	uid := userID(r)
	task, err := s.tasks.UpdateTask(r.Context(), uid, id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names, err := s.tasks.CategoryNames(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, dashboardPath, map[string]any{
		"message": "Task updated successfully!",
		"task":    newTaskView(*task, names, s.tasks.Today()),
	})
}

func (s *Server) taskDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, dashboardPath, detail("Task deleted successfully!"))
}

func (s *Server) taskComplete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	uid := userID(r)
	task, err := s.tasks.CompleteTask(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names, err := s.tasks.CategoryNames(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, dashboardPath, map[string]any{
		"message": "Task marked as completed!",
		"task":    newTaskView(*task, names, s.tasks.Today()),
	})
}

func (s *Server) archive(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	a, err := s.tasks.Archive(r.Context(), uid, r.URL.Query().Get("page"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names, err := s.tasks.CategoryNames(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":           newTaskViews(a.Tasks, names, s.tasks.Today()),
		"pagination":      newPageView(a.Page),
		"total_completed": a.TotalCompleted,
	})
}

func (s *Server) archiveDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.tasks.DeleteArchived(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, archivesPath, detail("Archived task deleted successfully!"))
}

func (s *Server) archiveDeleteAll(w http.ResponseWriter, r *http.Request) {
	removed, err := s.tasks.DeleteAllArchived(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, archivesPath, map[string]any{
		"message":       "All archived tasks deleted successfully!",
		"deleted_tasks": removed,
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	res, err := s.tasks.Search(r.Context(), uid, r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names, err := s.tasks.CategoryNames(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":        res.Query,
		"tasks":        newTaskViews(res.Tasks, names, s.tasks.Today()),
		"result_count": res.Count,
	})
}
