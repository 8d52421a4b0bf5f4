package web

import (
	"fmt"
	"net/http"
	"net/url"

	"task-manager/internal/service"
)

const categoriesPath = "/categories/"

func categoryInput(w http.ResponseWriter, r *http.Request) (service.CategoryInput, error) {
	var in service.CategoryInput
	err := decodeInput(w, r, &in, func(v url.Values) error {
		in.Name = v.Get("name")
		return nil
	})
	return in, err
}

func (s *Server) categoryList(w http.ResponseWriter, r *http.Request) {
	list, err := s.categories.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]categoryView, 0, len(list.Categories))
	for _, c := range list.Categories {
		views = append(views, newCategoryStatsView(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":       views,
		"total_categories": list.Total,
	})
}

func (s *Server) categoryForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fields": []string{"name"}})
}

func (s *Server) categoryCreate(w http.ResponseWriter, r *http.Request) {
	in, err := categoryInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.categories.Create(r.Context(), userID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, categoriesPath, map[string]any{
		"message":  fmt.Sprintf("Category %q created successfully!", category.Name),
		"category": newCategoryView(*category),
	})
}

func (s *Server) categoryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	uid := userID(r)
	d, err := s.categories.Detail(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names := map[uint]string{d.Category.ID: d.Category.Name}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": newCategoryView(d.Category),
		"tasks":    newTaskViews(d.Tasks, names, s.tasks.Today()),
	})
}

func (s *Server) categoryEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.categories.Detail(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fields":   []string{"name"},
		"category": newCategoryView(d.Category),
	})
}

func (s *Server) categoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := categoryInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.categories.Update(r.Context(), userID(r), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, categoriesPath, map[string]any{
		"message":  fmt.Sprintf("Category %q updated successfully!", category.Name),
		"category": newCategoryView(*category),
	})
}

func (s *Server) categoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	removed, err := s.categories.Delete(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seeOther(w, categoriesPath, map[string]any{
		"message":       "Category deleted successfully!",
		"deleted_tasks": removed,
	})
}
