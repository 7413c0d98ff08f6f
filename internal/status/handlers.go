package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vietddude/storyforge/internal/core/domain"
	"github.com/vietddude/storyforge/internal/infra/storage"
	"github.com/vietddude/storyforge/internal/story"
)

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type generateResponse struct {
	Text    string `json:"text,omitempty"`
	QueueID string `json:"queue_id,omitempty"`
	Queued  bool   `json:"queued"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	p, err := s.svc.CreateProject(r.Context(), req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = r.PathValue("id")

	updated, err := s.svc.UpdateProject(r.Context(), &p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := story.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = story.FormatText
	}

	p, err := s.svc.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := story.Export(p, format)
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case story.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case story.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	_, _ = w.Write(out)
}

func (s *Server) handleSaveChapter(w http.ResponseWriter, r *http.Request) {
	var c domain.Chapter
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	c.ProjectID = r.PathValue("id")

	saved, err := s.svc.SaveChapter(r.Context(), &c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	var text, queueID string
	var err error
	switch kind := r.PathValue("kind"); kind {
	case "synopsis":
		text, queueID, err = s.svc.GenerateSynopsis(r.Context(), projectID)
	case "character":
		role := r.URL.Query().Get("role")
		if role == "" {
			role = "supporting"
		}
		text, queueID, err = s.svc.GenerateCharacter(r.Context(), projectID, role)
	case "chapter":
		chapterID := r.URL.Query().Get("chapter_id")
		if chapterID == "" {
			http.Error(w, "chapter_id is required", http.StatusBadRequest)
			return
		}
		text, queueID, err = s.svc.GenerateChapter(r.Context(), projectID, chapterID)
	default:
		http.Error(w, "unknown generation kind", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if queueID != "" {
		status = http.StatusAccepted
	}
	writeJSON(w, status, generateResponse{
		Text:    text,
		QueueID: queueID,
		Queued:  queueID != "",
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrProjectNotFound),
		errors.Is(err, storage.ErrChapterNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, story.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
