// Package story implements the project lifecycle behind the writing wizard:
// CRUD, chapter drafting, AI generation and export.
package story

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/storyforge/internal/core/domain"
	"github.com/vietddude/storyforge/internal/infra/llm"
	"github.com/vietddude/storyforge/internal/infra/storage"
	"github.com/vietddude/storyforge/internal/resilience/queue"
)

// Service coordinates repositories, the LLM provider and the offline queue.
// Generation calls run through the queue's RunOrEnqueue: online they execute
// immediately with retries, offline they are deferred and replayed on
// reconnection.
type Service struct {
	projects storage.ProjectRepository
	chapters storage.ChapterRepository
	provider llm.Provider
	queue    *queue.Manager
	log      *slog.Logger
}

func NewService(
	projects storage.ProjectRepository,
	chapters storage.ChapterRepository,
	provider llm.Provider,
	q *queue.Manager,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		projects: projects,
		chapters: chapters,
		provider: provider,
		queue:    q,
		log:      log,
	}
}

// CreateProject creates an empty project.
func (s *Service) CreateProject(ctx context.Context, title, description string) (*domain.Project, error) {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Characters:  []domain.Character{},
		Chapters:    []domain.Chapter{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return p, nil
}

// GetProject retrieves a project with its chapters.
func (s *Service) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.Get(ctx, id)
}

// ListProjects retrieves all projects.
func (s *Service) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

// UpdateProject replaces a project's editable fields and touches UpdatedAt.
func (s *Service) UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if _, err := s.projects.Get(ctx, p.ID); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return p, nil
}

// DeleteProject removes a project and its chapters.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

// SaveChapter upserts a chapter, recomputing its word count.
func (s *Service) SaveChapter(ctx context.Context, c *domain.Chapter) (*domain.Chapter, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.WordCount = len(strings.Fields(c.Content))
	if err := s.chapters.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save chapter: %w", err)
	}
	return c, nil
}

// DeleteChapter removes a chapter from a project.
func (s *Service) DeleteChapter(ctx context.Context, projectID, chapterID string) error {
	return s.chapters.Delete(ctx, projectID, chapterID)
}

// GenerateSynopsis produces and stores a synopsis for the project. When the
// client is offline the work is queued instead and the returned queue ID is
// non-empty; the synopsis is written once the queue replays the item.
func (s *Service) GenerateSynopsis(ctx context.Context, projectID string) (string, string, error) {
	return s.generate(ctx, projectID, "synopsis", func(ctx context.Context, p *domain.Project) (string, error) {
		text, err := s.provider.Generate(ctx, llm.SynopsisPrompt(p))
		if err != nil {
			return "", err
		}
		p.Synopsis = text
		p.UpdatedAt = time.Now().UTC()
		if err := s.projects.Save(ctx, p); err != nil {
			return "", fmt.Errorf("failed to save synopsis: %w", err)
		}
		return text, nil
	})
}

// GenerateCharacter produces a character profile for the given role. The
// raw profile text is returned for the UI to shape; nothing is persisted.
func (s *Service) GenerateCharacter(ctx context.Context, projectID, role string) (string, string, error) {
	return s.generate(ctx, projectID, "character", func(ctx context.Context, p *domain.Project) (string, error) {
		return s.provider.Generate(ctx, llm.CharacterPrompt(p, role))
	})
}

// GenerateChapter drafts content for an existing chapter and stores it.
func (s *Service) GenerateChapter(ctx context.Context, projectID, chapterID string) (string, string, error) {
	return s.generate(ctx, projectID, "chapter", func(ctx context.Context, p *domain.Project) (string, error) {
		var target *domain.Chapter
		for i := range p.Chapters {
			if p.Chapters[i].ID == chapterID {
				target = &p.Chapters[i]
				break
			}
		}
		if target == nil {
			return "", storage.ErrChapterNotFound
		}

		text, err := s.provider.Generate(ctx, llm.ChapterPrompt(p, target))
		if err != nil {
			return "", err
		}
		target.Content = text
		target.WordCount = len(strings.Fields(text))
		if err := s.chapters.Save(ctx, target); err != nil {
			return "", fmt.Errorf("failed to save chapter: %w", err)
		}
		return text, nil
	})
}

// generate runs fn online-or-enqueued. The closure re-reads the project so
// a deferred replay sees current state, not the state at enqueue time.
func (s *Service) generate(
	ctx context.Context,
	projectID, kind string,
	fn func(ctx context.Context, p *domain.Project) (string, error),
) (string, string, error) {
	op := func(ctx context.Context) (any, error) {
		p, err := s.projects.Get(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return fn(ctx, p)
	}

	result, queueID, err := s.queue.RunOrEnqueue(ctx, op, queue.AddOptions{
		Metadata: map[string]any{"kind": kind, "project_id": projectID},
	})
	if err != nil {
		return "", "", err
	}
	if queueID != "" {
		s.log.Info("generation deferred while offline",
			"kind", kind, "project", projectID, "queue_id", queueID)
		return "", queueID, nil
	}
	return result.(string), "", nil
}
