package storage

import (
	"context"
	"errors"

	"github.com/vietddude/storyforge/internal/core/domain"
)

var (
	// ErrProjectNotFound is returned when a project doesn't exist
	ErrProjectNotFound = errors.New("project not found")

	// ErrChapterNotFound is returned when a chapter doesn't exist
	ErrChapterNotFound = errors.New("chapter not found")
)

// ProjectRepository handles project storage operations
type ProjectRepository interface {
	// Save inserts or updates a project
	Save(ctx context.Context, project *domain.Project) error

	// Get retrieves a project by id, including characters and chapters
	Get(ctx context.Context, id string) (*domain.Project, error)

	// List retrieves all projects
	List(ctx context.Context) ([]*domain.Project, error)

	// Delete removes a project and its chapters
	Delete(ctx context.Context, id string) error
}

// ChapterRepository handles chapter storage operations
type ChapterRepository interface {
	// Save inserts or updates a chapter
	Save(ctx context.Context, chapter *domain.Chapter) error

	// ListByProject retrieves chapters of a project ordered by position
	ListByProject(ctx context.Context, projectID string) ([]*domain.Chapter, error)

	// Delete removes a chapter
	Delete(ctx context.Context, projectID, chapterID string) error
}
