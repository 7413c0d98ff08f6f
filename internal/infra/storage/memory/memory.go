package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vietddude/storyforge/internal/core/domain"
	"github.com/vietddude/storyforge/internal/infra/storage"
)

// MemoryStorage backs the repositories when no database is configured.
type MemoryStorage struct {
	projects map[string]*domain.Project
	chapters map[string][]*domain.Chapter
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		projects: make(map[string]*domain.Project),
		chapters: make(map[string][]*domain.Chapter),
	}
}

// -----------------------------------------------------------------------------
// Project Repository
// -----------------------------------------------------------------------------

type ProjectRepo struct {
	store *MemoryStorage
}

func NewProjectRepo(store *MemoryStorage) *ProjectRepo {
	return &ProjectRepo{store: store}
}

func (r *ProjectRepo) Save(ctx context.Context, p *domain.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	r.store.projects[p.ID] = &cp
	return nil
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (*domain.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.projects[id]
	if !ok {
		return nil, storage.ErrProjectNotFound
	}
	cp := *p
	cp.Chapters = sortedChapters(r.store.chapters[id])
	return &cp, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.Project, 0, len(r.store.projects))
	for _, p := range r.store.projects {
		cp := *p
		cp.Chapters = sortedChapters(r.store.chapters[p.ID])
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.projects[id]; !ok {
		return storage.ErrProjectNotFound
	}
	delete(r.store.projects, id)
	delete(r.store.chapters, id)
	return nil
}

// -----------------------------------------------------------------------------
// Chapter Repository
// -----------------------------------------------------------------------------

type ChapterRepo struct {
	store *MemoryStorage
}

func NewChapterRepo(store *MemoryStorage) *ChapterRepo {
	return &ChapterRepo{store: store}
}

func (r *ChapterRepo) Save(ctx context.Context, c *domain.Chapter) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	chapters := r.store.chapters[c.ProjectID]
	cp := *c
	for i, existing := range chapters {
		if existing.ID == c.ID {
			chapters[i] = &cp
			return nil
		}
	}
	r.store.chapters[c.ProjectID] = append(chapters, &cp)
	return nil
}

func (r *ChapterRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Chapter, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.Chapter, len(r.store.chapters[projectID]))
	for i, c := range r.store.chapters[projectID] {
		cp := *c
		out[i] = &cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *ChapterRepo) Delete(ctx context.Context, projectID, chapterID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	chapters := r.store.chapters[projectID]
	for i, c := range chapters {
		if c.ID == chapterID {
			r.store.chapters[projectID] = append(chapters[:i], chapters[i+1:]...)
			return nil
		}
	}
	return storage.ErrChapterNotFound
}

func sortedChapters(in []*domain.Chapter) []domain.Chapter {
	out := make([]domain.Chapter, len(in))
	for i, c := range in {
		out[i] = *c
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
