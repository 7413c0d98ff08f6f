package postgres

import (
	"context"

	"github.com/vietddude/storyforge/internal/core/domain"
	"github.com/vietddude/storyforge/internal/infra/storage"
)

type ChapterRepo struct {
	db *DB
}

func NewChapterRepo(db *DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

func (r *ChapterRepo) Save(ctx context.Context, c *domain.Chapter) error {
	query := `
		INSERT INTO chapters (id, project_id, title, content, chapter_order, word_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			chapter_order = EXCLUDED.chapter_order,
			word_count = EXCLUDED.word_count
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ProjectID, c.Title, c.Content, c.Order, c.WordCount)
	return err
}

func (r *ChapterRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Chapter, error) {
	var chapters []*domain.Chapter
	err := r.db.SelectContext(ctx, &chapters, `
		SELECT id, project_id, title, content, chapter_order, word_count
		FROM chapters WHERE project_id = $1 ORDER BY chapter_order ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *ChapterRepo) Delete(ctx context.Context, projectID, chapterID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM chapters WHERE project_id = $1 AND id = $2`, projectID, chapterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrChapterNotFound
	}
	return nil
}
