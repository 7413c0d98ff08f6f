package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/storyforge/internal/core/domain"
	"github.com/vietddude/storyforge/internal/infra/storage"
)

type ProjectRepo struct {
	db *DB
}

func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// projectRow maps the projects table. Characters and plot are stored as
// JSONB documents; chapters live in their own table.
type projectRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Characters  []byte    `db:"characters"`
	Plot        []byte    `db:"plot"`
	Synopsis    string    `db:"synopsis"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *ProjectRepo) Save(ctx context.Context, p *domain.Project) error {
	characters, err := json.Marshal(p.Characters)
	if err != nil {
		return fmt.Errorf("marshal characters: %w", err)
	}

	var plot []byte
	if p.Plot != nil {
		plot, err = json.Marshal(p.Plot)
		if err != nil {
			return fmt.Errorf("marshal plot: %w", err)
		}
	}

	query := `
		INSERT INTO projects (id, title, description, characters, plot, synopsis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			characters = EXCLUDED.characters,
			plot = EXCLUDED.plot,
			synopsis = EXCLUDED.synopsis,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, characters, plot, p.Synopsis, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (*domain.Project, error) {
	var row projectRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, title, description, characters, plot, synopsis, created_at, updated_at
		FROM projects WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	chapters, err := NewChapterRepo(r.db).ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Chapters = make([]domain.Chapter, len(chapters))
	for i, c := range chapters {
		p.Chapters[i] = *c
	}
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	var rows []projectRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, title, description, characters, plot, synopsis, created_at, updated_at
		FROM projects ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Project, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrProjectNotFound
	}
	return nil
}

func (row projectRow) toDomain() (*domain.Project, error) {
	p := &domain.Project{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Synopsis:    row.Synopsis,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}

	if len(row.Characters) > 0 {
		if err := json.Unmarshal(row.Characters, &p.Characters); err != nil {
			return nil, fmt.Errorf("unmarshal characters: %w", err)
		}
	}
	if len(row.Plot) > 0 {
		if err := json.Unmarshal(row.Plot, &p.Plot); err != nil {
			return nil, fmt.Errorf("unmarshal plot: %w", err)
		}
	}
	return p, nil
}
