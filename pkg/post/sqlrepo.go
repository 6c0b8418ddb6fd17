package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v4/stdlib"
)

const postColumns = "id, date, image, title, category, en, pl, pt"

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	date DATE,
	image TEXT,
	title TEXT,
	category INTEGER NOT NULL DEFAULT 0,
	en TEXT,
	pl TEXT,
	pt TEXT
)`

// SQLRepo stores posts in a PostgreSQL table. Ids are UUIDs.
type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{
		db: db,
	}
}

// Migrate creates the posts table when it does not exist yet.
func (r *SQLRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPostsTable); err != nil {
		return fmt.Errorf("post/sqlrepo: migration failed: %w", err)
	}
	return nil
}

func (r *SQLRepo) Add(ctx context.Context, p *Post) (PostId, error) {
	var date interface{}
	if p.Date != nil {
		date = dayOf(*p.Date)
	}

	row := r.db.QueryRowContext(ctx,
		"INSERT INTO posts(date, image, title, category, en, pl, pt) VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id",
		date, p.Image, p.Title, int64(p.Category), p.En, p.Pl, p.Pt)

	var id string
	if err := row.Scan(&id); err != nil {
		return PostId(``), fmt.Errorf("post/sqlrepo: post wasn't added: %w", err)
	}
	p.Id = PostId(id)
	return p.Id, nil
}

func (r *SQLRepo) GetById(ctx context.Context, id PostId) (*Post, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", string(id))
	return scanOne(row)
}

func (r *SQLRepo) GetLatest(ctx context.Context) (*Post, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY date DESC NULLS LAST, id DESC LIMIT 1")
	return scanOne(row)
}

func (r *SQLRepo) GetAll(ctx context.Context, byDateDesc bool) ([]*Post, error) {
	query := "SELECT " + postColumns + " FROM posts"
	if byDateDesc {
		query += " ORDER BY date DESC NULLS LAST, id DESC"
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("post/sqlrepo: failed executing query for all posts: %w", err)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("post/sqlrepo: failed iterating rows: %w", err)
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOne(row rowScanner) (*Post, error) {
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// scanPost fills the optional fields of a Post from nullable columns.
func scanPost(row rowScanner) (*Post, error) {
	var (
		id       string
		date     sql.NullTime
		category sql.NullInt64

		image, title, en, pl, pt sql.NullString
	)
	if err := row.Scan(&id, &date, &image, &title, &category, &en, &pl, &pt); err != nil {
		return nil, fmt.Errorf("post/sqlrepo: could not scan row: %w", err)
	}

	p := &Post{
		Id:       PostId(id),
		Image:    nullString(image),
		Title:    nullString(title),
		Category: Category(category.Int64),
		En:       nullString(en),
		Pl:       nullString(pl),
		Pt:       nullString(pt),
	}
	if date.Valid {
		day := dayOf(date.Time)
		p.Date = &day
	}
	return p, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
