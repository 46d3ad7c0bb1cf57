package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/rfcarvalho/go-blog-backend/app/observability/metrics"
	"github.com/rfcarvalho/go-blog-backend/internal/types"
)

var _ PostRepo = (*PostgresPostRepo)(nil)

// PostRepo defines the contract for post persistence.
type PostRepo interface {
	CreatePost(ctx context.Context, authorID string, params PostParams) (*types.Post, error)
	GetPosts(ctx context.Context) ([]types.Post, error)
	// GetPost returns types.ErrNotFound when the id does not exist.
	GetPost(ctx context.Context, postID string) (*types.Post, error)
	UpdatePost(ctx context.Context, postID string, params PostParams) (*types.Post, error)
	DeletePost(ctx context.Context, postID string) (*types.Post, error)
}

// DB is the subset of pgxpool.Pool the repository uses. pgxmock satisfies it
// in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresPostRepo struct {
	logger *slog.Logger
	db     DB
}

func NewPostgresPostRepo(db DB, logger *slog.Logger) *PostgresPostRepo {
	return &PostgresPostRepo{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresPostRepo) CreatePost(ctx context.Context, authorID string, params PostParams) (*types.Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "CreatePost", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	start := time.Now()
	var post types.Post
	err := r.db.QueryRow(ctx,
		`INSERT INTO posts (title, content, author, author_id)
         VALUES ($1, $2, $3, $4)
         RETURNING id, title, content, author, author_id, created_at, updated_at`,
		params.Title, params.Content, params.Author, authorID).Scan(
		&post.ID, &post.Title, &post.Content, &post.Author, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("create post: db insert failed: %w", err)
	}

	return &post, nil
}

func (r *PostgresPostRepo) GetPosts(ctx context.Context) ([]types.Post, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, author, author_id, created_at, updated_at
         FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("get posts: query failed: %w", err)
	}
	defer rows.Close()

	posts := make([]types.Post, 0)
	for rows.Next() {
		var post types.Post
		err = rows.Scan(&post.ID, &post.Title, &post.Content, &post.Author,
			&post.AuthorID, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("get posts: row scan failed: %w", err)
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("get posts: rows iteration failed: %w", err)
	}

	return posts, nil
}

func (r *PostgresPostRepo) GetPost(ctx context.Context, postID string) (*types.Post, error) {
	var post types.Post
	err := r.db.QueryRow(ctx,
		`SELECT id, title, content, author, author_id, created_at, updated_at
         FROM posts WHERE id = $1`,
		postID).Scan(
		&post.ID, &post.Title, &post.Content, &post.Author, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post %q: %w", postID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: query failed: %w", err)
	}

	return &post, nil
}

func (r *PostgresPostRepo) UpdatePost(ctx context.Context, postID string, params PostParams) (*types.Post, error) {
	var post types.Post
	err := r.db.QueryRow(ctx,
		`UPDATE posts SET title = $1, content = $2, author = $3, updated_at = now()
         WHERE id = $4
         RETURNING id, title, content, author, author_id, created_at, updated_at`,
		params.Title, params.Content, params.Author, postID).Scan(
		&post.ID, &post.Title, &post.Content, &post.Author, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post %q: %w", postID, types.ErrNotFound)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("update post: db update failed: %w", err)
	}

	return &post, nil
}

func (r *PostgresPostRepo) DeletePost(ctx context.Context, postID string) (*types.Post, error) {
	var post types.Post
	err := r.db.QueryRow(ctx,
		`DELETE FROM posts WHERE id = $1
         RETURNING id, title, content, author, author_id, created_at, updated_at`,
		postID).Scan(
		&post.ID, &post.Title, &post.Content, &post.Author, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post %q: %w", postID, types.ErrNotFound)
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("delete post: db delete failed: %w", err)
	}

	return &post, nil
}
