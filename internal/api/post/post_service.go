package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/rfcarvalho/go-blog-backend/internal/types"
)

const postsListCacheKey = "posts:list"

var _ PostService = (*PostServiceImpl)(nil)

// PostService defines the interface for post operations. Mutating operations
// take the verified requester id so ownership can be enforced.
type PostService interface {
	Create(ctx context.Context, authorID string, params PostParams) (*types.Post, error)
	List(ctx context.Context) ([]types.Post, error)
	Get(ctx context.Context, postID string) (*types.Post, error)
	// Update returns types.ErrForbidden when the requester does not own the post.
	Update(ctx context.Context, requesterID, postID string, params PostParams) (*types.Post, error)
	// Delete returns types.ErrForbidden when the requester does not own the post.
	Delete(ctx context.Context, requesterID, postID string) (*types.Post, error)
}

// PostServiceImpl implements the PostService interface with a short-lived
// in-process read cache in front of the repository.
type PostServiceImpl struct {
	logger *slog.Logger
	repo   PostRepo
	cache  *cache.Cache
}

func NewPostService(repo PostRepo, logger *slog.Logger) *PostServiceImpl {
	return &PostServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(30*time.Second, 5*time.Minute),
	}
}

func (s *PostServiceImpl) Create(ctx context.Context, authorID string, params PostParams) (*types.Post, error) {
	post, err := s.repo.CreatePost(ctx, authorID, params)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(postsListCacheKey)
	return post, nil
}

func (s *PostServiceImpl) List(ctx context.Context) ([]types.Post, error) {
	if cached, found := s.cache.Get(postsListCacheKey); found {
		if posts, ok := cached.([]types.Post); ok {
			return posts, nil
		}
	}

	posts, err := s.repo.GetPosts(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(postsListCacheKey, posts, cache.DefaultExpiration)
	return posts, nil
}

func (s *PostServiceImpl) Get(ctx context.Context, postID string) (*types.Post, error) {
	key := "post:" + postID
	if cached, found := s.cache.Get(key); found {
		if post, ok := cached.(*types.Post); ok {
			return post, nil
		}
	}

	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, post, cache.DefaultExpiration)
	return post, nil
}

func (s *PostServiceImpl) Update(ctx context.Context, requesterID, postID string, params PostParams) (*types.Post, error) {
	if err := s.checkOwnership(ctx, requesterID, postID); err != nil {
		return nil, err
	}

	post, err := s.repo.UpdatePost(ctx, postID, params)
	if err != nil {
		return nil, err
	}

	s.invalidate(postID)
	return post, nil
}

func (s *PostServiceImpl) Delete(ctx context.Context, requesterID, postID string) (*types.Post, error) {
	if err := s.checkOwnership(ctx, requesterID, postID); err != nil {
		return nil, err
	}

	post, err := s.repo.DeletePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.invalidate(postID)
	return post, nil
}

// checkOwnership fetches the current row and compares its author id against
// the requester. The fetch bypasses the cache so a stale entry can never
// authorize a mutation.
func (s *PostServiceImpl) checkOwnership(ctx context.Context, requesterID, postID string) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		s.logger.WarnContext(ctx, "Post mutation rejected, requester is not the author",
			slog.String("postID", postID))
		return fmt.Errorf("post %q does not belong to requester: %w", postID, types.ErrForbidden)
	}
	return nil
}

func (s *PostServiceImpl) invalidate(postID string) {
	s.cache.Delete(postsListCacheKey)
	s.cache.Delete("post:" + postID)
}
