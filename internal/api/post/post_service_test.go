package post

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rfcarvalho/go-blog-backend/app/observability/metrics"
	"github.com/rfcarvalho/go-blog-backend/internal/types"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// MockPostRepo is a mock implementation of the PostRepo interface
type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) CreatePost(ctx context.Context, authorID string, params PostParams) (*types.Post, error) {
	args := m.Called(ctx, authorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) GetPosts(ctx context.Context) ([]types.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func (m *MockPostRepo) GetPost(ctx context.Context, postID string) (*types.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) UpdatePost(ctx context.Context, postID string, params PostParams) (*types.Post, error) {
	args := m.Called(ctx, postID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) DeletePost(ctx context.Context, postID string) (*types.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func TestListCaching(t *testing.T) {
	mockRepo := new(MockPostRepo)
	service := NewPostService(mockRepo, slog.Default())
	ctx := context.Background()

	posts := []types.Post{{ID: "post-1", Title: "Hello", AuthorID: "user-1"}}
	mockRepo.On("GetPosts", ctx).Return(posts, nil).Once()

	// First call hits the repository, second is served from cache.
	got, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, posts, got)

	got, err = service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, posts, got)

	mockRepo.AssertExpectations(t)
}

func TestCreateInvalidatesListCache(t *testing.T) {
	mockRepo := new(MockPostRepo)
	service := NewPostService(mockRepo, slog.Default())
	ctx := context.Background()

	params := PostParams{Title: "Hello", Content: "World", Author: "alice"}
	created := &types.Post{ID: "post-1", Title: "Hello", AuthorID: "user-1"}

	mockRepo.On("GetPosts", ctx).Return([]types.Post{}, nil).Twice()
	mockRepo.On("CreatePost", ctx, "user-1", params).Return(created, nil).Once()

	_, err := service.List(ctx)
	require.NoError(t, err)

	post, err := service.Create(ctx, "user-1", params)
	require.NoError(t, err)
	assert.Equal(t, created, post)

	// The cached list was dropped, so this goes back to the repository.
	_, err = service.List(ctx)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	mockRepo := new(MockPostRepo)
	service := NewPostService(mockRepo, slog.Default())
	ctx := context.Background()

	t.Run("CachedAfterFirstRead", func(t *testing.T) {
		stored := &types.Post{ID: "post-1", Title: "Hello", AuthorID: "user-1"}
		mockRepo.On("GetPost", ctx, "post-1").Return(stored, nil).Once()

		for i := 0; i < 2; i++ {
			post, err := service.Get(ctx, "post-1")
			require.NoError(t, err)
			assert.Equal(t, stored, post)
		}
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo.On("GetPost", ctx, "missing").Return(nil, types.ErrNotFound).Once()

		post, err := service.Get(ctx, "missing")

		assert.Nil(t, post)
		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestUpdateOwnership(t *testing.T) {
	ctx := context.Background()
	params := PostParams{Title: "New", Content: "Body", Author: "alice"}

	t.Run("OwnerCanUpdate", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		stored := &types.Post{ID: "post-1", AuthorID: "user-1"}
		updated := &types.Post{ID: "post-1", Title: "New", AuthorID: "user-1"}

		mockRepo.On("GetPost", ctx, "post-1").Return(stored, nil).Once()
		mockRepo.On("UpdatePost", ctx, "post-1", params).Return(updated, nil).Once()

		post, err := service.Update(ctx, "user-1", "post-1", params)

		require.NoError(t, err)
		assert.Equal(t, updated, post)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		stored := &types.Post{ID: "post-1", AuthorID: "user-1"}
		mockRepo.On("GetPost", ctx, "post-1").Return(stored, nil).Once()

		post, err := service.Update(ctx, "user-2", "post-1", params)

		assert.Nil(t, post)
		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingPost", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		mockRepo.On("GetPost", ctx, "missing").Return(nil, types.ErrNotFound).Once()

		_, err := service.Update(ctx, "user-1", "missing", params)

		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeleteOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCanDelete", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		stored := &types.Post{ID: "post-1", AuthorID: "user-1"}
		mockRepo.On("GetPost", ctx, "post-1").Return(stored, nil).Once()
		mockRepo.On("DeletePost", ctx, "post-1").Return(stored, nil).Once()

		post, err := service.Delete(ctx, "user-1", "post-1")

		require.NoError(t, err)
		assert.Equal(t, stored, post)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		stored := &types.Post{ID: "post-1", AuthorID: "user-1"}
		mockRepo.On("GetPost", ctx, "post-1").Return(stored, nil).Once()

		post, err := service.Delete(ctx, "user-2", "post-1")

		assert.Nil(t, post)
		assert.ErrorIs(t, err, types.ErrForbidden)
		mockRepo.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}
