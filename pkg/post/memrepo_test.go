package post

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemRepo(t *testing.T, posts ...*Post) (*MemRepo, []PostId) {
	repo := NewMemRepo()
	ids := make([]PostId, 0, len(posts))
	for _, p := range posts {
		id, err := repo.Add(context.Background(), p)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return repo, ids
}

func TestMemRepoAddAndGet(t *testing.T) {
	src := &Post{Title: strPtr("First"), Date: Date(2016, time.May, 12), Category: CategoryThoughts}
	repo, ids := newTestMemRepo(t, src)
	ctx := context.Background()

	assert.NotEmpty(t, ids[0])
	assert.True(t, ValidPostId(string(ids[0])))
	assert.Equal(t, ids[0], src.Id)

	got, err := repo.GetById(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "First", *got.Title)
	assert.Equal(t, CategoryThoughts, got.Category)

	// returned posts are copies
	got.Id = "changed"
	again, err := repo.GetById(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], again.Id)
}

func TestMemRepoNotFound(t *testing.T) {
	repo, _ := newTestMemRepo(t, &Post{})
	ctx := context.Background()

	_, err := repo.GetById(ctx, "abc-123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetById(ctx, "6f1c2a4e-8a7b-4c2d-9e3f-0a1b2c3d4e5f")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewMemRepo().GetLatest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemRepoGetAll(t *testing.T) {
	repo, ids := newTestMemRepo(t,
		&Post{Title: strPtr("old"), Date: Date(2015, time.January, 1)},
		&Post{Title: strPtr("undated")},
		&Post{Title: strPtr("new"), Date: Date(2018, time.July, 4)},
	)
	ctx := context.Background()

	unordered, err := repo.GetAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, unordered, 3)
	for i, p := range unordered {
		assert.Equal(t, ids[i], p.Id)
	}

	ordered, err := repo.GetAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, "new", *ordered[0].Title)
	assert.Equal(t, "old", *ordered[1].Title)
	assert.Equal(t, "undated", *ordered[2].Title)

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.Id)

	empty, err := NewMemRepo().GetAll(ctx, false)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}

func TestMemRepoConcurrentReads(t *testing.T) {
	repo, ids := newTestMemRepo(t, &Post{Date: Date(2020, time.February, 2)})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.GetById(ctx, ids[0])
			assert.NoError(t, err)
			assert.Equal(t, ids[0], p.Id)
			_, err = repo.GetAll(ctx, true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
