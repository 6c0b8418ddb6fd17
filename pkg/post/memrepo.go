package post

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemRepo keeps posts in process memory, in insertion order.
type MemRepo struct {
	mu    sync.RWMutex
	posts map[PostId]*Post
	order []PostId
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		posts: make(map[PostId]*Post),
	}
}

func (r *MemRepo) Add(ctx context.Context, p *Post) (PostId, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	stored.Id = PostId(uuid.NewString())
	if p.Date != nil {
		day := dayOf(*p.Date)
		stored.Date = &day
	}
	r.posts[stored.Id] = &stored
	r.order = append(r.order, stored.Id)

	p.Id = stored.Id
	return stored.Id, nil
}

func (r *MemRepo) GetById(ctx context.Context, id PostId) (*Post, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemRepo) GetLatest(ctx context.Context) (*Post, error) {
	posts, _ := r.GetAll(ctx, false)
	return latestOf(posts)
}

func (r *MemRepo) GetAll(ctx context.Context, byDateDesc bool) ([]*Post, error) {
	r.mu.RLock()
	posts := make([]*Post, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.posts[id]
		posts = append(posts, &cp)
	}
	r.mu.RUnlock()

	if byDateDesc {
		SortByDateDesc(posts)
	}
	return posts, nil
}
