package post

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the handful of commands RedisRepo issues.
type fakeRedis struct {
	hashes map[string]map[string]string
	lists  map[string][]string
	queued [][]interface{}
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		hashes: map[string]map[string]string{},
		lists:  map[string][]string{},
	}
}

func (f *fakeRedis) Close() error { return nil }
func (f *fakeRedis) Err() error   { return nil }

func (f *fakeRedis) Do(cmd string, args ...interface{}) (interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	strArgs := make([]string, len(args))
	for i, a := range args {
		strArgs[i] = fmt.Sprint(a)
	}

	switch cmd {
	case "HSET":
		h, ok := f.hashes[strArgs[0]]
		if !ok {
			h = map[string]string{}
			f.hashes[strArgs[0]] = h
		}
		for i := 1; i+1 < len(strArgs); i += 2 {
			h[strArgs[i]] = strArgs[i+1]
		}
		return int64(len(strArgs) / 2), nil
	case "HGETALL":
		reply := []interface{}{}
		for k, v := range f.hashes[strArgs[0]] {
			reply = append(reply, []byte(k), []byte(v))
		}
		return reply, nil
	case "RPUSH":
		f.lists[strArgs[0]] = append(f.lists[strArgs[0]], strArgs[1:]...)
		return int64(len(f.lists[strArgs[0]])), nil
	case "LRANGE":
		reply := []interface{}{}
		for _, v := range f.lists[strArgs[0]] {
			reply = append(reply, []byte(v))
		}
		return reply, nil
	}
	return nil, fmt.Errorf("unsupported command %s", cmd)
}

func (f *fakeRedis) Send(cmd string, args ...interface{}) error {
	f.queued = append(f.queued, append([]interface{}{cmd}, args...))
	return nil
}

func (f *fakeRedis) Flush() error { return nil }

func (f *fakeRedis) Receive() (interface{}, error) {
	if len(f.queued) == 0 {
		return nil, fmt.Errorf("nothing queued")
	}
	next := f.queued[0]
	f.queued = f.queued[1:]
	return f.Do(next[0].(string), next[1:]...)
}

type fakeRedisPool struct {
	conn redis.Conn
	err  error
}

func (p *fakeRedisPool) GetContext(ctx context.Context) (redis.Conn, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.conn, nil
}

func TestRedisRepoAddAndGet(t *testing.T) {
	ctx := context.Background()
	store := newFakeRedis()
	repo := NewRedisRepo(&fakeRedisPool{conn: store})

	p := &Post{
		Date:     Date(2016, time.May, 12),
		Title:    strPtr("hello"),
		Category: CategoryTravel,
		Pl:       strPtr("cześć"),
	}
	id, err := repo.Add(ctx, p)
	require.NoError(t, err)
	assert.True(t, ValidPostId(string(id)))
	assert.Equal(t, []string{string(id)}, store.lists[redisPostsKey])
	assert.Equal(t, map[string]string{
		"category": "2",
		"date":     "2016-05-12",
		"title":    "hello",
		"pl":       "cześć",
	}, store.hashes[redisPostKeyNS+string(id)])

	got, err := repo.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetById(ctx, PostId("3f2b8f0e-5a4e-4c1a-9a63-5a1c2d3e4f50"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non uuid id", func(t *testing.T) {
		_, err := repo.GetById(ctx, PostId("abc-123"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRedisRepoGetAll(t *testing.T) {
	ctx := context.Background()
	store := newFakeRedis()
	repo := NewRedisRepo(&fakeRedisPool{conn: store})

	t.Run("empty", func(t *testing.T) {
		posts, err := repo.GetAll(ctx, false)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)

		_, err = repo.GetLatest(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	old, err := repo.Add(ctx, &Post{Date: Date(2015, time.January, 1), Title: strPtr("old")})
	require.NoError(t, err)
	undated, err := repo.Add(ctx, &Post{Title: strPtr("undated")})
	require.NoError(t, err)
	recent, err := repo.Add(ctx, &Post{Date: Date(2020, time.March, 3), Title: strPtr("recent")})
	require.NoError(t, err)

	t.Run("storage order", func(t *testing.T) {
		posts, err := repo.GetAll(ctx, false)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, []PostId{old, undated, recent}, []PostId{posts[0].Id, posts[1].Id, posts[2].Id})
	})

	t.Run("newest first", func(t *testing.T) {
		posts, err := repo.GetAll(ctx, true)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, []PostId{recent, old, undated}, []PostId{posts[0].Id, posts[1].Id, posts[2].Id})
	})

	t.Run("latest", func(t *testing.T) {
		latest, err := repo.GetLatest(ctx)
		require.NoError(t, err)
		assert.Equal(t, recent, latest.Id)
	})

	t.Run("dangling id is skipped", func(t *testing.T) {
		store.lists[redisPostsKey] = append(store.lists[redisPostsKey], "8d1c6e2a-0b7f-4d3e-a1c2-b3d4e5f60718")
		posts, err := repo.GetAll(ctx, false)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("corrupt hash", func(t *testing.T) {
		store.hashes[redisPostKeyNS+string(old)]["date"] = "yesterday"
		_, err := repo.GetAll(ctx, false)
		assert.Error(t, err)
	})
}

func TestRedisRepoBackendErrors(t *testing.T) {
	ctx := context.Background()
	id := PostId("3f2b8f0e-5a4e-4c1a-9a63-5a1c2d3e4f50")

	t.Run("no connection", func(t *testing.T) {
		expectedErr := fmt.Errorf("dial tcp: connection refused")
		repo := NewRedisRepo(&fakeRedisPool{err: expectedErr})

		_, err := repo.GetById(ctx, id)
		assert.ErrorIs(t, err, expectedErr)
		_, err = repo.GetAll(ctx, false)
		assert.ErrorIs(t, err, expectedErr)
		_, err = repo.GetLatest(ctx)
		assert.ErrorIs(t, err, expectedErr)
		_, err = repo.Add(ctx, &Post{})
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("command fails", func(t *testing.T) {
		expectedErr := fmt.Errorf("LOADING Redis is loading the dataset in memory")
		store := newFakeRedis()
		store.err = expectedErr
		repo := NewRedisRepo(&fakeRedisPool{conn: store})

		_, err := repo.GetById(ctx, id)
		assert.ErrorIs(t, err, expectedErr)
		assert.NotErrorIs(t, err, ErrNotFound)
		_, err = repo.GetAll(ctx, false)
		assert.ErrorIs(t, err, expectedErr)
	})
}
