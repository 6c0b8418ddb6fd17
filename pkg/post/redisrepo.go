package post

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
)

const (
	redisPostsKey  = "posts"
	redisPostKeyNS = "post:"
)

type IRedisPool interface {
	GetContext(ctx context.Context) (redis.Conn, error)
}

// RedisRepo stores every post as a hash under post:<id> and keeps the
// insertion order of ids in the posts list. Ids are UUIDs.
type RedisRepo struct {
	pool IRedisPool
}

func NewRedisRepo(pool IRedisPool) *RedisRepo {
	return &RedisRepo{
		pool: pool,
	}
}

// NewRedisPool dials addr (a redis:// URL) lazily for every new connection.
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     8,
		IdleTimeout: 4 * time.Minute,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(addr)
		},
	}
}

func (r *RedisRepo) Add(ctx context.Context, p *Post) (PostId, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return PostId(``), fmt.Errorf("post/redisrepo: can't get connection: %w", err)
	}
	defer conn.Close()

	id := uuid.NewString()
	args := redis.Args{}.Add(redisPostKeyNS+id).Add("category", int64(p.Category))
	if p.Date != nil {
		args = args.Add("date", dayOf(*p.Date).Format(dateLayout))
	}
	for _, f := range []struct {
		name string
		val  *string
	}{{"image", p.Image}, {"title", p.Title}, {"en", p.En}, {"pl", p.Pl}, {"pt", p.Pt}} {
		if f.val != nil {
			args = args.Add(f.name, *f.val)
		}
	}

	if _, err := conn.Do("HSET", args...); err != nil {
		return PostId(``), fmt.Errorf("post/redisrepo: failed HSET post: %w", err)
	}
	if _, err := conn.Do("RPUSH", redisPostsKey, id); err != nil {
		return PostId(``), fmt.Errorf("post/redisrepo: failed RPUSH post id: %w", err)
	}

	p.Id = PostId(id)
	return p.Id, nil
}

func (r *RedisRepo) GetById(ctx context.Context, id PostId) (*Post, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return nil, ErrNotFound
	}

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("post/redisrepo: can't get connection: %w", err)
	}
	defer conn.Close()

	fields, err := redis.StringMap(conn.Do("HGETALL", redisPostKeyNS+string(id)))
	if err != nil {
		return nil, fmt.Errorf("post/redisrepo: failed HGETALL post: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return decodeRedisPost(id, fields)
}

func (r *RedisRepo) GetLatest(ctx context.Context) (*Post, error) {
	posts, err := r.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return latestOf(posts)
}

func (r *RedisRepo) GetAll(ctx context.Context, byDateDesc bool) ([]*Post, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("post/redisrepo: can't get connection: %w", err)
	}
	defer conn.Close()

	ids, err := redis.Strings(conn.Do("LRANGE", redisPostsKey, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("post/redisrepo: failed LRANGE post ids: %w", err)
	}

	// Pipeline the hash reads: one round trip for the whole list.
	for _, id := range ids {
		if err := conn.Send("HGETALL", redisPostKeyNS+id); err != nil {
			return nil, fmt.Errorf("post/redisrepo: failed queueing HGETALL: %w", err)
		}
	}
	if err := conn.Flush(); err != nil {
		return nil, fmt.Errorf("post/redisrepo: failed flushing pipeline: %w", err)
	}

	posts := make([]*Post, 0, len(ids))
	for _, id := range ids {
		fields, err := redis.StringMap(conn.Receive())
		if err != nil {
			return nil, fmt.Errorf("post/redisrepo: failed HGETALL post %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		p, err := decodeRedisPost(PostId(id), fields)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if byDateDesc {
		SortByDateDesc(posts)
	}
	return posts, nil
}

func decodeRedisPost(id PostId, fields map[string]string) (*Post, error) {
	p := &Post{Id: id}

	if raw, ok := fields["date"]; ok {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("post/redisrepo: bad date %q in post %s: %w", raw, id, err)
		}
		p.Date = &d
	}
	if raw, ok := fields["category"]; ok {
		c, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("post/redisrepo: bad category %q in post %s: %w", raw, id, err)
		}
		p.Category = Category(c)
	}

	opt := func(name string) *string {
		if v, ok := fields[name]; ok {
			return &v
		}
		return nil
	}
	p.Image = opt("image")
	p.Title = opt("title")
	p.En = opt("en")
	p.Pl = opt("pl")
	p.Pt = opt("pt")
	return p, nil
}
