package post

import (
	"errors"
	"regexp"
	"sort"
	"time"
)

type PostId string

// Category is the stored integer tag of a post.
type Category int

const (
	CategoryUnclassified Category = 0
	CategoryThoughts     Category = 1
	CategoryTravel       Category = 2
)

var ErrNotFound = errors.New("post: post not found")

// Post is a stored blog entry. Nil pointers mean the field was never set.
// Date holds a calendar date; only its year, month and day are meaningful.
type Post struct {
	Id       PostId     `json:"id"`
	Date     *time.Time `json:"date"`
	Image    *string    `json:"image"`
	Title    *string    `json:"title"`
	Category Category   `json:"category"`
	En       *string    `json:"en"`
	Pl       *string    `json:"pl"`
	Pt       *string    `json:"pt"`
}

const maxIdLen = 50

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*$`)

// ValidPostId reports whether id is acceptable in a request path:
// dash-separated alphanumeric groups, shorter than 50 characters.
func ValidPostId(id string) bool {
	return len(id) < maxIdLen && idPattern.MatchString(id)
}

// Date returns a calendar date value suitable for Post.Date.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newerThan orders posts by date descending with undated posts last,
// breaking ties by id descending.
func newerThan(a, b *Post) bool {
	switch {
	case a.Date == nil && b.Date == nil:
		return a.Id > b.Id
	case a.Date == nil:
		return false
	case b.Date == nil:
		return true
	}
	da, db := dayOf(*a.Date), dayOf(*b.Date)
	if !da.Equal(db) {
		return da.After(db)
	}
	return a.Id > b.Id
}

// SortByDateDesc sorts posts in place, newest first.
func SortByDateDesc(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return newerThan(posts[i], posts[j])
	})
}

func latestOf(posts []*Post) (*Post, error) {
	var latest *Post
	for _, p := range posts {
		if latest == nil || newerThan(p, latest) {
			latest = p
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}
