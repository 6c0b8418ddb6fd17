package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jaswdr/faker"

	"blog/pkg/post"
)

var f = faker.New()

type postAdder interface {
	Add(context.Context, *post.Post) (post.PostId, error)
}

// seed fills the store with n fake posts. Optional fields are left empty at
// random so that the pages show every shape a post can take.
func seed(ctx context.Context, repo postAdder, n int) error {
	for i := 0; i < n; i++ {
		if _, err := repo.Add(ctx, genPost()); err != nil {
			return fmt.Errorf("seed: can't add post: %w", err)
		}
	}
	return nil
}

func genPost() *post.Post {
	p := &post.Post{
		// One in four gets a code with no label.
		Category: post.Category(rand.Intn(4)),
	}
	if rand.Intn(5) > 0 {
		d := f.Time().Time(time.Now())
		p.Date = post.Date(d.Year(), d.Month(), d.Day())
	}
	if rand.Intn(5) > 0 {
		p.Title = textPtr(genTitle())
	}
	if rand.Intn(2) == 0 {
		p.Image = textPtr(f.Internet().URL())
	}
	for _, body := range []**string{&p.En, &p.Pl, &p.Pt} {
		if rand.Intn(3) > 0 {
			*body = textPtr(genText())
		}
	}
	return p
}

func genTitle() string {
	return strings.Join(f.Lorem().Words(rand.Intn(5)+3), " ")
}

func genText() string {
	return f.Lorem().Paragraph(rand.Intn(3) + 2)
}

func textPtr(s string) *string {
	return &s
}
