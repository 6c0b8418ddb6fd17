package post

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=post

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	. "blog/pkg/common"
	"blog/pkg/logger"
)

const (
	msgInvalidId   = "Invalid ID."
	msgNotFound    = "Post not found."
	msgUnavailable = "Service unavailable."

	DefaultTimeout = 3 * time.Second
)

type IPostRepo interface {
	GetById(context.Context, PostId) (*Post, error)
	GetLatest(context.Context) (*Post, error)
	GetAll(ctx context.Context, byDateDesc bool) ([]*Post, error)
}

type PostHandler struct {
	PostRepo  IPostRepo
	Formatter Formatter
	// Timeout bounds every repo call; an expired call is a backend failure.
	Timeout time.Duration
}

func NewPostHandler(postRepo IPostRepo, formatter Formatter, timeout time.Duration) *PostHandler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PostHandler{
		PostRepo:  postRepo,
		Formatter: formatter,
		Timeout:   timeout,
	}
}

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// Get serves one post. The id comes from the path or, failing that, the
// "id" query parameter; with no id at all the latest post is returned.
func (ph *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postId := mux.Vars(r)["post_id"]
	if postId == "" {
		postId = r.URL.Query().Get("id")
	}
	if postId != "" && !ValidPostId(postId) {
		logger.Log(r.Context()).Infof("rejected malformed post id %q", postId)
		WriteMsg(w, msgInvalidId, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ph.Timeout)
	defer cancel()

	var (
		post *Post
		err  error
	)
	if postId == "" {
		post, err = ph.PostRepo.GetLatest(ctx)
	} else {
		post, err = ph.PostRepo.GetById(ctx, PostId(postId))
	}
	if errors.Is(err, ErrNotFound) {
		WriteMsg(w, msgNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get post %q from the repo: %v", postId, err)
		WriteMsg(w, msgUnavailable, http.StatusServiceUnavailable)
		return
	}

	WriteData(w, ph.Formatter.Format(post))
}

// List serves every post in storage order.
func (ph *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ph.Timeout)
	defer cancel()

	posts, err := ph.PostRepo.GetAll(ctx, false)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts from the repo: %v", err)
		WriteMsg(w, msgUnavailable, http.StatusServiceUnavailable)
		return
	}

	WriteData(w, ph.Formatter.FormatAll(posts))
}

type indexPage struct {
	Latest *FormattedPost
	Posts  []FormattedPost
}

// Index renders the home page: the latest post in full and every post,
// newest first.
func (ph *PostHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ph.Timeout)
	defer cancel()

	page := indexPage{}

	latest, err := ph.PostRepo.GetLatest(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		logger.Log(r.Context()).Errorf("can't get the latest post from the repo: %v", err)
		http.Error(w, msgUnavailable, http.StatusServiceUnavailable)
		return
	default:
		fp := ph.Formatter.Format(latest)
		page.Latest = &fp
	}

	posts, err := ph.PostRepo.GetAll(ctx, true)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts from the repo: %v", err)
		http.Error(w, msgUnavailable, http.StatusServiceUnavailable)
		return
	}
	page.Posts = ph.Formatter.FormatAll(posts)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, page); err != nil {
		logger.Log(r.Context()).Errorf("can't render the index page: %v", err)
	}
}
