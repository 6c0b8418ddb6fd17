package main

import (
	"github.com/gorilla/mux"

	"blog/pkg/middleware"
	"blog/pkg/post"
)

func newRouter(postHandler *post.PostHandler, logMiddleware *middleware.LoggingMiddleware) *mux.Router {
	r := mux.NewRouter()

	// An empty post_id means "the latest post".
	r.HandleFunc("/getpost/{post_id:.*}", postHandler.Get).Methods("GET")
	r.HandleFunc("/getpost", postHandler.Get).Methods("GET")
	r.HandleFunc("/getposts/", postHandler.List).Methods("GET")
	r.HandleFunc("/", postHandler.Index).Methods("GET")

	r.Use(logMiddleware.SetupTracing)
	r.Use(logMiddleware.SetupLogging)
	r.Use(logMiddleware.AccessLog)
	r.Use(logMiddleware.Recover)

	return r
}
