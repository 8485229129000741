package server

import (
	"net/http"
)

var (
	_ Router  = (*BasicRouter)(nil)
	_ Handler = (*OAuthHandler)(nil)
)

// Middleware decorates an [http.Handler].
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it answers.
// [BasicRouter.Handler] mounts each path for every method.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router mounts handlers behind a shared middleware stack.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
}
