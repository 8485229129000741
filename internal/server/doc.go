// Package server provides HTTP routing, middleware, and the OAuth callback handler used by
// `studio drive auth`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] added first wraps outermost, so it sees the request before the rest of the stack.
// [RequestLogger] is the only middleware shipped.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the Google authorization code callback.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code through a
// [TokenExchanger], and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// When the user runs `studio drive auth`, a temporary HTTP server starts on the configured host and port,
// handles the callback, and shuts down after receiving the token.
package server
