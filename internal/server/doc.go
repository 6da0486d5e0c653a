// Package server provides HTTP routing, middleware, and the web API for the
// deadline sync service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. [LoggingMiddleware] and
// [RecoveryMiddleware] cover the ambient concerns of every endpoint.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering.
//
// # API Handler
//
// [APIHandler] serves the sync API: course and assignment reads, settings
// mutations (hide, keys), space-tree refresh, and the generation endpoint.
//
// POST /api/generate accepts one JSON generation request and streams the
// engine's progress events back as Server-Sent Events. Each event is one
// JSON record; the stream ends after the terminal done or processEnd event.
// Events arrive in the order the engine emitted them.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the ClickUp OAuth2 authorization code callback.
// The handler validates the state parameter, exchanges the authorization code
// for a token, and sends the result through a channel. It only processes one
// callback. The auth command starts a temporary server with this handler,
// waits for the token, and shuts the server down.
package server
