// Package server provides HTTP routing, middleware, and the request handlers
// for the tastify web service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally, relying on
// its method and wildcard patterns (e.g. "GET /user/{id}").
//
// # Handlers
//
// Three handlers cover the service surface:
//   - [AuthHandler] : authorization URL, OAuth callback, and token retrieval
//   - [UsersHandler] : user profile CRUD and preference attachment
//   - [SpotifyHandler] : upstream catalog queries (top items, track search, listening stats)
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Serving
//
// [App] assembles the router, middleware stack, and handlers into an
// [http.Server] with graceful shutdown.
package server
