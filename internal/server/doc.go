// Package server provides HTTP routing, middleware, and the JSON API for the
// local download front-end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # API Handler
//
// [API] implements the [Handler] interface and serves the browser-facing
// endpoints: playlist resolution, batch submission, status polling, and log
// draining. Submission is asynchronous; a 202 response only means the batch
// was accepted, and the page polls /status and /logs to follow progress.
//
// The handler holds no download state of its own. The tracker and log buffer
// are owned by the batch engine's collaborators, so the API stays a thin
// translation layer between HTTP and the pipeline.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
