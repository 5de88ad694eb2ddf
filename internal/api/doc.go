// Package api provides the JSON HTTP API for the UI generation service.
//
// Endpoints:
//
//	POST /api/generate                          run the create pipeline
//	POST /api/modify                            run the modify pipeline
//	GET  /api/versions/{sessionId}              list version summaries
//	GET  /api/version/{sessionId}/{versionId}   fetch a full version
//	POST /api/rollback                          restore a prior version as a new one
//	GET  /api/health                            liveness and key status
//
// Middleware stack (outermost first):
//
//	Recovery → Logging → CORS → RateLimit → Routes
//
// File structure:
//   - server.go: server setup and lifecycle
//   - middleware.go: recovery, logging, CORS
//   - ratelimit.go: per-IP token bucket limiting
//   - pipeline.go: generate and modify endpoints
//   - versions.go: version history and rollback endpoints
//   - health.go: health check endpoint
//   - response.go: JSON response helpers
package api
