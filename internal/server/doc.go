// Package server exposes the editorial services as a JSON API.
//
// # Routing
//
// [BasicRouter] registers Go method patterns ("GET /contents/{id}") on an [http.ServeMux]
// and wraps every route with the registered [Middleware], last added innermost.
// Resource handlers implement [Handler] and return their [Route] table.
//
// # Middleware
//
//   - [Logging] writes one structured line per request
//   - [Instrument] feeds the request counter and latency histogram in the metrics package
//   - [RateLimiter] keeps a token bucket per client IP and answers 429 when it runs dry
//
// # Errors
//
// Service errors are mapped by sentinel: validation and bad input give 400, not found 404,
// conflicts 409 and anything else 500 with a generic message. Bodies are {"error": "..."}.
package server
