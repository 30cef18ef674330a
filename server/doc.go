// Package server exposes cryptokit over HTTP using Gin, with h2c so the
// same port accepts HTTP/2 cleartext.
//
// Routes:
//
//	POST /v1/encrypt        {salt, plaintext}        -> {data:{ciphertext}}
//	POST /v1/decrypt        {salt, ciphertext}       -> {data:{plaintext}}
//	POST /v1/tokens         {salt, data, ttl_seconds} -> {data:{token, expires_at}}
//	POST /v1/tokens/verify  {salt, data, token}      -> {data:{result}}
//	GET  /health
//	GET  /version
//
// Failures use the errors.ErrorResponse envelope. Token verification
// always answers 200; the outcome is in result.
//
// Middleware (server/middleware): panic recovery, request ids, tracing
// spans, CORS, body size limit, request logging, and a per-IP rate limit
// on token verification.
package server
