// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start at debug level (method, path, remote) and completion
(status, size, duration_ms). Every completed request is also counted in
the metrics package under its route pattern.

# CORS Middleware

Enable cross-origin requests for the configured origins:

	handler := middleware.CORS(cfg.AllowedOrigins)(mux)

Backed by github.com/rs/cors. Allows methods GET, POST, PUT, DELETE,
OPTIONS with headers Content-Type and Authorization. An empty origin list
disables CORS entirely.

# Panic Recovery

	handler := middleware.Recover(mux)

A panicking handler is logged with its stack and answered with a 500 and
code "internal".

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "household not found")
	middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
	middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidProfile, "household_size", msg)

Parse JSON request bodies:

	var req models.AccessIndexRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the client IP behind proxies (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
