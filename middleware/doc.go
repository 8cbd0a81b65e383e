// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

  - WithLogging: slog request/completion logging
  - JSONResponse / ErrorResponse: JSON output helpers
  - ParseJSONBody: request body decoding
  - UserID: reads the X-User-ID principal header
  - CORS: cross-origin support with preflight handling
*/
package middleware
