// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides request logging, CORS, and JSON helpers
shared by every handler.

JSONResponse and ErrorResponse standardize response encoding;
ParseJSONBody decodes request bodies. CORS admits browser clients from
any origin, including the X-Host-Key and X-Admin-Key capability
headers.
*/
package middleware
