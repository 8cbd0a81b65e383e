/*
Package cliparse handles configuration from CLI flags and environment variables.

# Configuration Sources

Flags take precedence over environment variables:

	-p / PORT:           server port (default 3000)
	-d / DATABASE_URL:   database connection string (required)
	-t / DATABASE_TYPE:  sqlite or postgres (default sqlite)

A .env file, if present, is loaded by main before parsing.
*/
package cliparse
