// Package routestore persists the URL of the last resolved route so a
// router can restore it on the next start.
//
// A Store keeps one URL per key. The resolver uses DefaultKey unless told
// otherwise. Four backends are provided:
//
//   - Memory: process-local, the default
//   - Redis: shared between server instances (go-redis)
//   - SQL: any database/sql driver (SQLite, PostgreSQL, MySQL)
//   - S3: one object per key in a bucket (aws-sdk-go-v2)
//
// All stores are safe for concurrent use.
package routestore
