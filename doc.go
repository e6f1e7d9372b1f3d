// Package main provides the entry point of the HRMS API server.
// It serves a JSON API built on fiber for staff records and documents, guarded by a
// role based access control layer with tenant scoping. Data is persisted with gorm in
// MySQL, PostgreSQL or SQLite; document content lives on the local filesystem or in
// S3 compatible buckets.
package main
