// Package store persists the production catalog, the entity changelog, and
// the scene regeneration queue in SQLite.
//
// The Store manages database connections, schema initialization, catalog
// writes, lease-based claiming of pending changelog entries, and the
// transactional resolve-and-complete step that enqueues regeneration jobs.
// The regeneration queue enforces at most one queued job per scene and scope,
// both by an explicit check and by a partial unique index, so a crash between
// job writes and status flips cannot double-queue work.
//
// Treat this package as the single source of truth for changelog and queue
// semantics; when you add tables or statuses, update schema.sql and bump
// schemaVersion.
package store
