// Package propagation drains the entity changelog: it resolves each recorded
// change to the set of scenes it invalidates and enqueues exactly the
// regeneration work needed.
//
// The dependency graph is declared as per-entity hop chains interpreted by a
// generic traversal rather than hand-written join branches; adding a tracked
// entity kind means adding one edge list entry. The Engine claims batches of
// pending changes under a lease, resolves and completes each one in its own
// transaction, and never blocks on entries held by a concurrent worker.
package propagation
