// Package models defines the core domain types for the asset registry.
//
// # Entities
//
//   - Committee: the organizational sub-unit every asset and operator
//     belongs to. Committees are the rows the reconciler deduplicates.
//   - User: an account that can log in. ADMIN users see every committee;
//     OPERATOR users are pinned to exactly one.
//   - Asset: a registered physical asset, always owned by a committee.
//   - Movement: an append-only audit entry for asset lifecycle events.
//
// # Design principles
//
//  1. Closed enumerations: roles and asset statuses are typed constants,
//     not free strings, so invalid values are rejected at the edges.
//  2. Explicit record types per query result; no dynamic row maps.
//  3. Relationships use ids, not pointers, to avoid circular references.
package models
