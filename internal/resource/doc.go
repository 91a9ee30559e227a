// Package resource implements the create/read/update/delete shape shared by
// the plain data entities: a generic Repository with MongoDB and in-memory
// implementations, and a chi handler that exposes it over HTTP.
//
// Entities embed Base (and SoftDelete when removal should only hide the
// document). Uniqueness constraints are declared once with Unique and are
// enforced by a unique index in MongoDB and by a scan in memory; a violation
// surfaces as a validation error so the API answers 400.
package resource
