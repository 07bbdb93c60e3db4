// Package catalog provides the installed-apps registry.
//
// The catalog stores application manifests that feed the dock's icon row
// and the window manager's launch defaults. It is seeded at startup with
// the built-in apps and can load additional manifests from a directory of
// JSON files.
//
// Components:
//   - Manager: manifest CRUD with a read-through store cache
//   - Seeder: built-in definitions plus on-disk manifest loading
//
// Storage Structure:
//   - Manifests persisted as JSON documents in the "catalog" collection
//   - Extra manifests loaded from {data}/apps/*.json
package catalog
