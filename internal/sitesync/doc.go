// Package sitesync keeps a local collection of sites consistent with an
// authoritative backend.
//
// Three paths write to the collection:
//
//   - full resync: Coordinator.FullResyncSites fetches every site and commits
//     the sanitized list. Concurrent callers share one fetch.
//   - push events: bulk-sync events replace the collection, update/delete
//     events and status updates for unknown sites trigger a full resync, and
//     status updates for known sites replace that one site.
//   - mutation acknowledgments: Operations applies the site returned by the
//     backend by identifier, without a follow-up resync.
//
// The collection lives in a Store. Components never hold it; they receive a
// Getter and a Setter, and every write replaces the whole slice. The last
// write for a given identifier wins.
package sitesync
