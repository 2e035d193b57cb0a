// Package ports defines the interfaces (ports) through which the lifecycle
// coordinator and the organization service reach host-provided subsystems.
//
// Ports are the boundaries between the auto-organize core and the outside
// world. They define what the core needs from a collaborator without
// specifying how the collaborator is built or who owns it.
//
// # Port Interfaces
//
//   - [FileOrganizationRepository]: Persists organization results and smart-match entries
//   - [TaskScheduler]: Runs named tasks periodically or on demand
//   - [LibraryMonitor]: Watches library folders; suppresses events for paths being moved
//   - [LibraryIndex]: Knows which library items exist at which paths
//   - [ServerConfig]: Application paths, organize options and the legacy config migrator
//   - [FileSystem]: File access (afero)
//   - [ProviderManager]: Refreshes item metadata from providers
//   - [Serializer]: Encodes structured columns for persistence
//   - [Logger], [LoggerFactory]: Structured logging abstraction
//
// Adapters in internal/adapters and internal/hostconfig implement these
// interfaces; tests substitute hand-written fakes.
package ports
