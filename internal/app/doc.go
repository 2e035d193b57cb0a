// Package app holds the auto-organize lifecycle coordinator.
//
// The coordinator is built once per process by the host. Start opens the
// repository (tolerating failure), builds the organization service,
// publishes itself through a Registry and then runs the legacy smart-match
// conversion. Stop releases the collaborators the coordinator owns: the
// task scheduler, the logger factory and the library monitor, in that order.
//
// Ownership:
//
//   - owned by the coordinator: task scheduler, logger factory, library monitor
//   - owned by the organization service: the repository handle
//   - owned by the host: the service itself, the library index, the server
//     configuration, the filesystem, the provider manager and the serializer
//
// The host therefore calls Service().Close() after Stop to release the
// repository.
package app
