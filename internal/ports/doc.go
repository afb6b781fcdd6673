// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [PresenceClient]: the rich-presence transport (Discord IPC in production)
//   - [LineSource]: closeable line-oriented operator input
//   - [ClientIDSource]: persisted application identifier
//   - [Logger]: structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (IPC socket, stdin, file system, zerolog).
package ports
