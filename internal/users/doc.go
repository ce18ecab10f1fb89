// Package users implements the demo user REST API.
//
// Handlers are served by echo and backed by a Store: MemoryStore keeps seeded
// demo users in a mutex-guarded map, PostgresStore uses the users table. Both
// apply updates as compare-and-swap on User.Version, which clients drive with
// an If-Match header.
//
// Request bodies are checked against a JSON Schema, either the one reflected
// from UserRequest or the latest version of a registry subject. Each change
// can be published to Kafka as an Event.
package users
