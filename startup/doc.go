// Package startup locates and normalizes the application startup.
//
// Startup types are listed in an explicit Catalog of assemblies. For an
// assembly and an environment name the type named "Startup"+env is preferred
// over "Startup"; names compare case-insensitively.
//
// A type is either formal, when its constructor returns a value implementing
// Startup, or convention based. Convention types expose methods named
// ConfigureServices{Env} / ConfigureServices (optional) and Configure{Env} /
// Configure (required); the environment specific method wins. Those methods
// are bound once into an adapter that implements Startup.
//
// Register never fails because of the startup itself: resolution errors are
// deferred into a registration under Key that returns the error when the
// startup is resolved during host initialization.
package startup
