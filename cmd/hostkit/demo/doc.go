// Package demo is a sample application for the hostkit command: a startup
// assembly named "demo" and a few hosting startup modules. Importing the
// package registers them in the default bootstrap catalogs.
package demo
