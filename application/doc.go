// Package application provides the builder handed to a startup's Configure
// step. The builder exposes the application services, a property bag shared
// between configure steps and the component registry the host starts and
// stops.
package application
