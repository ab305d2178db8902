// Package component defines lifecycle-managed services that an application
// registers during startup and the host starts and stops.
//
// Components are started in registration order and stopped in reverse order.
// Stop failures do not stop the remaining components; they are aggregated.
//
//   - Component: Name/Start/Stop/Health lifecycle
//   - Func: adapter building a Component from functions
//   - Describable: optional self description for the host summary
package component
