// Package host defines the contract between a request-handling server and the
// modules it loads: database access, the event bus and the payloads of the
// events a host emits.
//
// A module receives a Host in its Init function, opens its own database with
// OpenDatabase and subscribes to events through Events. Login listeners get a
// *LoginAttempt and reject the attempt by calling RequestContext.Fail and
// returning events.PreventDefault.
package host
