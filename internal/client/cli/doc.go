// Package cli provides the interactive sportclub command-line client.
//
// The REPL plays the part of the browser: "go <path>" navigates, the prompt
// shows the signed-in user and the current route, and notifications raised
// by the session orchestrator are printed as they arrive.
//
// Commands:
//   - register / login / logout
//   - whoami           show the session user and the token expiry
//   - go <path>, where navigate and print the current route
//   - users [page], user <id>
//   - lang [tag]       show or switch the interface language
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
