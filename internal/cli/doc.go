// Package cli is the terminal front end of Equilibri.
//
// It resumes a saved session when the local marker is valid, otherwise it
// asks the user to log in or register, and then runs a REPL over the
// conversation commands:
//
//   - list / chats      show the user's chats, newest first
//   - new [title]       start a chat and make it active
//   - select <id>       make a chat active
//   - show              print the active chat
//   - send <text>       send a message (plain text works too)
//   - clear             remove every message of the active chat
//   - delete <id>       delete a chat
//   - logout, exit
//
// The package only forwards intents and renders results; all rules live in
// internal/services.
package cli
