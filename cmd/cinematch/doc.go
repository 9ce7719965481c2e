// Package main hosts the cinematch CLI.
//
// The Cobra command tree loads configuration, builds or reuses the
// similarity artifact, and answers recommendation queries for a title typed
// on the command line or at an interactive prompt. Build history lives in
// the SQLite ledger and is surfaced by the history and info commands.
package main
