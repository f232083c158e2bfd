// Package cli implements the interactive storefront terminal client.
//
// The client connects to the account gRPC service and offers a small REPL:
//
//	signup     create an account
//	login      log in (failed attempts count toward a lockout)
//	forgot     verify your identity and choose a new password
//	reset      set a new password with a reset token
//	profile    show the logged in account
//	passwd     change the password of the logged in account
//	logout     forget the access token
//	exit|quit  leave the program
//
// Passwords are read from the terminal without echo and wiped from memory
// once sent.
package cli
