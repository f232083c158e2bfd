// Package client talks to the storefront account service over gRPC.
//
// GRPCClient tags every call with a per-process session id, so the server
// counts failed logins of this terminal separately from other clients, and
// attaches the access token obtained by Login. Server rejections come back
// as *RejectedError carrying the message meant for the user; match them with
// errors.Is against ErrUnauthorized or ErrLocked. ErrUnavailable reports a
// server that cannot be reached.
package client
