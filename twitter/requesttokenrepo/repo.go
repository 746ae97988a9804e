// Package requesttokenrepo holds the implementations of
// twitter.RequestTokenRepo: an in-memory one for tests and single-process
// runs, and the redis-backed one the server uses.
package requesttokenrepo
