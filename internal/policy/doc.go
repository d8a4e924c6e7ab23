// Package policy holds the pure rules that guard destructive admin
// operations. Callers gather the inputs (requester, target, current
// superadmin count) under a lock and act on the returned Decision.
package policy
