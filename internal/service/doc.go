// Package service contains the use cases built on top of the stores in
// internal/store.
//
// Services receive their stores through constructor injection and never
// depend on a specific backend. Operations that touch more than one store
// run inside store.RunInTransaction, handing each store its transaction
// through WithTx.
package service
