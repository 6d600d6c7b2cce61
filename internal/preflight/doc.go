// Package preflight verifies the local tools and directories an operation
// depends on before any board is touched. A failed check aborts the run.
package preflight
