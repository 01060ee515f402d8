// Package scoring matches product chemistry against patient conditions at a
// given device temperature.
//
// Everything here is pure domain logic: no I/O, no logging, no shared state.
// Callers resolve compound data up front into a Catalog (usually a Snapshot)
// and the pipeline reads only from it:
//
//	catalog -> thermal availability -> cultivation + saturation
//	        -> per-condition scorer (mode, gate, entourage)
//	        -> severity-weighted aggregate -> rank
package scoring
