// Package runtime implements the analysis flow state machine.
//
// The stage graph is data (Table): each non-terminal state maps to a handler
// and the states it may move to. Machine.Run walks the table, appending a
// STATE_TRANSITION event after every move and evaluating decision signals
// against the accumulated results. Each signal is dispatched at most once per
// run. Handler errors and panics are recorded as ERROR events and end the run
// in FAILED.
package runtime
