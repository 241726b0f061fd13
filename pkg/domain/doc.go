/*
Package domain contains the core types of the advisory engine.

It defines the closed state and signal enumerations of the analysis flow, the
property input and its typed view, the financial metrics bundle, and the
records a run produces. The package performs no I/O and holds no state.

# Key Entities

  - State: a stage of an analysis run (closed set, terminal states marked).
  - Signal: a threshold-triggered decision point that annotates a run.
  - Strategy: the investment approach a property is judged against.
  - PropertyInput: the raw field map supplied by a caller, never mutated.
  - FinancialMetrics: ratios, cash flow, projection and sensitivity scenarios.
  - FlowEvent: one entry in the append-only audit trail of a run.
  - RunResult / Report: the outcome of a run and its persisted form.
*/
package domain
