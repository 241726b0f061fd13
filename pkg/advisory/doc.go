/*
Package advisory orchestrates a complete advisory request.

A request runs in three steps:

 1. Preliminary metrics are computed by the financial engine as soon as the
    required fields are present.
 2. The flow state machine runs with those metrics injected, producing the
    audit trail, the analysis results and the decision signals.
 3. If the flow completed, every generation task is drafted by a
    ports.Generator and checked by the guardrail pipeline. Rejected drafts are
    retried with the violation message as feedback until the pipeline's retry
    budget is spent.

The resulting domain.Report is persisted through a ports.ReportStore when one
is configured, so runs paused for missing data can be resubmitted later.
*/
package advisory
