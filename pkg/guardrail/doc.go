/*
Package guardrail validates generated advisory text against a fixed policy.

Each check is a row in a declarative rule table: a mode, a list of patterns
and a remediation message. A check never rewrites text. It accepts the text
unchanged or rejects it with a message meant to be fed back to the generator
for another attempt. The retry loop itself belongs to the caller; the
pipeline only exposes the configured retry budget.

# Modes

  - Forbid: reject when any pattern matches.
  - Require: reject when no pattern matches, for text longer than MinLength runes.
  - Limit: reject when a captured percentage exceeds Limit.
  - Sources: reject when a "## Sources" section lacks cited URLs (only when enforced).

# Matching

Patterns use RE2 syntax and match case-insensitively. \b is an ASCII word
boundary: a non-ASCII letter counts as a non-word character, so "éguaranteed"
still contains the word "guaranteed".
*/
package guardrail
