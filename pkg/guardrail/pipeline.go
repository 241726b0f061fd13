package guardrail

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/parcel/pkg/domain"
)

// ErrUnknownCheck is returned when a check is requested that the pipeline does not define.
var ErrUnknownCheck = errors.New("unknown guardrail check")

// Outcome is the verdict of one check.
type Outcome struct {
	Check   CheckID        `json:"check"`
	Verdict domain.Verdict `json:"verdict"`
}

// Pipeline is an ordered set of policy rules. It is immutable after
// construction and safe for concurrent use.
type Pipeline struct {
	cfg   Config
	rules []Rule
	index map[CheckID]int
	tasks map[domain.TaskKind][]CheckID
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtensions appends or augments rules from a loaded extension set.
func WithExtensions(ext *Extensions) Option {
	return func(p *Pipeline) {
		if ext != nil {
			p.extend(ext)
		}
	}
}

// New builds a pipeline from the built-in rules.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:   cfg.withDefaults(),
		index: make(map[CheckID]int),
		tasks: make(map[domain.TaskKind][]CheckID, len(taskChecks)),
	}
	for _, r := range DefaultRules() {
		p.add(r)
	}
	for task, checks := range taskChecks {
		p.tasks[task] = append([]CheckID(nil), checks...)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) add(r Rule) {
	p.index[r.Check] = len(p.rules)
	p.rules = append(p.rules, r)
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// MaxRetries is the number of corrected attempts a caller may request after a rejection.
func (p *Pipeline) MaxRetries() int {
	return p.cfg.MaxRetries
}

// Checks lists every check in severity order.
func (p *Pipeline) Checks() []CheckID {
	out := make([]CheckID, len(p.rules))
	for i, r := range p.rules {
		out[i] = r.Check
	}
	return out
}

// ChecksFor returns the subset applied to a task. The final recommendation and
// unknown tasks use every check.
func (p *Pipeline) ChecksFor(task domain.TaskKind) []CheckID {
	if checks, ok := p.tasks[task]; ok && task != domain.TaskFinalRecommendation {
		return append([]CheckID(nil), checks...)
	}
	return p.Checks()
}

// ParseCheck resolves a check name.
func (p *Pipeline) ParseCheck(name string) (CheckID, error) {
	id := CheckID(name)
	if _, ok := p.index[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}
	return id, nil
}

// Check applies a single check to text.
func (p *Pipeline) Check(id CheckID, text string) (domain.Verdict, error) {
	i, ok := p.index[id]
	if !ok {
		return domain.Verdict{}, fmt.Errorf("%w: %q", ErrUnknownCheck, id)
	}
	return p.apply(p.rules[i], text), nil
}

// Validate applies the given checks, in pipeline order, and returns one
// outcome per check. A nil list applies every check.
func (p *Pipeline) Validate(text string, checks []CheckID) ([]Outcome, error) {
	if checks == nil {
		checks = p.Checks()
	}
	for _, id := range checks {
		if _, ok := p.index[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, id)
		}
	}

	wanted := make(map[CheckID]bool, len(checks))
	for _, id := range checks {
		wanted[id] = true
	}

	out := make([]Outcome, 0, len(wanted))
	for _, r := range p.rules {
		if wanted[r.Check] {
			out = append(out, Outcome{Check: r.Check, Verdict: p.apply(r, text)})
		}
	}
	return out, nil
}

// ValidateTask applies the subset registered for task.
func (p *Pipeline) ValidateTask(task domain.TaskKind, text string) []Outcome {
	out, _ := p.Validate(text, p.ChecksFor(task))
	return out
}

// FirstViolation returns the most severe rejection, if any.
func FirstViolation(outcomes []Outcome) (Outcome, bool) {
	for _, o := range outcomes {
		if !o.Verdict.Accepted {
			return o, true
		}
	}
	return Outcome{}, false
}

// Passed reports whether every outcome accepted the text.
func Passed(outcomes []Outcome) bool {
	_, failed := FirstViolation(outcomes)
	return !failed
}

func (p *Pipeline) apply(r Rule, text string) domain.Verdict {
	switch r.Mode {
	case ModeForbid:
		for _, re := range r.Patterns {
			if re.MatchString(text) {
				return domain.Reject(r.Message)
			}
		}
	case ModeRequire:
		if utf8.RuneCountInString(text) <= r.MinLength {
			return domain.Accept(text)
		}
		for _, re := range r.Patterns {
			if re.MatchString(text) {
				return domain.Accept(text)
			}
		}
		return domain.Reject(r.Message)
	case ModeLimit:
		for _, re := range r.Patterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				if len(m) < 2 {
					continue
				}
				if exceeds(m[1], r.Limit) {
					return domain.Reject(strings.ReplaceAll(r.Message, valuePlaceholder, m[1]))
				}
			}
		}
	case ModeSources:
		return p.checkSources(text)
	}
	return domain.Accept(text)
}

// exceeds reports whether the decimal digits in s denote a number above limit.
// Digit runs too long to parse are treated as exceeding.
func exceeds(s string, limit int) bool {
	n, err := strconv.Atoi(s)
	if err != nil {
		return true
	}
	return n > limit
}

func (p *Pipeline) checkSources(text string) domain.Verdict {
	if !p.cfg.RequireExternalSources || !p.cfg.SearchConfigured {
		return domain.Accept(text)
	}

	loc := sourcesHeader.FindStringIndex(text)
	if loc == nil {
		return domain.Reject(msgMissingSources)
	}
	section := text[loc[1]:]

	if urls := sourceURL.FindAllString(section, -1); len(urls) < p.cfg.MinSourceURLs {
		return domain.Reject(strings.ReplaceAll(msgTooFewURLs, valuePlaceholder, strconv.Itoa(p.cfg.MinSourceURLs)))
	}
	if noSourcesNotice.MatchString(section) {
		return domain.Reject(msgNoSourcesNotice)
	}
	return domain.Accept(text)
}
