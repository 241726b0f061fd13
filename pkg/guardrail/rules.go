package guardrail

import (
	"regexp"

	"github.com/aretw0/parcel/pkg/domain"
)

// CheckID names a policy check.
type CheckID string

const (
	CheckGuaranteedReturns        CheckID = "no_guaranteed_returns"
	CheckAbsoluteCertainty        CheckID = "no_absolute_certainty"
	CheckAnalysisNotAdvice        CheckID = "provide_analysis_not_advice"
	CheckManipulationTactics      CheckID = "no_manipulation_tactics"
	CheckRealisticProjections     CheckID = "realistic_projections"
	CheckRiskAcknowledgment       CheckID = "include_risk_acknowledgment"
	CheckProfessionalConsultation CheckID = "require_professional_consultation"
	CheckExternalSources          CheckID = "require_external_sources"
)

// Mode selects how a rule interprets its patterns.
type Mode string

const (
	ModeForbid  Mode = "forbid"
	ModeRequire Mode = "require"
	ModeLimit   Mode = "limit"
	ModeSources Mode = "sources"
)

// valuePlaceholder is replaced in Limit and Sources messages.
const valuePlaceholder = "{value}"

// Rule is one row of the policy table.
type Rule struct {
	Check     CheckID
	Mode      Mode
	Patterns  []*regexp.Regexp
	MinLength int
	Limit     int
	Message   string
}

// longFormLength is the length above which text counts as a long-form report.
const longFormLength = 500

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// DefaultRules returns the built-in policy in severity order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Check: CheckGuaranteedReturns,
			Mode:  ModeForbid,
			Patterns: patterns(
				`\b(guaranteed|guarantee[sd]?|promise[sd]?)\s+(?:return|profit|gain|income)`,
				`\b(?:guaranteed|guarantee[sd]?)\s+to\s+(?:make|earn|generate|return)\b`,
				`\b(?:promise[sd]?|promising)\s+(?:steady\s+)?(?:profit|profits|returns?)\b`,
				`\bit(?:'s| is)\s+guaranteed\b`,
				`\b(will definitely|will certainly|absolutely will)\s+(?:make|earn|generate)`,
				`\b(?:risk-?free|no risk|zero risk)\s+(?:profit|return|investment)`,
				`\b(?:can't lose|cannot lose|guaranteed to make)`,
				`\bguaranteed\s+(?:\d+%?|\$[\d,]+)`,
				`\byou\s+(?:will|are going to)\s+(?:definitely|certainly)\s+(?:make|earn|profit)`,
			),
			Message: "GUARDRAIL VIOLATION: Output contains guaranteed return claims. " +
				"Investment returns cannot be guaranteed. " +
				"Please rewrite using probabilistic language such as 'potential', " +
				"'estimated', 'projected', 'may generate', or 'could provide'. " +
				"Example: Instead of 'will definitely earn 10%', use 'has potential " +
				"to generate approximately 10% based on current market conditions'.",
		},
		{
			Check: CheckAbsoluteCertainty,
			Mode:  ModeForbid,
			Patterns: patterns(
				`\b(?:will|must)\s+(?:definitely\s+|certainly\s+|absolutely\s+)?(?:increase|rise|grow|appreciate|go up|become profitable)\b`,
				`\b(?:always|never|every time|without exception)\b`,
				`\b(?:impossible|zero chance)\s+(?:that|for)`,
				`\bno\s+way\b.*\bwill\b`,
				`\bthis\s+(?:will|must)\s+be\s+a\s+(?:great|excellent|perfect)\s+investment\b`,
				`\b(?:definitely|absolutely|certainly)\s+(?:recommend|suggest)\s+buying`,
			),
			Message: "GUARDRAIL VIOLATION: Output uses absolute certainty language. " +
				"Real estate markets are unpredictable and outcomes are uncertain. " +
				"Please rewrite using conditional language: 'likely to', 'could', " +
				"'may', 'suggests potential for', 'historically has shown'. " +
				"Acknowledge market uncertainty and variability in your analysis.",
		},
		{
			Check: CheckAnalysisNotAdvice,
			Mode:  ModeForbid,
			Patterns: patterns(
				`\b(?:I|we)\s+(?:recommend|advise|suggest)\s+(?:that\s+)?you\s+(?:buy|purchase|invest)`,
				`\byou\s+(?:should|must|need to)\s+(?:buy|purchase|invest|sell)`,
				`\bthis\s+is\s+(?:the|a)\s+(?:best|perfect|ideal)\s+(?:time|opportunity)\s+to\s+buy`,
				`\byou\s+(?:should not|shouldn't|must not)\s+(?:pass|miss)\s+(?:this|on this)`,
			),
			Message: "GUARDRAIL VIOLATION: Output provides direct financial advice. " +
				"You should frame your output as analysis and information, not advice. " +
				"Instead of 'You should buy this property', use 'Based on the data, " +
				"this property shows characteristics that align with [strategy]' or " +
				"'The analysis suggests this property demonstrates [qualities]'. " +
				"Let the investor make their own decision based on your analysis.",
		},
		{
			Check: CheckManipulationTactics,
			Mode:  ModeForbid,
			Patterns: patterns(
				`\b(?:act now|buy now|don't wait|limited time|hurry|rush)`,
				`\b(?:once in a lifetime|rare opportunity|won't last)`,
				`\bif\s+you\s+don't\s+(?:buy|act|move)\s+(?:now|today|immediately)`,
				`\b(?:miss out|FOMO|you'll regret)`,
				`\bonly\s+\d+\s+(?:days|hours|minutes)\s+(?:left|remaining)`,
			),
			Message: "GUARDRAIL VIOLATION: Output uses manipulative urgency tactics. " +
				"Investment decisions should be made thoughtfully, not under pressure. " +
				"Remove urgency language and time pressure. Instead, encourage thorough " +
				"due diligence: 'Take time to review all aspects', 'Conduct comprehensive " +
				"property inspection', 'Consult with qualified professionals'. " +
				"Present objective analysis without artificial urgency.",
		},
		{
			Check: CheckRealisticProjections,
			Mode:  ModeLimit,
			Patterns: patterns(
				`(\d+)%\s+(?:annual\s+|yearly\s+|per\s+year\s+)?(?:return|returns|profit|gain|appreciation|ROI)`,
			),
			Limit: 25,
			Message: "GUARDRAIL VIOLATION: Output claims {value}% returns, which is " +
				"unrealistically high for typical real estate investments. " +
				"Standard real estate returns typically range from 6-15% for passive " +
				"investments, and 15-20% for more aggressive strategies. " +
				"Please revise projections to realistic ranges and clearly note that " +
				"these are estimates based on assumptions that may not materialize. " +
				"Include sensitivity analysis showing downside scenarios.",
		},
		{
			Check:     CheckRiskAcknowledgment,
			Mode:      ModeRequire,
			MinLength: longFormLength,
			Patterns: patterns(
				`\brisk[s]?\b`,
				`\buncertain(?:ty)?\b`,
				`\bvariab(?:le|ility)\b`,
				`\bmay\s+(?:not|fluctuate|change|vary)\b`,
				`\bcould\s+(?:decrease|decline|fall)\b`,
				`\bno\s+guarantee[s]?\b`,
			),
			Message: "GUARDRAIL VIOLATION: Output lacks risk acknowledgment. " +
				"Investment recommendations must acknowledge associated risks. " +
				"Please include discussion of: market risks, property-specific risks, " +
				"economic uncertainty, and the possibility of loss. " +
				"Example: 'While the analysis is positive, consider risks such as " +
				"[specific risks]. Market conditions can change, and actual results " +
				"may differ from projections.'",
		},
		{
			Check:     CheckProfessionalConsultation,
			Mode:      ModeRequire,
			MinLength: longFormLength,
			Patterns: patterns(
				`\bconsult\s+(?:with\s+)?(?:a\s+)?(?:qualified|licensed|professional)`,
				`\bseek\s+(?:advice|guidance|counsel)\s+from`,
				`\bspeak\s+with\s+(?:a\s+)?(?:professional|expert|advisor)`,
				`\b(?:attorney|lawyer|CPA|accountant|financial\s+advisor)`,
				`\bdue\s+diligence\b`,
			),
			Message: "GUARDRAIL VIOLATION: Output does not recommend professional consultation. " +
				"Investment recommendations should encourage consulting qualified professionals. " +
				"Please add guidance to: 'Conduct thorough due diligence', " +
				"'Consult with a qualified real estate attorney', " +
				"'Work with a licensed CPA for tax implications', or " +
				"'Engage a professional inspector to assess property condition'. " +
				"Include at least one recommendation to seek professional guidance.",
		},
		{
			Check: CheckExternalSources,
			Mode:  ModeSources,
		},
	}
}

var (
	sourcesHeader   = regexp.MustCompile(`(?im)^##\s*Sources\s*$`)
	sourceURL       = regexp.MustCompile(`https?://[^\s)\]]+`)
	noSourcesNotice = regexp.MustCompile(`(?i)no external sources were used for this report`)
)

const msgMissingSources = "GUARDRAIL VIOLATION: Missing `## Sources` section. Include real external URLs used in analysis."

const msgTooFewURLs = "GUARDRAIL VIOLATION: Missing external source URLs in `## Sources`. " +
	"At least {value} URL(s) required. " +
	"Format each as: `- Source Name - https://example.com (Accessed: YYYY-MM-DD)`."

const msgNoSourcesNotice = "GUARDRAIL VIOLATION: Web search is enabled, so `No external sources were used` is not allowed."

// taskChecks lists the subset applied to each intermediate task. The final
// recommendation is validated against every rule of the pipeline.
var taskChecks = map[domain.TaskKind][]CheckID{
	domain.TaskDataAnalysis:      {CheckAbsoluteCertainty, CheckRealisticProjections},
	domain.TaskFinancialModeling: {CheckGuaranteedReturns, CheckRealisticProjections},
	domain.TaskRiskAssessment:    {CheckAbsoluteCertainty},
}
