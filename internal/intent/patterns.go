package intent

import "regexp"

// Kind names the intent an utterance was routed to.
type Kind string

const (
	Greeting        Kind = "greeting"
	Help            Kind = "help"
	Plan            Kind = "plan"
	Summary         Kind = "summary"
	Workout         Kind = "workout"
	Finance         Kind = "finance"
	Recipe          Kind = "recipe"
	Learn           Kind = "learn"
	Productivity    Kind = "productivity"
	Reading         Kind = "reading"
	Reminder        Kind = "reminder"
	Goals           Kind = "goals"
	Motivation      Kind = "motivation"
	SelfImprovement Kind = "selfimprovement"
	Quote           Kind = "quote"
	Action          Kind = "action"
	Fallback        Kind = "fallback"
)

// Pattern pairs an intent with the expression that triggers it.
type Pattern struct {
	Kind Kind
	Re   *regexp.Regexp
}

// table is evaluated top to bottom and the first hit wins. The expressions
// overlap heavily ("plan my workout", "learn to budget"), so the order is
// part of the behaviour and must not be rearranged.
var table = []Pattern{
	{Greeting, regexp.MustCompile(`(?i)^\s*(hi|hello|hey|good morning|good afternoon|good evening)`)},
	{Help, regexp.MustCompile(`(?i)(help|assist|support|guide|how|what can you do|usage|feature|explain)`)},
	{Plan, regexp.MustCompile(`(?i)(plan|organize|schedule|structure|roadmap|outline|blueprint|timeline|strategy|map out|workflow|step-by-step|next steps|prioritize)`)},
	{Summary, regexp.MustCompile(`(?i)(summary|summarize|overview|digest|recap|quick look|tl;dr)`)},
	{Workout, regexp.MustCompile(`(?i)(workout|exercise|fitness|gym|training|routine|athletic|run|yoga)`)},
	{Finance, regexp.MustCompile(`(?i)(money|finance|budget|save|invest|spending|expenses|debt|investing|retirement|portfolio|bank|pay off|saving|fund)`)},
	{Recipe, regexp.MustCompile(`(?i)(recipe|cook|food|meal|ingredient|dish|kitchen|grocery|shopping list|snack|lunch|breakfast|dinner)`)},
	{Learn, regexp.MustCompile(`(?i)(learn|study|knowledge|skill|course|practice|lesson|education|memorize|exam|school|tutorial)`)},
	{Productivity, regexp.MustCompile(`(?i)(productive|productivity|focus|efficient|system|method|workflow|get things done|gtd|prioritization|time management)`)},
	{Reading, regexp.MustCompile(`(?i)(read|article|book|reading|library|chapter|reference|e-book|magazine)`)},
	{Reminder, regexp.MustCompile(`(?i)(remind|reminder|reminders|notify|alarm|alert|remember|due)`)},
	{Goals, regexp.MustCompile(`(?i)(goal|objective|aim|ambition|milestone|target|purpose|mission|resolution)`)},
	{Motivation, regexp.MustCompile(`(?i)(motivat(e|ion)|inspire|encourage|drive|boost|energy|push|quote|affirmation)`)},
	{SelfImprovement, regexp.MustCompile(`(?i)(self(?:-|\s)?improv(e|ement)|develop|growth|better|upgrade|enhance|habit|routine|personal development)`)},
	{Quote, regexp.MustCompile(`(?i)(quote|saying|wisdom|proverb|mantra|words of wisdom)`)},
	{Action, regexp.MustCompile(`(?i)(action|todo|task|do|next step|execute|complete|checklist)`)},
}

// Table returns a copy of the ordered pattern list.
func Table() []Pattern {
	out := make([]Pattern, len(table))
	copy(out, table)
	return out
}

// Match returns the first intent whose pattern matches utterance, or Fallback.
func Match(utterance string) Kind {
	for _, p := range table {
		if p.Re.MatchString(utterance) {
			return p.Kind
		}
	}
	return Fallback
}

// Matches returns every intent that matches utterance, in evaluation order.
func Matches(utterance string) []Kind {
	var kinds []Kind
	for _, p := range table {
		if p.Re.MatchString(utterance) {
			kinds = append(kinds, p.Kind)
		}
	}
	return kinds
}
