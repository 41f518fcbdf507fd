package classify

import (
	"regexp"
	"strings"

	"github.com/kalambet/dolater/internal/content"
)

// KeywordTableVersion is bumped whenever a word list below changes. Stored
// classifications can be compared against it to decide on a re-run.
const KeywordTableVersion = 2

type rule[T any] struct {
	value T
	re    *regexp.Regexp
}

// words builds a case-insensitive whole-word matcher that also accepts the
// common inflections (workouts, invested, meetings).
func words(list ...string) *regexp.Regexp {
	quoted := make([]string, len(list))
	for i, w := range list {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)(?:s|es|d|ed|ing)?\b`)
}

// Domain rules are tried in order before the platform shortcuts.
var categoryRules = []rule[content.Category]{
	{content.Fitness, words("workout", "exercise", "fitness", "gym", "training", "run", "running", "yoga", "sport", "walk", "cardio", "strength", "muscle", "pilates", "marathon", "stretch")},
	{content.Finance, words("money", "finance", "financial", "budget", "save", "saving", "invest", "investment", "spending", "bank", "debt", "stock", "retirement", "portfolio", "tax", "crypto")},
	{content.Knowledge, words("learn", "study", "knowledge", "course", "education", "class", "read", "tutorial", "lecture", "research", "science", "history")},
	{content.Personal, words("family", "goal", "personal", "habit", "routine", "journal", "travel", "health", "diary", "mood", "recipe", "cooking", "meal", "home")},
	{content.Work, words("project", "work", "meeting", "deadline", "team", "career", "business", "job", "task", "office", "startup", "interview")},
}

var platformRules = []rule[content.Category]{
	{content.Knowledge, words("youtube", "video")},
	{content.Personal, words("instagram", "tiktok")},
}

var priorityRules = []rule[content.Priority]{
	{content.High, regexp.MustCompile(`(?i)\b(?:urgent|urgently|important|now|immediately|critical|asap|priority|must)\b`)},
	{content.Medium, regexp.MustCompile(`(?i)\b(?:soon|should|later|plan|next|review|schedule|someday|eventually)\b`)},
}

var actionRules = []rule[content.ActionType]{
	{content.Watch, words("watch", "video", "youtube", "webinar", "movie", "film", "documentary")},
	{content.Try, words("try", "tries", "exercise", "workout", "practice", "recipe", "diy")},
	{content.Buy, words("buy", "purchase", "shop", "shopping", "order")},
	{content.Learn, words("learn", "study", "course", "tutorial", "read", "summarize")},
}

func firstMatch[T any](rules []rule[T], text string) (T, bool) {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.value, true
		}
	}
	var zero T
	return zero, false
}

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the be to of and a in that have i it for not on with as you do at
		is are was were this but by from or an so if will would can has
		about more your which when who what how we they their our
		been being into just also very some such only other over them
		then than there these those where while could should does done
		here must shall might each every much many most make made like
		want need still well even back after before because through
		http https www com html`) {
		stopwords[w] = struct{}{}
	}
}
