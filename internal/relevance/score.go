package relevance

import (
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
)

// Score increments. Feedback penalties outweigh the matching boosts.
const (
	tokenMatchPoints = 3
	tagMatchPoints   = 2
	attendeePoints   = 2
	highPriority     = 2
	hasDueDate       = 1
	unanswered       = 1
	minutaPoints     = 1

	taskKeywordUp    = 2
	taskKeywordDown  = -3
	emailKeywordUp   = 1
	emailKeywordDown = -2
	docKeywordUp     = 1
	docKeywordDown   = -2
	domainUp         = 2
	domainDown       = -3
)

type taskFactor func(domain.ContextTask, Anchor, *domain.Preferences) int
type emailFactor func(emailView, Anchor, *domain.Preferences) int
type docFactor func(domain.ContextDocSummary, Anchor, *domain.Preferences) int

// emailView carries the sender fields derived once per thread.
type emailView struct {
	thread domain.ContextEmailThread
	from   string
	domain string
}

var taskFactors = []taskFactor{
	func(t domain.ContextTask, a Anchor, _ *domain.Preferences) int {
		if a.MatchesAny(Tokenize(t.Title)) {
			return tokenMatchPoints
		}
		return 0
	},
	func(t domain.ContextTask, a Anchor, _ *domain.Preferences) int {
		for _, tag := range t.Tags {
			if _, ok := a.tokens[strings.ToLower(tag)]; ok {
				return tagMatchPoints
			}
		}
		return 0
	},
	func(t domain.ContextTask, _ Anchor, _ *domain.Preferences) int {
		if t.Priority == domain.PriorityHigh {
			return highPriority
		}
		return 0
	},
	func(t domain.ContextTask, _ Anchor, _ *domain.Preferences) int {
		if t.DueDate != "" {
			return hasDueDate
		}
		return 0
	},
	func(t domain.ContextTask, _ Anchor, p *domain.Preferences) int {
		if p == nil {
			return 0
		}
		return keywordDelta(t.Title, p, taskKeywordUp, taskKeywordDown)
	},
	func(t domain.ContextTask, _ Anchor, p *domain.Preferences) int {
		if p == nil || t.CompanyID == "" {
			return 0
		}
		return p.CompaniesBoost[t.CompanyID]
	},
}

var emailFactors = []emailFactor{
	func(e emailView, a Anchor, _ *domain.Preferences) int {
		if a.MatchesAny(Tokenize(e.thread.Subject)) {
			return tokenMatchPoints
		}
		return 0
	},
	func(e emailView, a Anchor, _ *domain.Preferences) int {
		if a.HasAttendee(e.from) {
			return attendeePoints
		}
		return 0
	},
	func(e emailView, _ Anchor, _ *domain.Preferences) int {
		if e.thread.UnansweredDays > 0 {
			return unanswered
		}
		return 0
	},
	func(e emailView, _ Anchor, p *domain.Preferences) int {
		if p == nil || e.domain == "" {
			return 0
		}
		delta := 0
		if containsFold(p.EmailDomainsUp, e.domain) {
			delta += domainUp
		}
		if containsFold(p.EmailDomainsDown, e.domain) {
			delta += domainDown
		}
		return delta
	},
	func(e emailView, _ Anchor, p *domain.Preferences) int {
		if p == nil || e.from == "" {
			return 0
		}
		return p.ParticipantsBoost[e.from]
	},
	func(e emailView, _ Anchor, p *domain.Preferences) int {
		if p == nil {
			return 0
		}
		return keywordDelta(e.thread.Subject, p, emailKeywordUp, emailKeywordDown)
	},
}

var docFactors = []docFactor{
	func(d domain.ContextDocSummary, a Anchor, _ *domain.Preferences) int {
		if a.MatchesAny(Tokenize(d.Title)) {
			return tokenMatchPoints
		}
		return 0
	},
	func(d domain.ContextDocSummary, _ Anchor, _ *domain.Preferences) int {
		if strings.Contains(strings.ToLower(string(d.Type)), string(domain.DocMinuta)) {
			return minutaPoints
		}
		return 0
	},
	func(d domain.ContextDocSummary, _ Anchor, p *domain.Preferences) int {
		if p == nil || d.Type == "" {
			return 0
		}
		return p.DocTypesBoost[strings.ToLower(string(d.Type))]
	},
	func(d domain.ContextDocSummary, _ Anchor, p *domain.Preferences) int {
		if p == nil {
			return 0
		}
		return keywordDelta(d.Title, p, docKeywordUp, docKeywordDown)
	},
}

// ScoreTask scores an open task against the anchor. Done tasks always score 0.
func ScoreTask(t domain.ContextTask, a Anchor, prefs *domain.Preferences) int {
	if t.Done() {
		return 0
	}
	score := 0
	for _, f := range taskFactors {
		score += f(t, a, prefs)
	}
	return score
}

// ScoreEmail scores a thread by subject overlap, sender attendance,
// staleness and the sender's address/domain preferences.
func ScoreEmail(th domain.ContextEmailThread, a Anchor, prefs *domain.Preferences) int {
	from := ExtractAddress(th.LastFrom)
	view := emailView{thread: th, from: from, domain: DomainOf(from)}
	score := 0
	for _, f := range emailFactors {
		score += f(view, a, prefs)
	}
	return score
}

// ScoreDoc scores a document summary by title overlap and doc-type emphasis.
func ScoreDoc(d domain.ContextDocSummary, a Anchor, prefs *domain.Preferences) int {
	score := 0
	for _, f := range docFactors {
		score += f(d, a, prefs)
	}
	return score
}

// keywordDelta applies the up increment once when any up keyword occurs in
// text and the down increment once when any down keyword occurs. Both may
// apply.
func keywordDelta(text string, p *domain.Preferences, up, down int) int {
	delta := 0
	if containsAnyKeyword(text, p.KeywordsUp) {
		delta += up
	}
	if containsAnyKeyword(text, p.KeywordsDown) {
		delta += down
	}
	return delta
}
