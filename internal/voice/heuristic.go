package voice

import (
	"regexp"
	"strings"

	"github.com/planweave/planweave/internal/domain"
)

// Local heuristic extraction for when no model is configured or the model
// path failed. Patterns cover Chinese and English phrasings; a field is only
// populated when the transcript evidently specifies it — nothing is guessed.

const numeral = `[0-9]+|[零一二两三四五六七八九十百千万]+`

var (
	destinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:想去|要去|去|到)([\p{Han}A-Za-z][\p{Han}A-Za-z·\s]*?)(?:玩|旅游|旅行|度假|自由行|[，,。．\s]|$)`),
		regexp.MustCompile(`目的地(?:是|为)?([\p{Han}A-Za-z][\p{Han}A-Za-z·\s]*?)(?:[，,。．\s]|$)`),
		regexp.MustCompile(`(?i)(?:go to|trip to|travel to|visit|destination is)\s+([A-Za-z][A-Za-z\s]*?)(?:\s+(?:for|in|with|on)\b|[,.]|$)`),
	}

	daysPattern      = regexp.MustCompile(`(` + numeral + `)\s*(?:天|日|(?i:days?))`)
	travelersPattern = regexp.MustCompile(`(` + numeral + `)\s*(?:个人|位|人|(?i:people|persons?|travel[le]+rs?|adults?))`)
	budgetPatterns   = []*regexp.Regexp{
		regexp.MustCompile(`预算(?:是|为|大概|大约)?(` + numeral + `)(?:元|块)?`),
		regexp.MustCompile(`(` + numeral + `)(?:元|块)(?:的)?预算`),
		regexp.MustCompile(`(?i)budget\s*(?:of|is|around|about)?\s*([0-9]+)`),
	}
)

// Keyword vocabularies: substring containment against the transcript, mapped
// to the canonical labels the generation prompt understands.
var preferenceVocab = []struct{ keyword, label string }{
	{"美食", "food"}, {"food", "food"},
	{"文化", "culture"}, {"culture", "culture"},
	{"自然", "nature"}, {"nature", "nature"}, {"风景", "nature"},
	{"购物", "shopping"}, {"shopping", "shopping"},
	{"历史", "history"}, {"history", "history"}, {"古迹", "history"},
	{"冒险", "adventure"}, {"adventure", "adventure"},
	{"放松", "relaxation"}, {"relax", "relaxation"}, {"休闲", "relaxation"},
	{"摄影", "photography"}, {"photo", "photography"},
	{"夜生活", "nightlife"}, {"nightlife", "nightlife"},
}

var travelerTypeVocab = []struct{ keyword, label string }{
	{"孩子", "child"}, {"小孩", "child"}, {"儿童", "child"}, {"child", "child"}, {"kid", "child"},
	{"老人", "elder"}, {"长辈", "elder"}, {"elder", "elder"},
	{"婴儿", "infant"}, {"baby", "infant"},
	{"宠物", "pet"}, {"pet", "pet"},
}

// extractHeuristic maps a transcript to trip-request fields using the local
// patterns. When no field at all is recognized, the whole utterance is kept
// verbatim as AdditionalInfo rather than discarded.
func extractHeuristic(transcript string) domain.TripRequest {
	var req domain.TripRequest
	text := strings.TrimSpace(transcript)
	if text == "" {
		return req
	}

	for _, p := range destinationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if dest := strings.TrimSpace(m[1]); dest != "" {
				req.Destination = dest
				break
			}
		}
	}

	if m := daysPattern.FindStringSubmatch(text); m != nil {
		if n, ok := ParseNumber(m[1]); ok && n >= domain.MinDays && n <= domain.MaxDays {
			req.Days = n
		}
	}
	if m := travelersPattern.FindStringSubmatch(text); m != nil {
		if n, ok := ParseNumber(m[1]); ok && n >= domain.MinTravelers && n <= domain.MaxTravelers {
			req.Travelers = n
		}
	}
	for _, p := range budgetPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, ok := ParseNumber(m[1]); ok && n >= domain.MinBudget {
				req.Budget = float64(n)
				break
			}
		}
	}

	lower := strings.ToLower(text)
	req.Preferences = matchVocab(lower, preferenceVocab)
	req.TravelerTypes = matchVocab(lower, travelerTypeVocab)

	if isEmpty(req) {
		req.AdditionalInfo = text
	}
	return req
}

// matchVocab returns the deduplicated canonical labels whose keywords occur
// in the text.
func matchVocab(text string, vocab []struct{ keyword, label string }) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range vocab {
		if seen[v.label] || !strings.Contains(text, v.keyword) {
			continue
		}
		seen[v.label] = true
		out = append(out, v.label)
	}
	return out
}

func isEmpty(req domain.TripRequest) bool {
	return req.Destination == "" && req.Days == 0 && req.Budget == 0 &&
		req.Travelers == 0 && len(req.Preferences) == 0 && len(req.TravelerTypes) == 0
}
