package intent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agentcart/agentcart/internal/ai"
	"github.com/agentcart/agentcart/internal/logging"
)

const extractSystemPrompt = "You extract product search queries from shopping requests."

const extractPromptTemplate = `Extract the product the user wants to buy from the message below.
Reply with only the search query, nothing else. Reply with an empty line if no product is mentioned.

Message: %q`

// removeWords are stripped by the keyword fallback: action verbs, site
// mentions and filler that are not part of the product query.
var removeWords = []string{
	"amazon",
	"from",
	"on",
	"at",
	"order",
	"buy",
	"purchase",
	"get",
	"can you",
	"please",
	"need to",
	"want to",
	"looking for",
	"search for",
	"find",
	"me",
	"a",
	"an",
	"the",
}

var spaceRun = regexp.MustCompile(`\s+`)

// Extractor pulls a product query out of free text: an LLM with a fixed
// prompt when one is configured, degrading to keyword stripping. Either way
// this is a best-effort heuristic, not a parser.
type Extractor struct {
	provider ai.Provider // nil for keyword-only extraction
}

// NewExtractor creates an Extractor. provider may be nil.
func NewExtractor(provider ai.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// ExtractQuery returns the product query for text, or "" when none could be
// determined.
func (e *Extractor) ExtractQuery(ctx context.Context, text string) string {
	if e.provider != nil {
		if query := e.extractWithModel(ctx, text); query != "" {
			return query
		}
		logging.Debugf("Model extraction produced nothing, falling back to keywords")
	}
	return StripKeywords(text)
}

func (e *Extractor) extractWithModel(ctx context.Context, text string) string {
	prompt := fmt.Sprintf(extractPromptTemplate, text)
	reply, err := e.provider.Complete(ctx, extractSystemPrompt, prompt)
	if err != nil {
		logging.Errorf("Query extraction via %s failed: %v", e.provider.ID(), err)
		return ""
	}

	query := strings.TrimSpace(reply)
	query = strings.Trim(query, `"'`)
	query = strings.ToLower(query)

	// A multi-line or essay-length "query" means the model ignored the
	// instructions; treat it as a failed extraction.
	if query == "" || strings.Contains(query, "\n") || len(query) > 120 {
		return ""
	}
	return query
}

// StripKeywords is the keyword-only extraction: drop action words and
// filler, collapse whitespace.
func StripKeywords(text string) string {
	query := strings.ToLower(text)
	for _, word := range removeWords {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		query = re.ReplaceAllString(query, "")
	}
	query = spaceRun.ReplaceAllString(query, " ")
	return strings.Trim(query, " ?!.,")
}
