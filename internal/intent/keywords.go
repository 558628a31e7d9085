package intent

import "strings"

var amazonKeywords = []string{"amazon"}

var shoppingKeywords = []string{
	"order",
	"buy",
	"purchase",
	"get",
	"shop",
	"shopping",
	"cart",
	"checkout",
	"charger",
	"product",
	"item",
}

var loginKeywords = []string{
	"login",
	"log in",
	"sign in",
	"signin",
	"authenticate",
	"connect to amazon",
	"amazon account",
}

var checkoutKeywords = []string{
	"checkout",
	"check out",
	"proceed to checkout",
	"complete purchase",
	"place order",
	"buy it now",
	"finish purchase",
	"pay now",
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// shoppingScore mirrors the shopping-intent evaluator: half a point for the
// site mention, half for a shopping verb, a nudge for product vocabulary.
func shoppingScore(text string) float64 {
	var score float64
	if containsAny(text, amazonKeywords) {
		score += 0.5
		if containsAny(text, shoppingKeywords) {
			score += 0.5
		}
		if containsAny(text, []string{"price", "cost", "link", "product"}) {
			score += 0.1
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

// isCheckoutCommand matches messages that are about checking out rather
// than searching: short commands, or explicit proceed-to-checkout phrasing.
func isCheckoutCommand(text string) bool {
	short := len(strings.Fields(text)) <= 5
	if short && containsAny(text, checkoutKeywords) {
		return true
	}
	return strings.Contains(text, "proceed to checkout") ||
		strings.Contains(text, "go to checkout") ||
		(strings.Contains(text, "checkout") && strings.Contains(text, "cart"))
}
