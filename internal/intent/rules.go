package intent

import (
	"regexp"
	"strings"
)

// Rule pairs one compiled pattern with the intent kind it produces.
// Matching is first-match-wins over the ordered rule list, so the most
// specific shapes sit first: several patterns overlap on loosely formatted
// input and ordering is the only disambiguation.
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp
}

const (
	num  = `[0-9]+(?:\.[0-9]+)?`
	word = `[a-zA-Z]+`
)

var rules = []Rule{
	// Purchase: "Bought 1 kg Flour for 5"
	{Purchase, regexp.MustCompile(`(?i)^bought\s+(?P<qty>` + num + `)\s*(?P<unit>` + word + `)\s+(?P<name>.+?)\s+for\s+\$?(?P<price>` + num + `)$`)},

	// Relative adjust: "Increase Flour stock by 2 kg", "Adjust Flour by 1 kg"
	{Adjust, regexp.MustCompile(`(?i)^(?P<action>increase|decrease|adjust)\s+(?P<name>.+?)(?:\s+stock)?\s+by\s+(?P<qty>` + num + `)\s*(?P<unit>` + word + `)$`)},
	// "Add 2 kg to Flour stock", "Subtract 200 g from Flour"
	{Adjust, regexp.MustCompile(`(?i)^(?P<action>add|subtract)\s+(?P<qty>` + num + `)\s*(?P<unit>` + word + `)\s+(?:to|from)\s+(?P<name>.+?)(?:\s+stock)?$`)},

	// Absolute set: "Set Flour stock to 4 kg"
	{SetStock, regexp.MustCompile(`(?i)^set\s+(?P<name>.+?)(?:\s+stock)?\s+to\s+(?P<qty>` + num + `)\s*(?P<unit>` + word + `)$`)},

	// Batch price: "2 kg Flour now costs 11"
	{BatchPrice, regexp.MustCompile(`(?i)^(?P<qty>` + num + `)\s*(?P<unit>` + word + `)\s+(?:of\s+)?(?P<name>.+?)\s+now\s+costs?\s+\$?(?P<price>` + num + `)$`)},

	// Combined stock+price: "Flour stock is 4 kg worth 20"
	{StockAndPrice, regexp.MustCompile(`(?i)^(?P<name>.+?)\s+stock\s+is\s+(?P<qty>` + num + `)\s*(?P<unit>` + word + `)\s+worth\s+\$?(?P<price>` + num + `)$`)},

	// Usage: "Used 200 g of Flour"
	{Usage, regexp.MustCompile(`(?i)^used\s+(?P<qty>` + num + `)\s*(?P<unit>` + word + `)\s+(?:of\s+)?(?P<name>.+)$`)},

	// Stock addition: "Received 2 kg Flour"
	{Received, regexp.MustCompile(`(?i)^(?:received|got)\s+(?P<qty>` + num + `)\s*(?P<unit>` + word + `)\s+(?:of\s+)?(?P<name>.+)$`)},

	// New ingredient: "Add new ingredient Sugar: 5 kg at 2.5"
	{NewIngredient, regexp.MustCompile(`(?i)^add\s+new\s+ingredient\s+(?P<name>.+?)\s*:\s*(?P<qty>` + num + `)\s*(?P<unit>` + word + `)\s+at\s+\$?(?P<price>` + num + `)$`)},

	// Stock query by id: "Check stock for ING001"
	{StockQueryID, regexp.MustCompile(`(?i)^check\s+stock\s+(?:for|of)\s+(?P<id>[A-Za-z]{2,5}-?\d[0-9A-Za-z]*)\s*\??$`)},

	// Stock query by name
	{StockQuery, regexp.MustCompile(`(?i)^what(?:'s|\s+is)\s+the\s+stock\s+of\s+(?P<name>[^?]+?)\s*\??$`)},
	{StockQuery, regexp.MustCompile(`(?i)^check\s+stock\s+(?:for|of)\s+(?P<name>.+?)\s*\??$`)},

	// Inventory report and export
	{Report, regexp.MustCompile(`(?i)^(?:show\s+inventory|inventory(?:\s+report)?|stock\s+report)$`)},
	{Export, regexp.MustCompile(`(?i)^export\s+inventory$`)},

	// Leave the manager mode
	{Exit, regexp.MustCompile(`(?i)^stop$`)},
}

// Interpret classifies one utterance. It never fails: text no rule claims
// comes back as Unrecognized with the original text attached.
func Interpret(raw string) Intent {
	text := strings.TrimSpace(raw)
	for _, r := range rules {
		if m := r.Pattern.FindStringSubmatch(text); m != nil {
			return extract(r, m, raw)
		}
	}
	return Intent{Kind: Unrecognized, Raw: raw}
}

func extract(r Rule, m []string, raw string) Intent {
	in := Intent{Kind: r.Kind, Raw: raw}
	for i, group := range r.Pattern.SubexpNames() {
		if i == 0 || group == "" || m[i] == "" {
			continue
		}
		val := strings.TrimSpace(m[i])
		switch group {
		case "name":
			in.Name = val
		case "id":
			in.ID = strings.ToUpper(val)
		case "action":
			in.Action = val
		case "qty":
			in.Qty = val
		case "unit":
			in.Unit = val
		case "price":
			in.Price = val
		}
	}
	return in
}
