package frontend

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// commonFractions maps the hundredths of a fractional part to its display
// form. 1/8 is keyed by 13 because .125 rounds up.
var commonFractions = map[int]string{
	13: "1/8",
	25: "1/4",
	33: "1/3",
	50: "1/2",
	67: "2/3",
	75: "3/4",
}

// FormatFractions renders a decimal amount as the closest common kitchen
// fraction ("1 1/2", "3/4"). Amounts whose fractional part is not one of the
// common fractions are returned unchanged.
func FormatFractions(decimal float64) string {
	if decimal == 0 {
		return "0"
	}
	if decimal == 1 {
		return "1"
	}

	whole := math.Floor(decimal)
	hundredths := int(math.Round((decimal - whole) * 100))

	label, ok := commonFractions[hundredths]
	if !ok {
		return formatNumber(decimal)
	}
	if whole != 0 {
		return formatNumber(whole) + " " + label
	}
	return label
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// orNA renders a missing (zero) count as "N/A"
func orNA(n int) string {
	if n == 0 {
		return "N/A"
	}
	return strconv.Itoa(n)
}

// IngredientLine formats an ingredient as "{amount} {unit} {name}"
func IngredientLine(amount float64, unit, name, original string) string {
	amountText := ""
	if amount != 0 {
		amountText = FormatFractions(amount)
	}
	if name == "" {
		name = original
	}
	return fmt.Sprintf("%s %s %s", amountText, unit, name)
}

// summaryPolicy keeps inline text markup and drops every attribute. Links
// lose their tag and keep their text.
var summaryPolicy = bluemonday.NewPolicy().
	AllowElements("b", "strong", "i", "em", "u", "p", "br", "span", "ul", "ol", "li", "sub", "sup")

// StripLinks reduces a recipe summary to inert markup: every link is
// replaced by its text and everything outside the inline text allowlist is
// removed.
func StripLinks(fragment string) string {
	return strings.TrimSpace(summaryPolicy.Sanitize(fragment))
}

// PlainText reduces instruction text that may carry markup to a single line.
// List items are joined with spaces so steps do not run together.
func PlainText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	items := doc.Find("li")
	if items.Length() == 0 {
		return collapseSpace(doc.Text())
	}
	parts := make([]string, 0, items.Length())
	items.Each(func(_ int, li *goquery.Selection) {
		if text := collapseSpace(li.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
