package synthesis

import (
	"regexp"
	"strings"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markupRe       = regexp.MustCompile("[*_`#~]+")
	percentRe      = regexp.MustCompile(`([+-])?(\d+(?:,\d{3})*)(?:\.(\d+))?%`)
	currencyRe     = regexp.MustCompile(`\$(\d+(?:,\d{3})*)(?:\.(\d{2}))?\b`)
	hoursRe        = regexp.MustCompile(`\b(\d+)h\b`)
	daysRe         = regexp.MustCompile(`\b(\d+)d\b`)
	weeksRe        = regexp.MustCompile(`\b(\d+)w\b`)
	minutesRe      = regexp.MustCompile(`\b(\d+)min\b`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

var digitWords = map[rune]string{
	'0': "zero", '1': "one", '2': "two", '3': "three", '4': "four",
	'5': "five", '6': "six", '7': "seven", '8': "eight", '9': "nine",
}

// spokenForms maps tickers and chart acronyms to their spoken names. Spelled
// forms use dots so a second pass never re-matches the whole-word pattern.
var spokenForms = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"SOL":   "Solana",
	"ADA":   "Cardano",
	"DOGE":  "Dogecoin",
	"XRP":   "X.R.P.",
	"AAPL":  "Apple",
	"TSLA":  "Tesla",
	"MSFT":  "Microsoft",
	"GOOGL": "Google",
	"AMZN":  "Amazon",
	"NVDA":  "Nvidia",
	"RSI":   "R.S.I.",
	"MACD":  "M.A.C.D.",
	"ETF":   "E.T.F.",
	"ATH":   "all-time high",
	"YTD":   "year to date",
}

var spokenFormRes = func() map[*regexp.Regexp]string {
	res := make(map[*regexp.Regexp]string, len(spokenForms))
	for token, spoken := range spokenForms {
		res[regexp.MustCompile(`\b`+token+`\b`)] = spoken
	}
	return res
}()

// Normalize rewrites assistant text into a speech-friendly form: markdown and
// emoji are stripped, percentages, currency amounts, time shorthands, tickers
// and chart acronyms are expanded to how a person would read them aloud.
//
// Normalize is pure and idempotent: Normalize(Normalize(s)) == Normalize(s),
// so callers may apply it defensively without double-mangling text.
func Normalize(text string) string {
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = markupRe.ReplaceAllString(text, "")
	text = stripEmoji(text)

	text = percentRe.ReplaceAllStringFunc(text, expandPercent)
	text = currencyRe.ReplaceAllStringFunc(text, expandCurrency)

	text = replaceUnit(text, hoursRe, "hour", "hours")
	text = replaceUnit(text, daysRe, "day", "days")
	text = replaceUnit(text, weeksRe, "week", "weeks")
	text = replaceUnit(text, minutesRe, "minute", "minutes")

	for re, spoken := range spokenFormRes {
		text = re.ReplaceAllString(text, spoken)
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

func expandPercent(match string) string {
	groups := percentRe.FindStringSubmatch(match)
	sign, integer, decimals := groups[1], groups[2], groups[3]
	integer = strings.ReplaceAll(integer, ",", "")

	var b strings.Builder
	switch sign {
	case "+":
		b.WriteString("up ")
	case "-":
		b.WriteString("down ")
	}
	b.WriteString(integer)
	if decimals != "" {
		b.WriteString(" point")
		for _, d := range decimals {
			b.WriteByte(' ')
			b.WriteString(digitWords[d])
		}
	}
	b.WriteString(" percent")
	return b.String()
}

func expandCurrency(match string) string {
	groups := currencyRe.FindStringSubmatch(match)
	dollars := strings.ReplaceAll(groups[1], ",", "")
	cents := groups[2]
	if cents == "" || cents == "00" {
		return "$" + dollars
	}
	return "$" + dollars + " and " + strings.TrimPrefix(cents, "0") + " cents"
}

func replaceUnit(text string, re *regexp.Regexp, singular, plural string) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		n := re.FindStringSubmatch(match)[1]
		if n == "1" {
			return n + " " + singular
		}
		return n + " " + plural
	})
}

func stripEmoji(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF:
			return -1
		case r >= 0x2600 && r <= 0x27BF:
			return -1
		case r >= 0x2B00 && r <= 0x2BFF:
			return -1
		case r == 0xFE0F || r == 0x200D:
			return -1
		}
		return r
	}, text)
}
