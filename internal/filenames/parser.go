// Package filenames turns remote upload names into identifier, category and
// upload date.
//
// A name looks like <identifier><category><YYYYMMDDHHMMSS>.<ext>, where the
// identifier is always the first IdentifierWidth characters. Older uploads
// used a fixed ten-character category column instead of a variable-length
// word; the Strategy picks which convention a Parser reads.
package filenames

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

const (
	IdentifierWidth = 16

	// ArchiveCategory marks a customer's main archive, <identifier>_*.zip.
	ArchiveCategory = "_"

	fixedCategoryEnd = 26
	stampWidth       = 14
)

// Strategy selects how the category is read from a name.
type Strategy int

const (
	// StrategyLeadingLetters reads the run of non-digit characters after the
	// identifier in the extension-stripped name.
	StrategyLeadingLetters Strategy = iota
	// StrategyFixedWidth reads characters 16 to 26 of the full name.
	StrategyFixedWidth
)

func (s Strategy) String() string {
	switch s {
	case StrategyLeadingLetters:
		return "leading-letters"
	case StrategyFixedWidth:
		return "fixed-width"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the names produced by Strategy.String. An empty
// string selects the default.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leading-letters":
		return StrategyLeadingLetters, nil
	case "fixed-width":
		return StrategyFixedWidth, nil
	default:
		return 0, fmt.Errorf("unknown category strategy %q", s)
	}
}

var digitRun = regexp.MustCompile(`\d{14,}`)

// Parser is safe for concurrent use.
type Parser struct {
	strategy Strategy
}

func NewParser(strategy Strategy) *Parser {
	return &Parser{strategy: strategy}
}

func (p *Parser) Strategy() Strategy {
	return p.strategy
}

// Parse splits name. It reports false when the name is too short to carry an
// identifier; such names are never an error for the listing as a whole.
func (p *Parser) Parse(name string) (models.ParsedFile, bool) {
	runes := []rune(name)
	if len(runes) < IdentifierWidth {
		return models.ParsedFile{}, false
	}

	rest := string(runes[IdentifierWidth:])
	out := models.ParsedFile{
		Identifier: string(runes[:IdentifierWidth]),
		RawName:    name,
	}

	ext := path.Ext(rest)
	switch {
	case strings.HasPrefix(rest, "_") && strings.EqualFold(ext, ".zip"):
		out.Category = ArchiveCategory
	case p.strategy == StrategyFixedWidth:
		out.Category = fixedWidthCategory(runes)
	default:
		out.Category = leadingCategory(strings.TrimSuffix(rest, ext))
	}

	out.Date, out.Stamp = extractDate(rest)
	return out, true
}

// ParseAll parses names in order and returns the names it had to drop.
func (p *Parser) ParseAll(names []string) (parsed []models.ParsedFile, rejected []string) {
	parsed = make([]models.ParsedFile, 0, len(names))
	for _, name := range names {
		entry, ok := p.Parse(name)
		if !ok {
			rejected = append(rejected, name)
			continue
		}
		parsed = append(parsed, entry)
	}
	return parsed, rejected
}

func fixedWidthCategory(runes []rune) string {
	end := min(len(runes), fixedCategoryEnd)
	return strings.TrimSpace(string(runes[IdentifierWidth:end]))
}

func leadingCategory(rest string) string {
	end := strings.IndexFunc(rest, unicode.IsDigit)
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimSpace(rest[:end])
}

// extractDate returns the first 14-digit window whose YYYYMMDD half is a
// real calendar date. Longer digit runs are searched window by window.
func extractDate(s string) (date, stamp string) {
	for _, run := range digitRun.FindAllString(s, -1) {
		for i := 0; i+stampWidth <= len(run); i++ {
			window := run[i : i+stampWidth]
			day, err := time.Parse("20060102", window[:8])
			if err != nil {
				continue
			}
			return day.Format(time.DateOnly), window
		}
	}
	return "", ""
}

// Stamp returns the validated timestamp digits of name, looking past the
// identifier, or "" when there are none.
func Stamp(name string) string {
	runes := []rune(name)
	if len(runes) < IdentifierWidth {
		return ""
	}
	_, stamp := extractDate(string(runes[IdentifierWidth:]))
	return stamp
}
