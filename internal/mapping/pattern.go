package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"ingest/internal/services"
)

// ShotToken is the output placeholder replaced with the shot number at plan time.
const ShotToken = "{SHOT}"

var tokenPattern = regexp.MustCompile(`\{\w+\}`)

// Rule maps footage paths matching Input to the Output template.
type Rule struct {
	Input  string `toml:"input" json:"input"`
	Output string `toml:"output" json:"output"`
}

// Variable is one captured placeholder value.
type Variable struct {
	Token string `json:"token"`
	Value string `json:"value"`
}

// Match describes which rule resolved a path and what it captured.
type Match struct {
	Index     int        `json:"index"`
	Rule      Rule       `json:"rule"`
	Variables []Variable `json:"variables"`
	Output    string     `json:"output"`
}

type compiledRule struct {
	rule   Rule
	expr   *regexp.Regexp
	tokens []string
}

// Mapper evaluates an ordered rule table.
type Mapper struct {
	rules []compiledRule
}

// Compile prepares the rule table for matching. Literal dots in the input
// pattern are escaped; every other character keeps its regular expression
// meaning. Matching is anchored at the start of the path only.
func Compile(rules []Rule) (*Mapper, error) {
	m := &Mapper{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		expr, tokens, err := compilePattern(rule.Input)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "mapping", "compile", fmt.Sprintf("rule %d input %q", i+1, rule.Input), err)
		}
		m.rules = append(m.rules, compiledRule{rule: rule, expr: expr, tokens: tokens})
	}
	return m, nil
}

func compilePattern(input string) (*regexp.Regexp, []string, error) {
	pattern := strings.ReplaceAll(input, ".", `\.`)
	tokens := tokenPattern.FindAllString(input, -1)
	for _, token := range tokens {
		pattern = strings.ReplaceAll(pattern, token, "(.+)")
	}
	expr, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, nil, err
	}
	return expr, tokens, nil
}

// Len reports the number of rules.
func (m *Mapper) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Resolve returns the output template for path, with captured placeholders
// substituted. ok is false when no rule matches.
func (m *Mapper) Resolve(path string) (string, bool) {
	match, ok := m.Captures(path)
	if !ok {
		return "", false
	}
	return match.Output, true
}

// Captures reports the first matching rule and its captured variables.
func (m *Mapper) Captures(path string) (Match, bool) {
	if m == nil {
		return Match{}, false
	}
	for i, compiled := range m.rules {
		groups := compiled.expr.FindStringSubmatch(path)
		if groups == nil {
			continue
		}
		output := compiled.rule.Output
		vars := make([]Variable, 0, len(compiled.tokens))
		for idx, value := range groups[1:] {
			if idx >= len(compiled.tokens) {
				break
			}
			token := compiled.tokens[idx]
			vars = append(vars, Variable{Token: token, Value: value})
			output = strings.ReplaceAll(output, token, value)
		}
		return Match{Index: i, Rule: compiled.rule, Variables: vars, Output: output}, true
	}
	return Match{}, false
}

// NormalizeOutput replaces the extension of the final path element with ext.
// A path without an extension gains one.
func NormalizeOutput(path, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	dir, file := splitPath(path)
	base := file
	if dot := strings.LastIndex(file, "."); dot > 0 {
		base = file[:dot]
	}
	return dir + base + "." + ext
}

// splitPath splits after the last separator, keeping it on the directory.
func splitPath(path string) (string, string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx+1], path[idx+1:]
}
