package utils

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 5

// SuggestionList returns the options close enough to input to be offered as
// "Did you mean" hints, closest first.
func SuggestionList(input string, options []string) []string {
	threshold := len(input)*4/10 + 1
	inputLower := strings.ToLower(input)

	distances := make(map[string]int, len(options))
	var suggestions []string
	for _, option := range options {
		distance, ok := lexicalDistance(input, inputLower, option, threshold)
		if !ok {
			continue
		}
		if _, seen := distances[option]; seen {
			continue
		}
		distances[option] = distance
		suggestions = append(suggestions, option)
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if distances[a] != distances[b] {
			return distances[a] < distances[b]
		}
		return NaturalCompare(a, b) < 0
	})
	return suggestions
}

func lexicalDistance(input, inputLower, option string, threshold int) (int, bool) {
	if input == option {
		return 0, true
	}
	optionLower := strings.ToLower(option)
	if inputLower == optionLower {
		return 1, true
	}
	if abs(len(inputLower)-len(optionLower)) > threshold {
		return 0, false
	}
	distance := levenshtein.ComputeDistance(inputLower, optionLower)
	if distance > threshold {
		return 0, false
	}
	return distance, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// DidYouMean formats suggestions as ` Did you mean "a", "b", or "c"?`.
// It returns the empty string when there is nothing to suggest.
func DidYouMean(suggestions []string) string {
	return DidYouMeanSub("", suggestions)
}

// DidYouMeanSub is DidYouMean with a noun inserted before the list, such as
// "the enum value".
func DidYouMeanSub(sub string, suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	message := " Did you mean "
	if sub != "" {
		message += sub + " "
	}
	quoted := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		quoted = append(quoted, `"`+s+`"`)
	}
	return message + OrList(quoted) + "?"
}

// OrList joins at most five items as "a, b, or c".
func OrList(items []string) string {
	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
}

// QuotedOrList is OrList over double quoted items.
func QuotedOrList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, s := range items {
		quoted = append(quoted, `"`+s+`"`)
	}
	return OrList(quoted)
}

// NaturalCompare orders strings so that embedded numbers compare by value:
// "file2" sorts before "file10".
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := strings.TrimLeft(a[si:i], "0")
			nb := strings.TrimLeft(b[sj:j], "0")
			if len(na) != len(nb) {
				return len(na) - len(nb)
			}
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if ca != cb {
			return int(ca) - int(cb)
		}
		i++
		j++
	}
	return (len(a) - i) - (len(b) - j)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
