package plan

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var (
	// dayPrefixRe matches an optional "Day N - " prefix followed by the first word.
	dayPrefixRe = regexp.MustCompile(`(?i)^(Day\s+\d+\s*-\s*)?(\w+)`)
	// dayPrefixOnlyRe matches just the "Day N - " prefix.
	dayPrefixOnlyRe = regexp.MustCompile(`(?i)^(Day\s+\d+\s*-\s*)`)
	itemSplitRe     = regexp.MustCompile(`[,;\n]`)
)

// Stringify converts a loosely typed JSON value into its display string.
// Numbers keep the literal the model wrote, null becomes "", arrays join
// their elements with commas and objects are rendered as compact JSON.
func Stringify(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.Null:
		return ""
	}
	if v.IsArray() {
		parts := make([]string, 0)
		v.ForEach(func(_, el gjson.Result) bool {
			parts = append(parts, Stringify(el))
			return true
		})
		return strings.Join(parts, ",")
	}
	return strings.TrimSpace(string(pretty.Ugly([]byte(v.Raw))))
}

// truthy reports whether a value would count as present in a loose
// "a || b" fallback: empty strings, zero, false and null do not.
func truthy(v gjson.Result) bool {
	if !v.Exists() {
		return false
	}
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	}
	return true
}

// field looks up key on an object. Keys are compared verbatim, so names with
// dots or wildcards are safe. The last duplicate wins.
func field(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	if !obj.IsObject() {
		return found
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}
		return true
	})
	return found
}

// firstTruthy returns the first field of obj among keys holding a present value.
func firstTruthy(obj gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := field(obj, key); truthy(v) {
			return v
		}
	}
	return gjson.Result{}
}

// CoerceItems turns a raw value into an ordered list of item strings.
// It never fails: unknown shapes degrade to a single stringified item.
func CoerceItems(v gjson.Result) []string {
	items := []string{}
	if !truthy(v) {
		return items
	}

	switch {
	case v.IsArray():
		v.ForEach(func(_, el gjson.Result) bool {
			items = append(items, Stringify(el))
			return true
		})
	case v.Type == gjson.String:
		items = splitItems(v.Str)
	case v.IsObject():
		if nested := field(v, "items"); nested.IsArray() {
			return CoerceItems(nested)
		}
		v.ForEach(func(_, el gjson.Result) bool {
			items = append(items, Stringify(el))
			return true
		})
	default:
		items = append(items, Stringify(v))
	}
	return items
}

func splitItems(s string) []string {
	items := []string{}
	for _, part := range itemSplitRe.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// CoerceMeal turns a single raw meal value into a Meal. The boolean is false
// when the value carries no meal at all.
func CoerceMeal(v gjson.Result) (Meal, bool) {
	if !truthy(v) {
		return Meal{}, false
	}

	switch {
	case v.Type == gjson.String:
		label := mealLabel(v.Str)
		rest := strings.TrimSpace(stripDayPrefix(v.Str))
		rest = stripLabelHeading(rest, label)
		return Meal{Meal: label, Items: splitItems(rest)}, true

	case v.IsObject() || v.IsArray():
		label := "Meal"
		if raw := firstTruthy(v, "meal", "title"); raw.Exists() {
			label = mealLabel(Stringify(raw))
		}
		return Meal{
			Meal:  label,
			Items: CoerceItems(firstTruthy(v, "items", "food", "recipe")),
		}, true
	}

	return Meal{}, false
}

// mealLabel picks the first word after an optional "Day N - " prefix.
func mealLabel(s string) string {
	m := dayPrefixRe.FindStringSubmatch(s)
	if m == nil || m[2] == "" {
		return "Meal"
	}
	return m[2]
}

func stripDayPrefix(s string) string {
	return dayPrefixOnlyRe.ReplaceAllString(s, "")
}

// stripLabelHeading drops a leading "Label:" heading so "Lunch: Rice, Chicken"
// yields the items "Rice" and "Chicken" instead of "Lunch: Rice".
func stripLabelHeading(s, label string) string {
	if label == "" || len(s) <= len(label) || !strings.EqualFold(s[:len(label)], label) {
		return s
	}
	rest := strings.TrimLeft(s[len(label):], " \t")
	if !strings.HasPrefix(rest, ":") {
		return s
	}
	return strings.TrimSpace(rest[1:])
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
