package plan

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DietShapeKind names the layouts the model has been seen to use for dietPlan.
type DietShapeKind int

const (
	// ShapeOpaque is anything unrecognized: null, scalars, unparseable text.
	ShapeOpaque DietShapeKind = iota
	// ShapeDayKeyedArray is [{day: "Monday", meals: [...]}, ...].
	ShapeDayKeyedArray
	// ShapeFlatArray is a flat list of meal strings or meal objects.
	ShapeFlatArray
	// ShapeWeekdayMapping is {Monday: {...} | [...], Tuesday: ...}.
	ShapeWeekdayMapping
)

func (k DietShapeKind) String() string {
	switch k {
	case ShapeDayKeyedArray:
		return "day_keyed_array"
	case ShapeFlatArray:
		return "flat_array"
	case ShapeWeekdayMapping:
		return "weekday_mapping"
	default:
		return "opaque"
	}
}

// DietShape is a classified raw diet value.
type DietShape struct {
	Kind  DietShapeKind
	Value gjson.Result
}

// reservedMealKeys are metadata keys that never name a meal inside a day object.
var reservedMealKeys = map[string]bool{
	"day": true, "date": true, "name": true, "title": true, "notes": true,
}

// ClassifyDiet inspects a raw dietPlan value and reports which layout it uses.
// A string is decoded as JSON first; text that is not JSON stays opaque.
func ClassifyDiet(raw gjson.Result) DietShape {
	if raw.Type == gjson.String {
		decoded, ok := tryDecodeJSON(raw.Str)
		if !ok || decoded.Type == gjson.String {
			return DietShape{Kind: ShapeOpaque, Value: raw}
		}
		raw = decoded
	}

	switch {
	case raw.IsArray():
		first := raw.Get("0")
		if first.IsObject() && truthy(field(first, "day")) {
			return DietShape{Kind: ShapeDayKeyedArray, Value: raw}
		}
		return DietShape{Kind: ShapeFlatArray, Value: raw}
	case raw.IsObject():
		return DietShape{Kind: ShapeWeekdayMapping, Value: raw}
	}
	return DietShape{Kind: ShapeOpaque, Value: raw}
}

// tryDecodeJSON parses s when it is valid JSON. The boolean reports success;
// callers fall back to treating s as plain text.
func tryDecodeJSON(s string) (gjson.Result, bool) {
	if !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	return gjson.Parse(s), true
}

// NormalizeDiet reconciles any dietPlan layout into exactly seven DietDay
// entries ordered Monday..Sunday. It never fails; unusable input yields a
// week of empty days.
func NormalizeDiet(raw gjson.Result) []DietDay {
	shape := ClassifyDiet(raw)
	switch shape.Kind {
	case ShapeDayKeyedArray:
		return dietFromDayKeyedArray(shape.Value)
	case ShapeFlatArray:
		return dietFromFlatArray(shape.Value)
	case ShapeWeekdayMapping:
		return dietFromWeekdayMapping(shape.Value)
	default:
		return emptyWeek()
	}
}

// NormalizeDietJSON is NormalizeDiet for a JSON document. Invalid JSON is
// treated as opaque text.
func NormalizeDietJSON(doc string) []DietDay {
	v, ok := tryDecodeJSON(doc)
	if !ok {
		return emptyWeek()
	}
	return NormalizeDiet(v)
}

func emptyWeek() []DietDay {
	out := make([]DietDay, len(Weekdays))
	for i, d := range Weekdays {
		out[i] = DietDay{Day: d, Meals: []Meal{}}
	}
	return out
}

func dietFromDayKeyedArray(arr gjson.Result) []DietDay {
	entries := arr.Array()
	out := emptyWeek()

	for i, d := range Weekdays {
		for _, entry := range entries {
			day := field(entry, "day")
			if day.Type != gjson.String || !strings.EqualFold(strings.TrimSpace(day.Str), d) {
				continue
			}
			out[i].Meals = mealsFromEntry(field(entry, "meals"))
			break
		}
	}
	return out
}

func dietFromFlatArray(arr gjson.Result) []DietDay {
	entries := arr.Array()
	n := len(entries)

	mealsPerDay := 1
	if n >= len(Weekdays) {
		mealsPerDay = max(1, n/len(Weekdays))
	}

	out := emptyWeek()
	for i := range Weekdays {
		start := i * mealsPerDay
		end := min(start+mealsPerDay, n)
		// Sunday takes whatever the even windows left over.
		if i == len(Weekdays)-1 {
			end = max(end, n)
		}

		meals := []Meal{}
		for j := start; j < end; j++ {
			if meal, ok := CoerceMeal(entries[j]); ok {
				meals = append(meals, meal)
			}
		}

		if n == len(Weekdays) && len(meals) == 0 {
			if meal, ok := CoerceMeal(entries[i]); ok {
				meals = append(meals, meal)
			}
		}
		out[i].Meals = meals
	}
	return out
}

func dietFromWeekdayMapping(obj gjson.Result) []DietDay {
	out := emptyWeek()
	for i, d := range Weekdays {
		entry := firstTruthy(obj, d, strings.ToLower(d), d[:3])
		out[i].Meals = mealsFromEntry(entry)
	}
	return out
}

// mealsFromEntry reads one day's meals. An array is a list of raw meals; an
// object maps meal labels to their items.
func mealsFromEntry(entry gjson.Result) []Meal {
	meals := []Meal{}

	switch {
	case entry.IsArray():
		entry.ForEach(func(_, raw gjson.Result) bool {
			if meal, ok := CoerceMeal(raw); ok {
				meals = append(meals, meal)
			}
			return true
		})
	case entry.IsObject():
		entry.ForEach(func(key, value gjson.Result) bool {
			if reservedMealKeys[strings.ToLower(key.Str)] {
				return true
			}
			label := strings.TrimSpace(stripDayPrefix(key.Str))
			if label == "" {
				label = key.Str
			}
			meals = append(meals, Meal{
				Meal:  capitalize(label),
				Items: CoerceItems(value),
			})
			return true
		})
	}
	return meals
}
