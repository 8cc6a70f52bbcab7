package plan

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse decodes sanitized model text into a plan. The JSON syntax must be
// valid and the top level must be an object; individual fields are read
// leniently and missing ones stay empty. raw is the unsanitized reply and is
// attached to any ParseError.
//
// The returned plan is not normalized yet: DietPlan is empty and RawDiet holds
// the model's value.
func Parse(sanitized, raw string) (*GeneratedPlan, error) {
	if !gjson.Valid(sanitized) {
		return nil, &ParseError{Raw: raw, Cause: syntaxCause(sanitized)}
	}

	doc := gjson.Parse(sanitized)
	if !doc.IsObject() {
		return nil, &ParseError{Raw: raw, Cause: errors.New("top-level value is not an object")}
	}

	return &GeneratedPlan{
		Summary:     Stringify(field(doc, "summary")),
		WorkoutPlan: parseWorkout(field(doc, "workoutPlan")),
		Tips:        parseTips(field(doc, "tips")),
		Motivation:  Stringify(field(doc, "motivation")),
		RawDiet:     field(doc, "dietPlan"),
	}, nil
}

// ParseReply sanitizes a raw model reply, parses it and normalizes the result.
func ParseReply(raw string) (*GeneratedPlan, error) {
	p, err := Parse(Sanitize(raw), raw)
	if err != nil {
		return nil, err
	}
	return Normalize(p), nil
}

// Normalize replaces the plan's diet with its canonical seven-day form and
// pins the workout week to seven ordered days. It mutates and returns p.
func Normalize(p *GeneratedPlan) *GeneratedPlan {
	p.DietPlan = NormalizeDiet(p.RawDiet)
	p.WorkoutPlan = NormalizeWorkout(p.WorkoutPlan)
	if p.Tips == nil {
		p.Tips = []string{}
	}
	p.RawDiet = gjson.Result{}
	return p
}

// syntaxCause runs the standard decoder over invalid input purely to get a
// descriptive error with an offset.
func syntaxCause(s string) error {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}

func parseTips(v gjson.Result) []string {
	tips := []string{}
	switch {
	case v.IsArray():
		v.ForEach(func(_, el gjson.Result) bool {
			if s := Stringify(el); s != "" {
				tips = append(tips, s)
			}
			return true
		})
	case v.Type == gjson.String && v.Str != "":
		tips = append(tips, v.Str)
	}
	return tips
}

func parseWorkout(v gjson.Result) []WorkoutDay {
	days := []WorkoutDay{}
	switch {
	case v.IsArray():
		v.ForEach(func(_, entry gjson.Result) bool {
			days = append(days, parseWorkoutDay(entry, ""))
			return true
		})
	case v.IsObject():
		// {Monday: {...}, Tuesday: [...]}
		for _, d := range Weekdays {
			entry := firstTruthy(v, d, strings.ToLower(d), d[:3])
			if !entry.Exists() {
				continue
			}
			days = append(days, parseWorkoutDay(entry, d))
		}
	}
	return days
}

func parseWorkoutDay(entry gjson.Result, day string) WorkoutDay {
	wd := WorkoutDay{Day: day, Exercises: []Exercise{}}

	switch {
	case entry.IsObject():
		if d := Stringify(field(entry, "day")); d != "" {
			wd.Day = d
		}
		wd.Focus = Stringify(field(entry, "focus"))
		wd.Exercises = parseExercises(field(entry, "exercises"))
	case entry.IsArray():
		wd.Exercises = parseExercises(entry)
	}
	return wd
}

func parseExercises(v gjson.Result) []Exercise {
	exercises := []Exercise{}
	if !v.IsArray() {
		return exercises
	}
	v.ForEach(func(_, el gjson.Result) bool {
		switch {
		case el.IsObject():
			exercises = append(exercises, Exercise{
				Name: Stringify(field(el, "name")),
				Sets: Stringify(field(el, "sets")),
				Reps: Stringify(field(el, "reps")),
				Rest: Stringify(field(el, "rest")),
			})
		case el.Type == gjson.String && el.Str != "":
			exercises = append(exercises, Exercise{Name: el.Str})
		}
		return true
	})
	return exercises
}
