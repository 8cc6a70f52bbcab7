/*
Package plan holds the fitness plan model and the pipeline that turns a free-text
model reply into a canonical plan: sanitizing, parsing, and normalizing the
workout and diet weeks into exactly seven Monday..Sunday entries.
*/
package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Weekdays lists the canonical day names in plan order.
var Weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday",
	"Thursday", "Friday", "Saturday", "Sunday",
}

// UserProfile is the flat set of attributes collected by the form.
// Every field is optional; nothing is validated beyond presence.
type UserProfile struct {
	Name     string `json:"name,omitempty"`
	Age      string `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Height   string `json:"height,omitempty"`
	Weight   string `json:"weight,omitempty"`
	Goal     string `json:"goal,omitempty"`
	Level    string `json:"level,omitempty"`
	Location string `json:"location,omitempty"`
	Diet     string `json:"diet,omitempty"`
	Medical  string `json:"medical,omitempty"`

	// Extra keeps any additional attribute the client sent so it still
	// reaches the prompt.
	Extra map[string]string `json:"-"`
}

// GeneratedPlan is the complete structured output for one user.
type GeneratedPlan struct {
	Summary     string       `json:"summary"`
	WorkoutPlan []WorkoutDay `json:"workoutPlan"`
	DietPlan    []DietDay    `json:"dietPlan"`
	Tips        []string     `json:"tips"`
	Motivation  string       `json:"motivation"`

	// RawDiet is the dietPlan value exactly as the model produced it.
	// It is consumed by Normalize and cleared afterwards.
	RawDiet gjson.Result `json:"-"`
}

// WorkoutDay is one day of the workout week.
type WorkoutDay struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise values are display strings since the model returns ranges like "8–12".
type Exercise struct {
	Name string `json:"name"`
	Sets string `json:"sets"`
	Reps string `json:"reps"`
	Rest string `json:"rest"`
}

// DietDay is the canonical diet entry for one weekday.
type DietDay struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

// Meal is a labeled list of food items.
type Meal struct {
	Meal  string   `json:"meal"`
	Items []string `json:"items"`
}

// ImageResult is what the image endpoint hands back to the client.
type ImageResult struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

var profileFields = []string{
	"name", "age", "gender", "height", "weight",
	"goal", "level", "location", "diet", "medical",
}

// UnmarshalJSON accepts any string-valued attributes. Known keys fill the
// named fields, unknown ones land in Extra. Non-string scalars are stringified.
func (p *UserProfile) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("user profile is not valid JSON")
	}
	raw := gjson.ParseBytes(data)
	if raw.Type == gjson.Null {
		*p = UserProfile{}
		return nil
	}
	if !raw.IsObject() {
		return fmt.Errorf("user profile must be a JSON object")
	}

	*p = UserProfile{}
	raw.ForEach(func(k, value gjson.Result) bool {
		if value.Type == gjson.Null {
			return true
		}
		s := Stringify(value)
		switch key := k.Str; key {
		case "name":
			p.Name = s
		case "age":
			p.Age = s
		case "gender":
			p.Gender = s
		case "height":
			p.Height = s
		case "weight":
			p.Weight = s
		case "goal":
			p.Goal = s
		case "level":
			p.Level = s
		case "location":
			p.Location = s
		case "diet":
			p.Diet = s
		case "medical":
			p.Medical = s
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]string)
			}
			p.Extra[key] = s
		}
		return true
	})
	return nil
}

// MarshalJSON writes the profile as a flat object including Extra attributes.
func (p UserProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields())
}

// Fields returns the non-empty attributes as a flat map.
func (p UserProfile) Fields() map[string]string {
	out := make(map[string]string, len(profileFields)+len(p.Extra))
	for k, v := range p.Extra {
		if v != "" {
			out[k] = v
		}
	}
	values := []string{
		p.Name, p.Age, p.Gender, p.Height, p.Weight,
		p.Goal, p.Level, p.Location, p.Diet, p.Medical,
	}
	for i, key := range profileFields {
		if values[i] != "" {
			out[key] = values[i]
		}
	}
	return out
}

// Trimmed returns a copy with surrounding whitespace removed from every value.
func (p UserProfile) Trimmed() UserProfile {
	out := UserProfile{
		Name:     strings.TrimSpace(p.Name),
		Age:      strings.TrimSpace(p.Age),
		Gender:   strings.TrimSpace(p.Gender),
		Height:   strings.TrimSpace(p.Height),
		Weight:   strings.TrimSpace(p.Weight),
		Goal:     strings.TrimSpace(p.Goal),
		Level:    strings.TrimSpace(p.Level),
		Location: strings.TrimSpace(p.Location),
		Diet:     strings.TrimSpace(p.Diet),
		Medical:  strings.TrimSpace(p.Medical),
	}
	if len(p.Extra) > 0 {
		out.Extra = make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			out.Extra[k] = strings.TrimSpace(v)
		}
	}
	return out
}
