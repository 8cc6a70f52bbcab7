package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// ImageKind selects the prompt template used when an item is illustrated.
type ImageKind string

const (
	ImageKindDiet    ImageKind = "diet"
	ImageKindWorkout ImageKind = "workout"
)

// Tab identifiers, in display order.
const (
	TabWorkout = "workoutPlan"
	TabDiet    = "dietPlan"
	TabTips    = "tips"
)

var mealKeywordRe = regexp.MustCompile(`(?i)\b(breakfast|lunch|dinner|snack|brunch)\b`)

var defaultMealLabels = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// Tab is one selectable section of the results view.
type Tab struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// PlanView is the presentation model the browser renders as tabbed cards.
type PlanView struct {
	Summary    string        `json:"summary,omitempty"`
	Tabs       []Tab         `json:"tabs"`
	Workout    []WorkoutCard `json:"workout"`
	Diet       []DietCard    `json:"diet"`
	Tips       []string      `json:"tips"`
	TipsEmpty  string        `json:"tipsEmptyText,omitempty"`
	Motivation string        `json:"motivation,omitempty"`
}

type WorkoutCard struct {
	Day       string         `json:"day"`
	Focus     string         `json:"focus,omitempty"`
	Exercises []ExerciseView `json:"exercises"`
}

type ExerciseView struct {
	Name        string `json:"name"`
	Detail      string `json:"detail"`
	ImagePrompt string `json:"imagePrompt"`
}

type DietCard struct {
	Day       string     `json:"day"`
	Meals     []MealView `json:"meals"`
	EmptyText string     `json:"emptyText,omitempty"`
}

type MealView struct {
	Label string     `json:"label"`
	Items []ItemView `json:"items"`
}

type ItemView struct {
	Text        string `json:"text"`
	ImagePrompt string `json:"imagePrompt"`
}

// BuildView turns a normalized plan into the tabbed presentation model.
func BuildView(p *GeneratedPlan) PlanView {
	v := PlanView{
		Summary: p.Summary,
		Tabs: []Tab{
			{Key: TabWorkout, Title: "🏋️ Workout Plan"},
			{Key: TabDiet, Title: "🥗 Diet Plan"},
			{Key: TabTips, Title: "💬 Tips & Motivation"},
		},
		Workout:    make([]WorkoutCard, 0, len(p.WorkoutPlan)),
		Diet:       make([]DietCard, 0, len(p.DietPlan)),
		Tips:       p.Tips,
		Motivation: p.Motivation,
	}
	if len(v.Tips) == 0 {
		v.Tips = []string{}
		v.TipsEmpty = "No tips available."
	}

	for idx, block := range p.WorkoutPlan {
		day := block.Day
		if day == "" && idx < len(Weekdays) {
			day = Weekdays[idx]
		}
		card := WorkoutCard{Day: day, Focus: block.Focus, Exercises: []ExerciseView{}}
		for _, ex := range block.Exercises {
			card.Exercises = append(card.Exercises, ExerciseView{
				Name:        ex.Name,
				Detail:      exerciseDetail(ex),
				ImagePrompt: ImagePrompt(ImageKindWorkout, ex.Name, ""),
			})
		}
		v.Workout = append(v.Workout, card)
	}

	for _, day := range p.DietPlan {
		card := DietCard{Day: day.Day, Meals: []MealView{}}
		if len(day.Meals) == 0 {
			card.EmptyText = fmt.Sprintf("No meals listed for %s.", day.Day)
		}
		for i, meal := range day.Meals {
			mv := MealView{Label: DisplayMealLabel(meal, i), Items: []ItemView{}}
			for _, item := range meal.Items {
				mv.Items = append(mv.Items, ItemView{
					Text:        item,
					ImagePrompt: ImagePrompt(ImageKindDiet, item, ""),
				})
			}
			card.Meals = append(card.Meals, mv)
		}
		v.Diet = append(v.Diet, card)
	}

	return v
}

func exerciseDetail(ex Exercise) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{ex.Sets, ex.Reps, ex.Rest} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " • ")
}

// DisplayMealLabel repairs a generic meal label. A label of "day" or "meal"
// means coercion found no real name, so the items are searched for a meal
// keyword and, failing that, the meal's position picks a default.
func DisplayMealLabel(meal Meal, index int) string {
	label := meal.Meal
	if label == "" {
		label = "Meal"
	}
	lower := strings.ToLower(label)
	if lower != "day" && lower != "meal" {
		return label
	}

	joined := strings.ToLower(strings.Join(meal.Items, " "))
	if found := mealKeywordRe.FindString(joined); found != "" {
		return capitalize(found)
	}
	if index >= 0 && index < len(defaultMealLabels) {
		return defaultMealLabels[index]
	}
	return fmt.Sprintf("Meal %d", index+1)
}

// ImagePrompt wraps a clicked label in the photo template for its kind.
// An optional suffix is appended verbatim.
func ImagePrompt(kind ImageKind, subject, suffix string) string {
	var prompt string
	switch kind {
	case ImageKindDiet:
		prompt = fmt.Sprintf("High-quality plated food photo of %s, natural lighting, 4k, photorealistic", subject)
	default:
		prompt = fmt.Sprintf("Photorealistic image of someone performing %s in a gym setting, full body, dynamic angle", subject)
	}
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		prompt += " " + suffix
	}
	return prompt
}
