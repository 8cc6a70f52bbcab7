package geminiservice

import (
	"encoding/json"
	"fmt"

	"FitPlan_V0.1/internal/plan"
)

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

/*
PlanPromptTemplate is the instruction sent for every plan generation.
It pins the five top-level keys and the seven-day shape of both plans, then
appends the user's profile as indented JSON through fmt.Sprintf.
*/
const PlanPromptTemplate = `
You are a professional fitness coach and nutrition expert.
Generate a **personalized 7-day fitness plan** based on the user's details below.

The output MUST be a VALID JSON object with EXACTLY the following top-level keys:

1. "summary" (string)
   - A short motivational summary (2-3 sentences).

2. "workoutPlan" (array of EXACTLY 7 objects, Monday to Sunday)
   Each workout day MUST follow this structure:
   {
     "day": "Monday" | "Tuesday" | "Wednesday" | "Thursday" | "Friday" | "Saturday" | "Sunday",
     "focus": "Legs" | "Full Body" | "Back & Biceps" | "Cardio" | "Rest" | etc.,
     "exercises": [
       {
         "name": "Barbell Squat",
         "sets": "3",
         "reps": "8-12",
         "rest": "60-90 sec"
       }
     ]
   }

3. "dietPlan" (array of EXACTLY 7 objects, Monday to Sunday)
   Each diet day MUST follow this structure:
   {
     "day": "Monday",
     "meals": [
       { "meal": "Breakfast", "items": ["Oatmeal with berries", "Greek yogurt"] }
     ]
   }

4. "tips" (array of 5-10 short, actionable fitness tips as strings)

5. "motivation" (string)
   - A powerful 2-3 sentence motivational message.

IMPORTANT RULES:
- RETURN ONLY RAW JSON. No explanations, no markdown, no notes.
- Make sure the JSON is valid and properly formatted.
- workoutPlan MUST always have exactly 7 days.
- dietPlan MUST always have exactly 7 days.
- Customize everything based on the user details below.

User Details:
%s

-- NOW OUTPUT RAW JSON ONLY BELOW THIS LINE --
`

// MotivationPrompt asks for the short quote shown on the results page.
const MotivationPrompt = `Provide a single 1-2 sentence motivational fitness quote. Keep it punchy, positive, and suitable to display as a daily message.`

// BuildPlanPrompt renders the plan instruction for profile. It is pure and
// never fails.
func BuildPlanPrompt(profile plan.UserProfile) string {
	userJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		userJSON = []byte("{}")
	}
	return fmt.Sprintf(PlanPromptTemplate, userJSON)
}
