// Package plan holds the fixed two-day exercise catalog.
package plan

import "github.com/claude/liftlog/internal/models"

var catalog = map[models.DayType][]models.ExerciseDefinition{
	models.Day1: {
		{ID: "hip-thrusts", Name: "Barbell Hip Thrusts", TargetSets: 4, TargetReps: 30},
		{ID: "chest-press", Name: "Dumbbell Chest Press", TargetSets: 3, TargetReps: 15,
			IsSuperset: true, SupersetWith: []string{"goblet-squat"}},
		{ID: "goblet-squat", Name: "Goblet Squat", TargetSets: 3, TargetReps: 20,
			IsSuperset: true, SupersetWith: []string{"chest-press"}},
		{ID: "glute-kickbacks", Name: "Cable Glute Kickbacks", TargetSets: 3, TargetReps: 25,
			Notes: "20-30 per leg"},
		{ID: "chest-fly", Name: "Chest Fly", TargetSets: 3, TargetReps: 15,
			IsSuperset: true, SupersetWith: []string{"step-ups"}},
		{ID: "step-ups", Name: "Step-Ups", TargetSets: 3, TargetReps: 15,
			IsSuperset: true, SupersetWith: []string{"chest-fly"}, Notes: "15 each leg"},
		{ID: "overhead-triceps", Name: "Seated Overhead Triceps Extension", TargetSets: 3, TargetReps: 15},
		{ID: "triceps-pushdown", Name: "Cable Triceps Pushdown", TargetSets: 3, TargetReps: 15},
	},
	models.Day2: {
		{ID: "lat-pulldown", Name: "Lat Pulldown", TargetSets: 3, TargetReps: 15,
			IsSuperset: true, SupersetWith: []string{"seated-row"}},
		{ID: "seated-row", Name: "Seated Row", TargetSets: 3, TargetReps: 15,
			IsSuperset: true, SupersetWith: []string{"lat-pulldown"}},
		{ID: "lateral-raises", Name: "Dumbbell Lateral Raises", TargetSets: 3, TargetReps: 20,
			IsSuperset: true, SupersetWith: []string{"upright-row"}},
		{ID: "upright-row", Name: "Upright Row", TargetSets: 3, TargetReps: 20,
			IsSuperset: true, SupersetWith: []string{"lateral-raises"}},
		{ID: "romanian-deadlifts", Name: "Romanian Deadlifts", TargetSets: 3, TargetReps: 20},
		{ID: "incline-curls", Name: "Incline Dumbbell Curls", TargetSets: 3, TargetReps: 17,
			Notes: "15-20 reps"},
		{ID: "abs-circuit", Name: "Lower Abs Circuit", TargetSets: 3, TargetReps: 1,
			Notes: "Hanging leg raises (x15), Russian Twist, Side V ups (x20/side), Side plank dips (x10/side)"},
	},
}

// Days returns the day types in the catalog, in order.
func Days() []models.DayType {
	return []models.DayType{models.Day1, models.Day2}
}

// Exercises returns a copy of the exercises for day in catalog order.
// ok is false for an unknown day type.
func Exercises(day models.DayType) (_ []models.ExerciseDefinition, ok bool) {
	defs, ok := catalog[day]
	if !ok {
		return nil, false
	}
	out := make([]models.ExerciseDefinition, len(defs))
	for i, d := range defs {
		out[i] = d
		if d.SupersetWith != nil {
			out[i].SupersetWith = append([]string{}, d.SupersetWith...)
		}
	}
	return out, true
}

// Lookup finds a single exercise definition by day and id.
func Lookup(day models.DayType, exerciseID string) (models.ExerciseDefinition, bool) {
	for _, d := range catalog[day] {
		if d.ID == exerciseID {
			return d, true
		}
	}
	return models.ExerciseDefinition{}, false
}
