package models

import "time"

// DayType identifies one of the two fixed workout templates.
type DayType string

const (
	Day1 DayType = "Day1"
	Day2 DayType = "Day2"
)

// Valid reports whether d is a known day type.
func (d DayType) Valid() bool {
	return d == Day1 || d == Day2
}

// Other returns the alternate day type.
func (d DayType) Other() DayType {
	if d == Day1 {
		return Day2
	}
	return Day1
}

// Title returns the muscle-group summary shown for the day.
func (d DayType) Title() string {
	switch d {
	case Day1:
		return "Chest, Triceps, Quads/Glutes"
	case Day2:
		return "Back, Shoulders, Biceps, Abs"
	default:
		return ""
	}
}

func (d DayType) String() string {
	return string(d)
}

// ExerciseDefinition is a single entry of the plan catalog.
type ExerciseDefinition struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	TargetSets   int      `json:"targetSets"`
	TargetReps   int      `json:"targetReps"`
	IsSuperset   bool     `json:"isSuperset,omitempty"`
	SupersetWith []string `json:"supersetWith,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// CompletedSet is one logged set of an exercise.
type CompletedSet struct {
	Weight    float64   `json:"weight"`
	Reps      int       `json:"reps"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

// ExerciseProgress holds the sets logged for one exercise in a session.
// Slice order is set order.
type ExerciseProgress struct {
	ExerciseID    string         `json:"exerciseId"`
	CompletedSets []CompletedSet `json:"completedSets"`
}

// CompletedCount returns the number of sets flagged as completed.
func (p ExerciseProgress) CompletedCount() int {
	n := 0
	for _, s := range p.CompletedSets {
		if s.Completed {
			n++
		}
	}
	return n
}

// ExerciseComplete reports whether the progress meets the exercise's target set count.
func ExerciseComplete(p ExerciseProgress, def ExerciseDefinition) bool {
	return p.CompletedCount() >= def.TargetSets
}

// WorkoutSession is one workout attempt.
type WorkoutSession struct {
	ID         string             `json:"id"`
	Date       time.Time          `json:"date"`
	DayType    DayType            `json:"dayType"`
	Exercises  []ExerciseProgress `json:"exercises"`
	BodyWeight *float64           `json:"bodyWeight,omitempty"`
	Duration   *int               `json:"duration,omitempty"` // minutes
	Notes      string             `json:"notes,omitempty"`
	Completed  bool               `json:"completed"`
}

// Exercise returns the index of the progress entry for exerciseID, or -1.
func (s *WorkoutSession) Exercise(exerciseID string) int {
	for i := range s.Exercises {
		if s.Exercises[i].ExerciseID == exerciseID {
			return i
		}
	}
	return -1
}

// DurationMinutes returns the recorded duration, treating a missing value as zero.
func (s WorkoutSession) DurationMinutes() int {
	if s.Duration == nil {
		return 0
	}
	return *s.Duration
}

// Clone returns a deep copy of the session.
func (s WorkoutSession) Clone() WorkoutSession {
	c := s
	if s.Exercises != nil {
		c.Exercises = make([]ExerciseProgress, len(s.Exercises))
		for i, ex := range s.Exercises {
			c.Exercises[i] = ExerciseProgress{
				ExerciseID:    ex.ExerciseID,
				CompletedSets: append([]CompletedSet{}, ex.CompletedSets...),
			}
		}
	}
	if s.BodyWeight != nil {
		bw := *s.BodyWeight
		c.BodyWeight = &bw
	}
	if s.Duration != nil {
		d := *s.Duration
		c.Duration = &d
	}
	return c
}

// SetRecord is the weight and reps of a single set, used for history hints.
type SetRecord struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// UserSettings is the singleton profile record.
type UserSettings struct {
	BodyWeight         float64    `json:"bodyWeight"`
	WeekStartsWithDay1 bool       `json:"weekStartsWithDay1"`
	LastWorkoutDate    *time.Time `json:"lastWorkoutDate,omitempty"`
	LastWorkoutType    DayType    `json:"lastWorkoutType,omitempty"`
}

const DefaultBodyWeight = 150

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() UserSettings {
	return UserSettings{
		BodyWeight:         DefaultBodyWeight,
		WeekStartsWithDay1: true,
	}
}
