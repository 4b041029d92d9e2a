package export

import (
	"fmt"
	"io"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/plan"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the workbook written by WriteXLSX.
const (
	SheetSessions = "Sessions"
	SheetSets     = "Sets"
	SheetSettings = "Settings"
)

var (
	sessionHeader = []interface{}{"ID", "Date", "Day", "Focus", "Duration (min)", "Completed", "Exercises", "Sets", "Body Weight"}
	setHeader     = []interface{}{"Session ID", "Date", "Exercise ID", "Exercise", "Set", "Weight", "Reps", "Completed", "Timestamp"}
)

// WriteXLSX writes doc as a workbook with one row per session, one row per
// logged set, and the settings as key/value rows.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetSessions)
	if _, err := f.NewSheet(SheetSets); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SheetSets, err)
	}
	if _, err := f.NewSheet(SheetSettings); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SheetSettings, err)
	}

	if err := setRow(f, SheetSessions, 1, sessionHeader); err != nil {
		return err
	}
	if err := setRow(f, SheetSets, 1, setHeader); err != nil {
		return err
	}

	setRowNum := 2
	for i, s := range doc.Sessions {
		var bodyWeight interface{} = ""
		if s.BodyWeight != nil {
			bodyWeight = *s.BodyWeight
		}
		totalSets := 0
		for _, e := range s.Exercises {
			totalSets += len(e.CompletedSets)
		}
		row := []interface{}{
			s.ID,
			s.Date.Format(time.RFC3339),
			string(s.DayType),
			s.DayType.Title(),
			s.DurationMinutes(),
			s.Completed,
			len(s.Exercises),
			totalSets,
			bodyWeight,
		}
		if err := setRow(f, SheetSessions, i+2, row); err != nil {
			return err
		}

		for _, e := range s.Exercises {
			name := e.ExerciseID
			if def, ok := plan.Lookup(s.DayType, e.ExerciseID); ok {
				name = def.Name
			}
			for n, set := range e.CompletedSets {
				row := []interface{}{
					s.ID,
					s.Date.Format(time.RFC3339),
					e.ExerciseID,
					name,
					n + 1,
					set.Weight,
					set.Reps,
					set.Completed,
					set.Timestamp.Format(time.RFC3339),
				}
				if err := setRow(f, SheetSets, setRowNum, row); err != nil {
					return err
				}
				setRowNum++
			}
		}
	}

	if err := writeSettings(f, doc); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSettings(f *excelize.File, doc Document) error {
	st := doc.Settings
	lastDate := ""
	if st.LastWorkoutDate != nil {
		lastDate = history.FormatDate(*st.LastWorkoutDate)
	}
	rows := [][]interface{}{
		{"Setting", "Value"},
		{"Body Weight", st.BodyWeight},
		{"Week Starts With Day1", st.WeekStartsWithDay1},
		{"Last Workout Date", lastDate},
		{"Last Workout Type", string(st.LastWorkoutType)},
		{"Export Date", doc.ExportDate.Format(time.RFC3339)},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSettings, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
