// Package export writes a member's training history as a spreadsheet.
package export

import (
	"errors"
	"fmt"
	"io"
	"neonfit/studio-tracker/internal/domain"
	"regexp"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Training History"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// NoWorkoutsMessage is the notice shown instead of an empty export.
const NoWorkoutsMessage = "No workout data to export."

// ErrNoWorkouts is returned for a member without any recorded workout.
var ErrNoWorkouts = errors.New("no workout data to export")

var header = []interface{}{"Date", "Exercise", "Weight_KG", "Sets", "Reps", "Total_Volume"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// HistoryFileName returns "{name}_History_{YYYY-MM-DD}.xlsx" with every
// whitespace run in the name replaced by an underscore. The date is taken in UTC.
func HistoryFileName(memberName string, now time.Time) string {
	return fmt.Sprintf("%s_History_%s.xlsx", whitespaceRun.ReplaceAllString(memberName, "_"), now.UTC().Format(domain.DateLayout))
}

// WriteHistory writes one row per workout, in the member's workout order.
func WriteHistory(w io.Writer, member *domain.Member) error {
	if len(member.Workouts) == 0 {
		return ErrNoWorkouts
	}

	f := excelize.NewFile()
	defer f.Close()

	// a new workbook starts with Sheet1
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, wo := range member.Workouts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{wo.Date, wo.Exercise, wo.Weight, wo.Sets, wo.Reps, wo.Volume()}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
