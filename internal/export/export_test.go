package export

import (
	"bytes"
	"neonfit/studio-tracker/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestHistoryFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "Alice_Chen_History_2024-03-09.xlsx", HistoryFileName("Alice Chen", now))
	assert.Equal(t, "Mary_Jane_Watson_History_2024-03-09.xlsx", HistoryFileName("Mary  Jane\tWatson", now))

	// 2024-03-10 07:30 in Shanghai is still March 9th in UTC
	shanghai := time.FixedZone("CST", 8*60*60)
	late := time.Date(2024, 3, 10, 7, 30, 0, 0, shanghai)
	assert.Equal(t, "Alice_Chen_History_2024-03-09.xlsx", HistoryFileName("Alice Chen", late))
}

func TestWriteHistory(t *testing.T) {
	member := &domain.Member{
		Name: "Alice Chen",
		Workouts: []domain.Workout{
			{Date: "2024-01-01", Exercise: "Squat", Weight: 50, Sets: 3, Reps: 8},
			{Date: "2024-01-08", Exercise: "Squat", Weight: 52.5, Sets: 3, Reps: 8},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, member))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Exercise", "Weight_KG", "Sets", "Reps", "Total_Volume"}, rows[0])
	assert.Equal(t, []string{"2024-01-01", "Squat", "50", "3", "8", "1200"}, rows[1])
	assert.Equal(t, []string{"2024-01-08", "Squat", "52.5", "3", "8", "1260"}, rows[2])
}

func TestWriteHistory_NoWorkouts(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHistory(&buf, &domain.Member{Name: "Empty"})
	assert.ErrorIs(t, err, ErrNoWorkouts)
	assert.Zero(t, buf.Len())
}
