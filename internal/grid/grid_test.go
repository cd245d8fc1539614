package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/shiftgrid/internal/solver"
)

func TestCompile_BasicGrid(t *testing.T) {
	// --- Arrange ---
	in := Input{
		Period:    "09:00–11:00",
		Solution:  map[string][]string{"K1": {"A", "A", "R", "."}},
		Employees: 1,
		Status:    solver.Optimal,
	}

	// --- Act ---
	g, err := Compile(in)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"0900", "0930", "1000", "1030"}, g.Headers)
	require.Len(t, g.Rows, 1)

	expected := Row{Label: "K1", Cells: []Cell{
		{Text: "A", Full: "A", Style: StyleWork, Code: "a"},
		{Text: "A", Full: "A", Style: StyleWork, Code: "a"},
		{Text: ".", Full: "R", Style: StyleRest},
		{Text: ".", Full: ".", Style: StyleRest},
	}}
	if diff := cmp.Diff(expected, g.Rows[0]); diff != "" {
		t.Errorf("K1 row mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, ShortageLabel, g.Shortage.Label)
	require.Len(t, g.Shortage.Cells, 4)
	for _, c := range g.Shortage.Cells {
		assert.Equal(t, StyleEmpty, c.Style)
	}
}

func TestCompile_RowsFollowConfiguredCount(t *testing.T) {
	testCases := []struct {
		name      string
		employees int
		solution  map[string][]string
		expected  []string
	}{
		{
			name:      "configured count pads missing employees",
			employees: 3,
			solution:  map[string][]string{"K2": {"A", "A"}},
			expected:  []string{"K1", "K2", "K3"},
		},
		{
			name:     "falls back to solution size",
			solution: map[string][]string{"K1": {"A", "A"}, "K2": {"B", "B"}},
			expected: []string{"K1", "K2"},
		},
		{
			name:     "no employees at all",
			solution: map[string][]string{},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Compile(Input{Period: "09:00–10:00", Solution: tc.solution, Employees: tc.employees})
			require.NoError(t, err)

			labels := make([]string, 0, len(g.Rows))
			for _, r := range g.Rows {
				labels = append(labels, r.Label)
				assert.Len(t, r.Cells, 2)
			}
			assert.Equal(t, tc.expected, labels)
		})
	}
}

func TestCompile_MissingEmployeeRendersEmpty(t *testing.T) {
	g, err := Compile(Input{Period: "09:00–10:00", Solution: map[string][]string{}, Employees: 1})
	require.NoError(t, err)

	for _, c := range g.Rows[0].Cells {
		assert.Equal(t, Cell{Style: StyleEmpty}, c)
	}
}

func TestCompile_ShortRowIsPadded(t *testing.T) {
	g, err := Compile(Input{
		Period:    "09:00–10:30",
		Solution:  map[string][]string{"K1": {"A"}},
		Employees: 1,
	})
	require.NoError(t, err)

	cells := g.Rows[0].Cells
	require.Len(t, cells, 3)
	assert.Equal(t, StyleWork, cells[0].Style)
	assert.Equal(t, StyleEmpty, cells[1].Style)
	assert.Equal(t, StyleEmpty, cells[2].Style)
}

func TestCompile_CellClassification(t *testing.T) {
	g, err := Compile(Input{
		Period:    "09:00–11:00",
		Solution:  map[string][]string{"K1": {"", "  ", "Front-Desk 2", "."}},
		Employees: 1,
	})
	require.NoError(t, err)
	cells := g.Rows[0].Cells

	assert.Equal(t, Cell{Style: StyleEmpty}, cells[0])
	assert.Equal(t, Cell{Text: "  ", Full: "  ", Style: StyleEmpty}, cells[1])
	assert.Equal(t, "frontdesk2", cells[2].Code)
	assert.Equal(t, "Front-Desk 2", cells[2].Full)
	assert.Equal(t, "task-work task-code-frontdesk2", cells[2].Class())
	assert.Equal(t, "task-rest", cells[3].Class())
}

func TestCompile_ShortageRow(t *testing.T) {
	testCases := []struct {
		name         string
		unfilled     []solver.UnfilledSlot
		expectedText string
		expectedFull string
	}{
		{
			name: "two codes sorted, not truncated",
			unfilled: []solver.UnfilledSlot{
				{TimeSlot: "09:30", JobCode: "B"},
				{TimeSlot: "09:30", JobCode: "A"},
			},
			expectedText: "A,B",
			expectedFull: "A,B",
		},
		{
			name: "three codes truncated with plus",
			unfilled: []solver.UnfilledSlot{
				{TimeSlot: "09:30", JobCode: "C"},
				{TimeSlot: "09:30", JobCode: "B"},
				{TimeSlot: "09:30", JobCode: "A"},
			},
			expectedText: "A,B+",
			expectedFull: "A,B,C",
		},
		{
			name:         "single long code cut at four",
			unfilled:     []solver.UnfilledSlot{{TimeSlot: "09:30", JobCode: "KITCHEN"}},
			expectedText: "KITC",
			expectedFull: "KITCHEN",
		},
		{
			name: "duplicates collapse",
			unfilled: []solver.UnfilledSlot{
				{TimeSlot: "09:30", JobCode: "A"},
				{TimeSlot: "9:45", JobCode: "A"},
			},
			expectedText: "A",
			expectedFull: "A",
		},
		{
			name:         "multibyte codes count characters",
			unfilled:     []solver.UnfilledSlot{{TimeSlot: "09:30", JobCode: "廚房清潔員"}},
			expectedText: "廚房清潔",
			expectedFull: "廚房清潔員",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Compile(Input{
				Period:   "09:00–10:30",
				Solution: map[string][]string{},
				Unfilled: tc.unfilled,
			})
			require.NoError(t, err)

			cell := g.Shortage.Cells[1]
			assert.Equal(t, StyleUnfilled, cell.Style)
			assert.Equal(t, tc.expectedText, cell.Text)
			assert.Equal(t, tc.expectedFull, cell.Full)
			assert.Equal(t, StyleEmpty, g.Shortage.Cells[0].Style)
			assert.Equal(t, StyleEmpty, g.Shortage.Cells[2].Style)
		})
	}
}

func TestCompile_ShortageIgnoresOutOfPeriodAndBadTimes(t *testing.T) {
	g, err := Compile(Input{
		Period:   "09:00–10:00",
		Solution: map[string][]string{},
		Unfilled: []solver.UnfilledSlot{
			{TimeSlot: "08:00", JobCode: "A"},
			{TimeSlot: "later", JobCode: "B"},
		},
	})
	require.NoError(t, err)

	for _, c := range g.Shortage.Cells {
		assert.Equal(t, StyleEmpty, c.Style)
	}
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		in        Input
		expectErr error
	}{
		{
			name:      "no solution and no success",
			in:        Input{Period: "09:00–10:00", Status: solver.Infeasible},
			expectErr: ErrNoData,
		},
		{
			name:      "inverted period",
			in:        Input{Period: "10:00–09:00", Solution: map[string][]string{}},
			expectErr: ErrInvalidPeriod,
		},
		{
			name:      "empty period",
			in:        Input{Period: "10:00–10:00", Solution: map[string][]string{}},
			expectErr: ErrInvalidPeriod,
		},
		{
			name:      "longer than a day",
			in:        Input{Period: "00:00–24:30", Solution: map[string][]string{}},
			expectErr: ErrInvalidPeriod,
		},
		{
			name:      "absurd end hour",
			in:        Input{Period: "00:00–4000000000000000000:00", Solution: map[string][]string{}},
			expectErr: ErrInvalidPeriod,
		},
		{
			name:      "hour overflowing the slot index",
			in:        Input{Period: "4611686018427387904:00–4611686018427387905:00", Status: solver.Feasible},
			expectErr: ErrInvalidPeriod,
		},
		{
			name:      "garbage period",
			in:        Input{Period: "garbage", Status: solver.Feasible},
			expectErr: ErrInvalidPeriod,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Compile(tc.in)
			require.ErrorIs(t, err, tc.expectErr)
			assert.Nil(t, g)
		})
	}
}

func TestCompile_SuccessWithoutSolution(t *testing.T) {
	g, err := Compile(Input{Period: "09:00–10:00", Employees: 2, Status: solver.Optimal})
	require.NoError(t, err)
	assert.Len(t, g.Rows, 2)
}

func TestCompile_FullDayPeriod(t *testing.T) {
	g, err := Compile(Input{Period: "06:00–30:00", Employees: 1, Status: solver.Optimal})
	require.NoError(t, err)
	assert.Len(t, g.Headers, 48)
	assert.Equal(t, "2930", g.Headers[47])
}

func TestCompile_OvernightHeaders(t *testing.T) {
	g, err := Compile(Input{Period: "23:00–25:00", Solution: map[string][]string{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2300", "2330", "2400", "2430"}, g.Headers)
}
