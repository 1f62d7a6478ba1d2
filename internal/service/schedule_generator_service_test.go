package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type fakeGenEmployees struct {
	employees []models.Employee
	err       error
}

func (f *fakeGenEmployees) List(context.Context, string, bool) ([]models.Employee, error) {
	return f.employees, f.err
}

type fakeGenSlots struct {
	slots []models.ShiftSlot
	err   error
}

func (f *fakeGenSlots) List(context.Context, string) ([]models.ShiftSlot, error) {
	return f.slots, f.err
}

type fakeGenAvailability struct {
	entries []models.AvailabilityEntry
	err     error
}

func (f *fakeGenAvailability) ListForRange(context.Context, string, time.Time, time.Time) ([]models.AvailabilityEntry, error) {
	return f.entries, f.err
}

type fakeShiftWriter struct {
	written []models.Shift
	calls   int
	err     error
}

func (f *fakeShiftWriter) ReplaceWeek(_ context.Context, _ string, _ time.Time, shifts []models.Shift) error {
	if f.err != nil {
		return f.err
	}
	f.calls++
	f.written = shifts
	return nil
}

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(context.Context, string) (string, error) {
	return f.response, f.err
}

const testWeekStart = "2025-03-03" // a Monday

func weekDate(offset int) time.Time {
	return time.Date(2025, 3, 3+offset, 0, 0, 0, 0, time.UTC)
}

func availableAllWeek(employeeID string, days ...int) []models.AvailabilityEntry {
	entries := make([]models.AvailabilityEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, models.AvailabilityEntry{EmployeeID: employeeID, Day: weekDate(d), Available: true})
	}
	return entries
}

func newGeneratorFixture(completer *fakeCompleter) (*ScheduleGeneratorService, *fakeShiftWriter, *fakeGenEmployees, *fakeGenSlots, *fakeGenAvailability) {
	employees := &fakeGenEmployees{employees: []models.Employee{
		{ID: "alice", Name: "Alice", Strength: models.StrengthNormal, Active: true},
		{ID: "bob", Name: "Bob", Strength: models.StrengthNew, Active: true},
		{ID: "carol", Name: "Carol", Strength: models.StrengthShiftLeader, Active: true},
	}}
	slots := &fakeGenSlots{slots: []models.ShiftSlot{
		{ID: "slot-mon-morning", Name: "Morning", Day: "monday", StartTime: "09:00", EndTime: "13:00", Required: 2},
	}}
	availability := &fakeGenAvailability{entries: append(
		availableAllWeek("alice", 0, 1),
		availableAllWeek("bob", 0, 1)...,
	)}
	writer := &fakeShiftWriter{}

	var c *fakeCompleter
	if completer != nil {
		c = completer
	}
	svc := NewScheduleGeneratorService(employees, slots, availability, writer, nil, nil, nil, ScheduleGeneratorConfig{AITimeout: 50 * time.Millisecond})
	if c != nil {
		svc.completer = c
	}
	return svc, writer, employees, slots, availability
}

func TestGeneratePrefersSeasonedFirstPick(t *testing.T) {
	// Carol has no availability entries, so the Monday morning slot must be
	// filled by Alice and Bob. Alice, the non-trainee, goes in first.
	svc, writer, _, _, _ := newGeneratorFixture(nil)

	resp, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleSourceHeuristic, resp.Source)
	assert.Equal(t, 2, resp.ShiftsCreated)
	require.Len(t, resp.Assignments, 2)
	assert.Equal(t, "alice", resp.Assignments[0].EmployeeID)
	assert.Equal(t, "bob", resp.Assignments[1].EmployeeID)
	assert.Empty(t, resp.Understaffed)
	assert.Len(t, writer.written, 2)
}

func TestGenerateReportsUnderstaffedSlot(t *testing.T) {
	svc, _, _, slots, _ := newGeneratorFixture(nil)
	slots.slots = append(slots.slots, models.ShiftSlot{
		ID: "slot-tue-evening", Name: "Evening", Day: "tuesday", StartTime: "17:00", EndTime: "21:00", Required: 3,
	})

	resp, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	// Only Alice and Bob are available on Tuesday, so the slot stays one
	// short without failing the run.
	require.Len(t, resp.Understaffed, 1)
	assert.Equal(t, "Evening", resp.Understaffed[0].SlotName)
	assert.Equal(t, 3, resp.Understaffed[0].Required)
	assert.Equal(t, 2, resp.Understaffed[0].Assigned)
}

func TestGenerateNeverDoubleBooksSameDay(t *testing.T) {
	svc, writer, _, slots, _ := newGeneratorFixture(nil)
	slots.slots = []models.ShiftSlot{
		{ID: "slot-mon-morning", Name: "Morning", Day: "monday", StartTime: "09:00", EndTime: "13:00", Required: 1},
		{ID: "slot-mon-evening", Name: "Evening", Day: "monday", StartTime: "17:00", EndTime: "21:00", Required: 1},
		{ID: "slot-mon-night", Name: "Night", Day: "monday", StartTime: "21:00", EndTime: "23:00", Required: 1},
	}

	resp, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	seen := map[string]int{}
	for _, shift := range writer.written {
		key := shift.EmployeeID + shift.Day.Format("2006-01-02")
		seen[key]++
		assert.Equal(t, 1, seen[key], "employee %s booked twice on %s", shift.EmployeeID, shift.Day)
	}
	// Two workers available on Monday, three single-headcount slots: one
	// stays open.
	assert.Equal(t, 2, resp.ShiftsCreated)
	require.Len(t, resp.Understaffed, 1)
}

func TestGenerateNeverAssignsUnavailableEmployee(t *testing.T) {
	svc, writer, _, _, availability := newGeneratorFixture(nil)
	availability.entries = append(availability.entries, models.AvailabilityEntry{
		EmployeeID: "carol", Day: weekDate(0), Available: false,
	})

	_, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	for _, shift := range writer.written {
		assert.NotEqual(t, "carol", shift.EmployeeID)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, firstWriter, _, _, _ := newGeneratorFixture(nil)
	second, secondWriter, _, _, _ := newGeneratorFixture(nil)

	respA, err := first.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)
	respB, err := second.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	assert.Equal(t, respA.Assignments, respB.Assignments)
	assert.Equal(t, len(firstWriter.written), len(secondWriter.written))
	for i := range firstWriter.written {
		assert.Equal(t, firstWriter.written[i].EmployeeID, secondWriter.written[i].EmployeeID)
		assert.Equal(t, firstWriter.written[i].SlotID, secondWriter.written[i].SlotID)
	}
}

func TestGenerateFallsBackWhenAIErrors(t *testing.T) {
	plain, _, _, _, _ := newGeneratorFixture(nil)
	failing, _, _, _, _ := newGeneratorFixture(&fakeCompleter{err: errors.New("deadline exceeded")})

	want, err := plain.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)
	got, err := failing.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleSourceHeuristic, got.Source)
	assert.Equal(t, want.Assignments, got.Assignments)
}

func TestGenerateFallsBackOnMalformedAIResponse(t *testing.T) {
	svc, _, _, _, _ := newGeneratorFixture(&fakeCompleter{response: "sorry, I cannot help with that"})

	resp, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleSourceHeuristic, resp.Source)
	assert.Equal(t, 2, resp.ShiftsCreated)
}

func TestGenerateAcceptsValidFencedAIPlan(t *testing.T) {
	plan := "```json\n{\"assignments\":[{\"slot_id\":\"slot-mon-morning\",\"employee_ids\":[\"bob\",\"alice\"]}]}\n```"
	svc, writer, _, _, _ := newGeneratorFixture(&fakeCompleter{response: plan})

	resp, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleSourceAI, resp.Source)
	require.Len(t, writer.written, 2)
	assert.Equal(t, "bob", writer.written[0].EmployeeID)
	assert.Equal(t, "alice", writer.written[1].EmployeeID)
	for _, shift := range writer.written {
		assert.Equal(t, models.ScheduleSourceAI, shift.Source)
	}
}

func TestGenerateRejectsAIPlanWithViolations(t *testing.T) {
	cases := map[string]string{
		"unknown employee": `{"assignments":[{"slot_id":"slot-mon-morning","employee_ids":["mallory"]}]}`,
		"unknown slot":     `{"assignments":[{"slot_id":"slot-nope","employee_ids":["alice"]}]}`,
		"over capacity":    `{"assignments":[{"slot_id":"slot-mon-morning","employee_ids":["alice","bob","carol"]}]}`,
		"unavailable":      `{"assignments":[{"slot_id":"slot-mon-morning","employee_ids":["carol"]}]}`,
	}
	for name, plan := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _, _, _, _ := newGeneratorFixture(&fakeCompleter{response: plan})
			resp, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
			require.NoError(t, err)
			assert.Equal(t, models.ScheduleSourceHeuristic, resp.Source)
		})
	}
}

func TestGenerateRejectsAIPlanWithDoubleBooking(t *testing.T) {
	svc, _, _, slots, _ := newGeneratorFixture(&fakeCompleter{response: `{"assignments":[
        {"slot_id":"slot-mon-morning","employee_ids":["alice","bob"]},
        {"slot_id":"slot-mon-evening","employee_ids":["alice"]}]}`})
	slots.slots = append(slots.slots, models.ShiftSlot{
		ID: "slot-mon-evening", Name: "Evening", Day: "monday", StartTime: "17:00", EndTime: "21:00", Required: 1,
	})

	resp, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleSourceHeuristic, resp.Source)
}

func TestGenerateRotatesAssignmentsEvenly(t *testing.T) {
	svc, writer, employees, slots, availability := newGeneratorFixture(nil)
	employees.employees = []models.Employee{
		{ID: "alice", Name: "Alice", Strength: models.StrengthNormal, Active: true},
		{ID: "bob", Name: "Bob", Strength: models.StrengthNormal, Active: true},
		{ID: "carol", Name: "Carol", Strength: models.StrengthNormal, Active: true},
	}
	slots.slots = nil
	availability.entries = nil
	for d := 0; d < 6; d++ {
		slots.slots = append(slots.slots, models.ShiftSlot{
			ID: fmt.Sprintf("slot-%d", d), Name: "Shift", Day: models.WeekDays[d],
			StartTime: "09:00", EndTime: "17:00", Required: 1,
		})
		availability.entries = append(availability.entries,
			models.AvailabilityEntry{EmployeeID: "alice", Day: weekDate(d), Available: true},
			models.AvailabilityEntry{EmployeeID: "bob", Day: weekDate(d), Available: true},
			models.AvailabilityEntry{EmployeeID: "carol", Day: weekDate(d), Available: true},
		)
	}

	_, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)

	counts := map[string]int{}
	for _, shift := range writer.written {
		counts[shift.EmployeeID]++
	}
	assert.Equal(t, 2, counts["alice"])
	assert.Equal(t, 2, counts["bob"])
	assert.Equal(t, 2, counts["carol"])
}

func TestGenerateRequiresMondayWeekStart(t *testing.T) {
	svc, _, _, _, _ := newGeneratorFixture(nil)

	_, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: "2025-03-04"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestGenerateFailsWithoutSlotsOrEmployees(t *testing.T) {
	svc, _, employees, _, _ := newGeneratorFixture(nil)
	employees.employees = nil

	_, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNothingToSchedule.Code, appErr.Code)
}

func TestGenerateReplacesExistingWeek(t *testing.T) {
	svc, writer, _, slots, _ := newGeneratorFixture(nil)

	_, err := svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)
	assert.Len(t, writer.written, 2)

	// Slot shrinks to one head; regeneration leaves exactly one shift, not a
	// mix of old and new rows.
	slots.slots[0].Required = 1
	_, err = svc.Generate(context.Background(), "biz-1", dto.GenerateScheduleRequest{WeekStart: testWeekStart})
	require.NoError(t, err)
	assert.Equal(t, 2, writer.calls)
	assert.Len(t, writer.written, 1)
}
