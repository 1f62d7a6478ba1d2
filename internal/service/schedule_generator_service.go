package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/pkg/ai"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
)

type generatorEmployeeReader interface {
	List(ctx context.Context, businessID string, activeOnly bool) ([]models.Employee, error)
}

type generatorSlotReader interface {
	List(ctx context.Context, businessID string) ([]models.ShiftSlot, error)
}

type generatorAvailabilityReader interface {
	ListForRange(ctx context.Context, businessID string, from, to time.Time) ([]models.AvailabilityEntry, error)
}

type scheduleWriter interface {
	ReplaceWeek(ctx context.Context, businessID string, weekStart time.Time, shifts []models.Shift) error
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	AITimeout time.Duration
}

// ScheduleGeneratorService produces weekly rosters. It first asks the AI
// planner for an assignment and falls back to a deterministic rotation
// heuristic whenever the AI is unavailable, times out, or returns a plan
// that violates a staffing rule.
type ScheduleGeneratorService struct {
	employees    generatorEmployeeReader
	slots        generatorSlotReader
	availability generatorAvailabilityReader
	shifts       scheduleWriter
	completer    ai.Completer
	validator    *validator.Validate
	logger       *zap.Logger
	config       ScheduleGeneratorConfig
}

// NewScheduleGeneratorService wires generator dependencies. A nil completer
// disables the AI path entirely.
func NewScheduleGeneratorService(
	employees generatorEmployeeReader,
	slots generatorSlotReader,
	availability generatorAvailabilityReader,
	shifts scheduleWriter,
	completer ai.Completer,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 6 * time.Second
	}
	return &ScheduleGeneratorService{
		employees:    employees,
		slots:        slots,
		availability: availability,
		shifts:       shifts,
		completer:    completer,
		validator:    validate,
		logger:       logger,
		config:       cfg,
	}
}

// slotOccurrence is one concrete staffing demand: a slot projected onto a
// calendar date of the requested week.
type slotOccurrence struct {
	Slot models.ShiftSlot
	Date time.Time
}

// Generate builds and persists the roster for one week. The stored schedule
// for that week is replaced wholesale; regeneration is idempotent for
// unchanged inputs.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, businessID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	weekStart, err := time.ParseInLocation("2006-01-02", req.WeekStart, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_start must be a YYYY-MM-DD date")
	}
	if weekStart.Weekday() != time.Monday {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_start must fall on a Monday")
	}

	employees, err := s.employees.List(ctx, businessID, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employees")
	}
	slots, err := s.slots.List(ctx, businessID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift slots")
	}
	if len(employees) == 0 || len(slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNothingToSchedule, "")
	}

	entries, err := s.availability.ListForRange(ctx, businessID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	occurrences := projectSlots(slots, weekStart)
	available := buildAvailabilityIndex(entries)

	source := models.ScheduleSourceHeuristic
	assignments, ok := s.tryAIPlan(ctx, req.Preferences, employees, occurrences, available)
	if ok {
		source = models.ScheduleSourceAI
	} else {
		assignments = assignHeuristic(employees, occurrences, available)
	}

	shifts := make([]models.Shift, 0, countAssignments(assignments))
	for _, occ := range occurrences {
		for _, employeeID := range assignments[occ.Slot.ID] {
			shifts = append(shifts, models.Shift{
				SlotID:     occ.Slot.ID,
				EmployeeID: employeeID,
				Day:        occ.Date,
				StartTime:  occ.Slot.StartTime,
				EndTime:    occ.Slot.EndTime,
				Source:     source,
			})
		}
	}

	if err := s.shifts.ReplaceWeek(ctx, businessID, weekStart, shifts); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
	}

	nameByID := make(map[string]string, len(employees))
	for _, e := range employees {
		nameByID[e.ID] = e.Name
	}

	resp := &dto.GenerateScheduleResponse{
		WeekStart:     req.WeekStart,
		Source:        source,
		ShiftsCreated: len(shifts),
		Assignments:   make([]dto.Assignment, 0, len(shifts)),
	}
	for _, occ := range occurrences {
		assigned := assignments[occ.Slot.ID]
		for _, employeeID := range assigned {
			resp.Assignments = append(resp.Assignments, dto.Assignment{
				Day:          occ.Slot.Day,
				Date:         occ.Date.Format("2006-01-02"),
				SlotID:       occ.Slot.ID,
				SlotName:     occ.Slot.Name,
				StartTime:    occ.Slot.StartTime,
				EndTime:      occ.Slot.EndTime,
				EmployeeID:   employeeID,
				EmployeeName: nameByID[employeeID],
			})
		}
		if len(assigned) < occ.Slot.Required {
			resp.Understaffed = append(resp.Understaffed, dto.UnderstaffedSlot{
				Day:      occ.Slot.Day,
				Date:     occ.Date.Format("2006-01-02"),
				SlotName: occ.Slot.Name,
				Required: occ.Slot.Required,
				Assigned: len(assigned),
			})
		}
	}

	s.logger.Info("schedule generated",
		zap.String("businessId", businessID),
		zap.String("weekStart", req.WeekStart),
		zap.String("source", source),
		zap.Int("shifts", len(shifts)),
		zap.Int("understaffed", len(resp.Understaffed)),
	)
	return resp, nil
}

// projectSlots maps slot templates onto concrete dates of the week and
// returns them in deterministic order: weekday, then start time, then name.
func projectSlots(slots []models.ShiftSlot, weekStart time.Time) []slotOccurrence {
	occurrences := make([]slotOccurrence, 0, len(slots))
	for _, slot := range slots {
		offset := models.DayIndex(slot.Day)
		if offset < 0 {
			continue
		}
		occurrences = append(occurrences, slotOccurrence{Slot: slot, Date: weekStart.AddDate(0, 0, offset)})
	}
	sort.SliceStable(occurrences, func(i, j int) bool {
		di, dj := models.DayIndex(occurrences[i].Slot.Day), models.DayIndex(occurrences[j].Slot.Day)
		if di != dj {
			return di < dj
		}
		if occurrences[i].Slot.StartTime != occurrences[j].Slot.StartTime {
			return occurrences[i].Slot.StartTime < occurrences[j].Slot.StartTime
		}
		return occurrences[i].Slot.Name < occurrences[j].Slot.Name
	})
	return occurrences
}

// buildAvailabilityIndex keys entries by employee then date. A missing entry
// means the employee is unavailable that day.
func buildAvailabilityIndex(entries []models.AvailabilityEntry) map[string]map[string]bool {
	index := make(map[string]map[string]bool)
	for _, entry := range entries {
		day := entry.Day.Format("2006-01-02")
		if index[entry.EmployeeID] == nil {
			index[entry.EmployeeID] = make(map[string]bool)
		}
		index[entry.EmployeeID][day] = entry.Available
	}
	return index
}

// assignHeuristic fills slot occurrences with a rotation heuristic. Workers
// with the fewest assignments so far are picked first, ties broken by input
// order. The first worker placed into a slot is preferably not a trainee so
// no slot ends up staffed by new hires alone. An employee works at most one
// shift per day.
func assignHeuristic(employees []models.Employee, occurrences []slotOccurrence, available map[string]map[string]bool) map[string][]string {
	counts := make(map[string]int, len(employees))
	busy := make(map[string]map[string]bool, len(employees))
	result := make(map[string][]string, len(occurrences))

	for _, occ := range occurrences {
		date := occ.Date.Format("2006-01-02")
		for picked := 0; picked < occ.Slot.Required; picked++ {
			chosen := pickCandidate(employees, counts, busy, available, date, picked == 0)
			if chosen == "" {
				break
			}
			result[occ.Slot.ID] = append(result[occ.Slot.ID], chosen)
			counts[chosen]++
			if busy[chosen] == nil {
				busy[chosen] = make(map[string]bool)
			}
			busy[chosen][date] = true
		}
	}
	return result
}

// pickCandidate selects the least-assigned available worker for a date.
// preferSeasoned restricts the first pass to non-trainee workers; if none
// qualify, trainees are considered after all.
func pickCandidate(employees []models.Employee, counts map[string]int, busy map[string]map[string]bool, available map[string]map[string]bool, date string, preferSeasoned bool) string {
	pick := func(skipNew bool) string {
		best := ""
		bestCount := 0
		for _, e := range employees {
			if skipNew && e.Strength == models.StrengthNew {
				continue
			}
			if !available[e.ID][date] {
				continue
			}
			if busy[e.ID][date] {
				continue
			}
			if best == "" || counts[e.ID] < bestCount {
				best = e.ID
				bestCount = counts[e.ID]
			}
		}
		return best
	}

	if preferSeasoned {
		if id := pick(true); id != "" {
			return id
		}
	}
	return pick(false)
}

// --- AI planner ---

type aiPlan struct {
	Assignments []aiPlanSlot `json:"assignments"`
}

type aiPlanSlot struct {
	SlotID      string   `json:"slot_id"`
	EmployeeIDs []string `json:"employee_ids"`
}

// tryAIPlan asks the AI planner for an assignment and validates it against
// the staffing rules. Any failure, from transport errors to a single rule
// violation, discards the whole plan.
func (s *ScheduleGeneratorService) tryAIPlan(ctx context.Context, preferences string, employees []models.Employee, occurrences []slotOccurrence, available map[string]map[string]bool) (map[string][]string, bool) {
	if s.completer == nil {
		return nil, false
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.config.AITimeout)
	defer cancel()

	raw, err := s.completer.Complete(aiCtx, buildSchedulePrompt(preferences, employees, occurrences, available))
	if err != nil {
		s.logger.Warn("ai planner unavailable, using heuristic", zap.Error(err))
		return nil, false
	}

	var plan aiPlan
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &plan); err != nil {
		s.logger.Warn("ai planner returned malformed plan, using heuristic", zap.Error(err))
		return nil, false
	}

	assignments, err := validateAIPlan(plan, employees, occurrences, available)
	if err != nil {
		s.logger.Warn("ai plan rejected, using heuristic", zap.Error(err))
		return nil, false
	}
	return assignments, true
}

func buildSchedulePrompt(preferences string, employees []models.Employee, occurrences []slotOccurrence, available map[string]map[string]bool) string {
	var b strings.Builder
	b.WriteString("You are a staff scheduler for a small business. Assign employees to shift slots.\n")
	b.WriteString("Rules: never assign an employee who is not available on the slot's date; ")
	b.WriteString("never assign an employee to two shifts on the same date; ")
	b.WriteString("never assign more employees to a slot than required; ")
	b.WriteString("spread shifts evenly and avoid staffing a slot with only new employees.\n\n")

	b.WriteString("Employees:\n")
	for _, e := range employees {
		b.WriteString(fmt.Sprintf("- id=%s name=%q experience=%s\n", e.ID, e.Name, e.Strength))
	}

	b.WriteString("\nShift slots:\n")
	for _, occ := range occurrences {
		b.WriteString(fmt.Sprintf("- slot_id=%s name=%q date=%s time=%s-%s required=%d\n",
			occ.Slot.ID, occ.Slot.Name, occ.Date.Format("2006-01-02"), occ.Slot.StartTime, occ.Slot.EndTime, occ.Slot.Required))
	}

	b.WriteString("\nAvailability (employee id -> dates they can work):\n")
	for _, e := range employees {
		var days []string
		for day, ok := range available[e.ID] {
			if ok {
				days = append(days, day)
			}
		}
		sort.Strings(days)
		b.WriteString(fmt.Sprintf("- %s: %s\n", e.ID, strings.Join(days, ", ")))
	}

	if strings.TrimSpace(preferences) != "" {
		b.WriteString("\nOwner preferences: " + strings.TrimSpace(preferences) + "\n")
	}

	b.WriteString("\nRespond with JSON only, no prose, in this exact shape:\n")
	b.WriteString(`{"assignments":[{"slot_id":"...","employee_ids":["..."]}]}`)
	return b.String()
}

// stripCodeFences removes a surrounding markdown code block if the model
// wrapped its JSON in one.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func validateAIPlan(plan aiPlan, employees []models.Employee, occurrences []slotOccurrence, available map[string]map[string]bool) (map[string][]string, error) {
	occByID := make(map[string]slotOccurrence, len(occurrences))
	for _, occ := range occurrences {
		occByID[occ.Slot.ID] = occ
	}
	knownEmployee := make(map[string]bool, len(employees))
	for _, e := range employees {
		knownEmployee[e.ID] = true
	}

	result := make(map[string][]string, len(plan.Assignments))
	busy := make(map[string]map[string]bool)

	for _, item := range plan.Assignments {
		occ, ok := occByID[item.SlotID]
		if !ok {
			return nil, fmt.Errorf("unknown slot %s", item.SlotID)
		}
		if _, dup := result[item.SlotID]; dup {
			return nil, fmt.Errorf("slot %s listed twice", item.SlotID)
		}
		if len(item.EmployeeIDs) > occ.Slot.Required {
			return nil, fmt.Errorf("slot %s over capacity: %d > %d", item.SlotID, len(item.EmployeeIDs), occ.Slot.Required)
		}
		date := occ.Date.Format("2006-01-02")
		seen := make(map[string]bool, len(item.EmployeeIDs))
		for _, employeeID := range item.EmployeeIDs {
			if !knownEmployee[employeeID] {
				return nil, fmt.Errorf("unknown employee %s", employeeID)
			}
			if seen[employeeID] {
				return nil, fmt.Errorf("employee %s listed twice in slot %s", employeeID, item.SlotID)
			}
			seen[employeeID] = true
			if !available[employeeID][date] {
				return nil, fmt.Errorf("employee %s unavailable on %s", employeeID, date)
			}
			if busy[employeeID][date] {
				return nil, fmt.Errorf("employee %s double-booked on %s", employeeID, date)
			}
			if busy[employeeID] == nil {
				busy[employeeID] = make(map[string]bool)
			}
			busy[employeeID][date] = true
		}
		result[item.SlotID] = append([]string(nil), item.EmployeeIDs...)
	}
	return result, nil
}

func countAssignments(assignments map[string][]string) int {
	total := 0
	for _, ids := range assignments {
		total += len(ids)
	}
	return total
}
