package training

import (
	"context"
	"errors"
	"fmt"

	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/models"
)

var (
	ErrUnknownEvent       = errors.New("training: unknown event")
	ErrUnknownWeek        = errors.New("training: week not in template")
	ErrUnknownTask        = errors.New("training: task not in template")
	ErrUnknownParticipant = errors.New("training: participant not in template")
)

// Task list names as they appear in the persisted document.
const (
	ListRuns          = "runs"
	ListCrossTraining = "cross_training"
)

// Recorder persists completion flags and notes into the fitness document.
// Each write is a read-modify-write of the whole document; concurrent
// writers race and the last commit wins, which is accepted for this
// tool's user count.
type Recorder struct {
	store *docstore.Store
}

func NewRecorder(store *docstore.Store) *Recorder {
	return &Recorder{store: store}
}

type CompletionUpdate struct {
	EventID     string
	WeekNumber  int
	List        string // ListRuns or ListCrossTraining
	TaskID      string
	Participant string
	Completed   bool
}

// RecordCompletion flips one participant's flag on one task and returns
// the effective week before and after the write, so the caller can detect
// a week transitioning to fully complete.
func (r *Recorder) RecordCompletion(ctx context.Context, u CompletionUpdate) (before, after models.Week, err error) {
	tmpl, ok := Templates[u.EventID]
	if !ok {
		return before, after, ErrUnknownEvent
	}
	week := findTemplateWeek(tmpl.Weeks, u.WeekNumber)
	if week == nil {
		return before, after, ErrUnknownWeek
	}
	tasks := week.Runs
	if u.List == ListCrossTraining {
		tasks = week.CrossTraining
	} else if u.List != ListRuns {
		return before, after, fmt.Errorf("training: unknown task list %q", u.List)
	}
	task := findTask(tasks, u.TaskID)
	if task == nil {
		return before, after, ErrUnknownTask
	}
	if _, known := task.Completed[u.Participant]; !known {
		return before, after, ErrUnknownParticipant
	}

	err = r.store.Update(ctx, docstore.KeyFitness, func(raw []byte) (any, error) {
		var doc models.FitnessDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		before = effectiveWeek(tmpl, doc, u.WeekNumber)

		if doc.Overrides == nil {
			doc.Overrides = make(map[string][]models.WeekOverride)
		}
		weeks := doc.Overrides[u.EventID]
		ov := findWeekOverride(weeks, u.WeekNumber)
		if ov == nil {
			weeks = append(weeks, models.WeekOverride{WeekNumber: u.WeekNumber})
			ov = &weeks[len(weeks)-1]
		}
		list := &ov.Runs
		if u.List == ListCrossTraining {
			list = &ov.CrossTraining
		}
		task := findTaskOverride(*list, u.TaskID)
		if task == nil {
			*list = append(*list, models.TaskOverride{TaskID: u.TaskID})
			task = &(*list)[len(*list)-1]
		}
		if task.Completed == nil {
			task.Completed = make(map[string]bool)
		}
		task.Completed[u.Participant] = u.Completed

		doc.Overrides[u.EventID] = weeks
		after = effectiveWeek(tmpl, doc, u.WeekNumber)
		return &doc, nil
	})
	return before, after, err
}

// RecordWeekNotes stores free-text notes against a week. An empty string
// clears the override so the template's notes show through again.
func (r *Recorder) RecordWeekNotes(ctx context.Context, eventID string, weekNumber int, notes string) error {
	tmpl, ok := Templates[eventID]
	if !ok {
		return ErrUnknownEvent
	}
	if findTemplateWeek(tmpl.Weeks, weekNumber) == nil {
		return ErrUnknownWeek
	}

	return r.store.Update(ctx, docstore.KeyFitness, func(raw []byte) (any, error) {
		var doc models.FitnessDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		if doc.Overrides == nil {
			doc.Overrides = make(map[string][]models.WeekOverride)
		}
		weeks := doc.Overrides[eventID]
		ov := findWeekOverride(weeks, weekNumber)
		if ov == nil {
			weeks = append(weeks, models.WeekOverride{WeekNumber: weekNumber})
			ov = &weeks[len(weeks)-1]
		}
		ov.WeekNotes = notes
		doc.Overrides[eventID] = weeks
		return &doc, nil
	})
}

func effectiveWeek(tmpl Plan, doc models.FitnessDoc, weekNumber int) models.Week {
	for _, w := range ActivePlan(tmpl.Weeks, doc.Overrides[tmpl.EventID]) {
		if w.WeekNumber == weekNumber {
			return w
		}
	}
	return models.Week{}
}

func findTemplateWeek(weeks []models.Week, weekNumber int) *models.Week {
	for i := range weeks {
		if weeks[i].WeekNumber == weekNumber {
			return &weeks[i]
		}
	}
	return nil
}

func findTaskOverride(overrides []models.TaskOverride, id string) *models.TaskOverride {
	for i := range overrides {
		if overrides[i].TaskID == id {
			return &overrides[i]
		}
	}
	return nil
}
