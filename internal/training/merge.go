// Package training merges hand-authored plan templates with the sparse,
// persisted completion state users record against them.
package training

import (
	"github.com/mdulin/tandem/internal/models"
)

// ActivePlan overlays overrides onto a template and returns the effective
// weeks as displayed. The template is authoritative for structure (task
// count, ids, labels, distances, dates); the override is authoritative for
// any completion flag it defines and for non-empty notes. Override weeks
// whose number matches no template week are inert. Pure and idempotent:
// identical inputs produce structurally identical output, and the inputs
// are never mutated.
func ActivePlan(template []models.Week, overrides []models.WeekOverride) []models.Week {
	merged := make([]models.Week, len(template))
	for i, week := range template {
		out := cloneWeek(week)
		if ov := findWeekOverride(overrides, week.WeekNumber); ov != nil {
			applyTaskOverrides(out.Runs, ov.Runs)
			applyTaskOverrides(out.CrossTraining, ov.CrossTraining)
			if ov.WeekNotes != "" {
				out.WeekNotes = ov.WeekNotes
			}
		}
		merged[i] = out
	}
	return merged
}

// PlanFor looks up the authored template for an event and merges in the
// persisted overrides from the fitness document. The second return is
// false when no template exists for the event id.
func PlanFor(eventID string, doc models.FitnessDoc) (Plan, bool) {
	tmpl, ok := Templates[eventID]
	if !ok {
		return Plan{}, false
	}
	effective := tmpl
	effective.Weeks = ActivePlan(tmpl.Weeks, doc.Overrides[eventID])
	return effective, true
}

// WeekFullyComplete reports whether every completion flag on every task in
// the week is true. Callers diff this across a write to decide whether a
// week just transitioned to done (and deserves a celebration).
func WeekFullyComplete(w models.Week) bool {
	flags := 0
	for _, list := range [][]models.Task{w.Runs, w.CrossTraining} {
		for _, task := range list {
			for _, done := range task.Completed {
				flags++
				if !done {
					return false
				}
			}
		}
	}
	return flags > 0
}

func findWeekOverride(overrides []models.WeekOverride, weekNumber int) *models.WeekOverride {
	for i := range overrides {
		if overrides[i].WeekNumber == weekNumber {
			return &overrides[i]
		}
	}
	return nil
}

// applyTaskOverrides mutates tasks (already cloned) in place. Overrides
// match on task id when they carry one; entries written before ids existed
// fall back to their position in the list. Flags for participants the
// template doesn't know are dropped, keeping the template structurally
// authoritative.
func applyTaskOverrides(tasks []models.Task, overrides []models.TaskOverride) {
	for i, ov := range overrides {
		var task *models.Task
		if ov.TaskID != "" {
			task = findTask(tasks, ov.TaskID)
		} else if i < len(tasks) {
			task = &tasks[i]
		}
		if task == nil {
			continue
		}
		for participant, done := range ov.Completed {
			if _, known := task.Completed[participant]; known {
				task.Completed[participant] = done
			}
		}
		if ov.Notes != "" {
			task.Notes = ov.Notes
		}
	}
}

func findTask(tasks []models.Task, id string) *models.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func cloneWeek(w models.Week) models.Week {
	out := w
	out.Runs = cloneTasks(w.Runs)
	out.CrossTraining = cloneTasks(w.CrossTraining)
	return out
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		c := t
		c.Completed = make(map[string]bool, len(t.Completed))
		for k, v := range t.Completed {
			c.Completed[k] = v
		}
		out[i] = c
	}
	return out
}
