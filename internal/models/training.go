package models

// Task is one run or cross-training entry in a training week. Completed is
// keyed by participant name; templates define the full key set and
// overrides may only flip flags for keys the template defines.
type Task struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Distance  string          `json:"distance,omitempty"`
	Completed map[string]bool `json:"completed"`
	Notes     string          `json:"notes,omitempty"`
}

type Week struct {
	WeekNumber    int    `json:"week_number"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Runs          []Task `json:"runs"`
	CrossTraining []Task `json:"cross_training"`
	WeekNotes     string `json:"week_notes,omitempty"`
}

// TaskOverride carries only what a user has mutated on one task. TaskID
// matches the template task; entries written before task ids existed have
// an empty TaskID and fall back to positional matching.
type TaskOverride struct {
	TaskID    string          `json:"task_id,omitempty"`
	Completed map[string]bool `json:"completed,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

type WeekOverride struct {
	WeekNumber    int            `json:"week_number"`
	Runs          []TaskOverride `json:"runs,omitempty"`
	CrossTraining []TaskOverride `json:"cross_training,omitempty"`
	WeekNotes     string         `json:"week_notes,omitempty"`
}

// FitnessDoc is the fitness-domain document, stored whole under one key.
// Overrides is sparse: event ids and weeks appear only once touched.
type FitnessDoc struct {
	Overrides map[string][]WeekOverride `json:"training_plans"`
}
