package training

import (
	"github.com/mdulin/tandem/internal/models"
)

// Plan is a hand-authored training schedule for one event. Templates are
// the ground truth for structure: week count, task ids, labels, distances
// and dates all come from here. Persisted overrides only layer completion
// flags and notes on top.
type Plan struct {
	EventID      string        `json:"event_id"`
	Name         string        `json:"name"`
	Participants []string      `json:"participants"`
	Weeks        []models.Week `json:"weeks"`
}

func both() map[string]bool { return map[string]bool{"mike": false, "adam": false} }
func solo() map[string]bool { return map[string]bool{"mike": false} }

// Templates holds every authored plan, keyed by event id. Edit here when
// a new race gets added; task ids must stay stable once a plan has been
// trained against, because overrides reference them.
var Templates = map[string]Plan{
	"brooklyn-half-2026": {
		EventID:      "brooklyn-half-2026",
		Name:         "Brooklyn Half Marathon",
		Participants: []string{"mike", "adam"},
		Weeks: []models.Week{
			{
				WeekNumber: 1, Start: "2026-03-02", End: "2026-03-08",
				Runs: []models.Task{
					{ID: "w1-easy-1", Label: "Easy run", Distance: "3 mi", Completed: both()},
					{ID: "w1-easy-2", Label: "Easy run", Distance: "3 mi", Completed: both()},
					{ID: "w1-long", Label: "Long run", Distance: "5 mi", Completed: both()},
				},
				CrossTraining: []models.Task{
					{ID: "w1-xt-1", Label: "Yoga or stretching, 30 min", Completed: both()},
				},
			},
			{
				WeekNumber: 2, Start: "2026-03-09", End: "2026-03-15",
				Runs: []models.Task{
					{ID: "w2-easy-1", Label: "Easy run", Distance: "3 mi", Completed: both()},
					{ID: "w2-tempo", Label: "Tempo run", Distance: "4 mi", Completed: both()},
					{ID: "w2-long", Label: "Long run", Distance: "6 mi", Completed: both()},
				},
				CrossTraining: []models.Task{
					{ID: "w2-xt-1", Label: "Bike or swim, 40 min", Completed: both()},
				},
			},
			{
				WeekNumber: 3, Start: "2026-03-16", End: "2026-03-22",
				Runs: []models.Task{
					{ID: "w3-easy-1", Label: "Easy run", Distance: "4 mi", Completed: both()},
					{ID: "w3-intervals", Label: "Intervals 6x400m", Distance: "4 mi", Completed: both()},
					{ID: "w3-long", Label: "Long run", Distance: "7 mi", Completed: both()},
				},
				CrossTraining: []models.Task{
					{ID: "w3-xt-1", Label: "Strength, 30 min", Completed: both()},
				},
			},
			{
				WeekNumber: 4, Start: "2026-03-23", End: "2026-03-29",
				Runs: []models.Task{
					{ID: "w4-easy-1", Label: "Easy run", Distance: "4 mi", Completed: both()},
					{ID: "w4-tempo", Label: "Tempo run", Distance: "5 mi", Completed: both()},
					{ID: "w4-long", Label: "Long run", Distance: "8 mi", Completed: both()},
				},
				CrossTraining: []models.Task{
					{ID: "w4-xt-1", Label: "Yoga or stretching, 30 min", Completed: both()},
				},
			},
			{
				WeekNumber: 5, Start: "2026-03-30", End: "2026-04-05",
				Runs: []models.Task{
					{ID: "w5-easy-1", Label: "Easy run", Distance: "4 mi", Completed: both()},
					{ID: "w5-intervals", Label: "Intervals 8x400m", Distance: "5 mi", Completed: both()},
					{ID: "w5-long", Label: "Long run", Distance: "10 mi", Completed: both()},
				},
				CrossTraining: []models.Task{
					{ID: "w5-xt-1", Label: "Bike or swim, 45 min", Completed: both()},
				},
			},
			{
				WeekNumber: 6, Start: "2026-04-06", End: "2026-04-12",
				Runs: []models.Task{
					{ID: "w6-easy-1", Label: "Easy run", Distance: "3 mi", Completed: both()},
					{ID: "w6-tempo", Label: "Tempo run", Distance: "4 mi", Completed: both()},
					{ID: "w6-long", Label: "Long run", Distance: "12 mi", Completed: both()},
				},
				CrossTraining: []models.Task{
					{ID: "w6-xt-1", Label: "Strength, 30 min", Completed: both()},
				},
			},
			{
				WeekNumber: 7, Start: "2026-04-13", End: "2026-04-19",
				Runs: []models.Task{
					{ID: "w7-easy-1", Label: "Easy run", Distance: "3 mi", Completed: both()},
					{ID: "w7-easy-2", Label: "Easy run", Distance: "3 mi", Completed: both()},
					{ID: "w7-long", Label: "Long run, taper", Distance: "8 mi", Completed: both()},
				},
				CrossTraining: []models.Task{
					{ID: "w7-xt-1", Label: "Yoga or stretching, 20 min", Completed: both()},
				},
			},
			{
				WeekNumber: 8, Start: "2026-04-20", End: "2026-04-26",
				Runs: []models.Task{
					{ID: "w8-shakeout", Label: "Shakeout run", Distance: "2 mi", Completed: both()},
					{ID: "w8-race", Label: "Race day!", Distance: "13.1 mi", Completed: both()},
				},
			},
		},
	},
	"turkey-trot-2026": {
		EventID:      "turkey-trot-2026",
		Name:         "Turkey Trot 10K",
		Participants: []string{"mike"},
		Weeks: []models.Week{
			{
				WeekNumber: 1, Start: "2026-10-26", End: "2026-11-01",
				Runs: []models.Task{
					{ID: "t1-easy", Label: "Easy run", Distance: "2 mi", Completed: solo()},
					{ID: "t1-long", Label: "Long run", Distance: "4 mi", Completed: solo()},
				},
				CrossTraining: []models.Task{
					{ID: "t1-xt", Label: "Bike, 30 min", Completed: solo()},
				},
			},
			{
				WeekNumber: 2, Start: "2026-11-02", End: "2026-11-08",
				Runs: []models.Task{
					{ID: "t2-easy", Label: "Easy run", Distance: "3 mi", Completed: solo()},
					{ID: "t2-tempo", Label: "Tempo run", Distance: "3 mi", Completed: solo()},
					{ID: "t2-long", Label: "Long run", Distance: "5 mi", Completed: solo()},
				},
			},
			{
				WeekNumber: 3, Start: "2026-11-09", End: "2026-11-15",
				Runs: []models.Task{
					{ID: "t3-easy", Label: "Easy run", Distance: "3 mi", Completed: solo()},
					{ID: "t3-intervals", Label: "Intervals 5x400m", Distance: "3 mi", Completed: solo()},
					{ID: "t3-long", Label: "Long run", Distance: "6 mi", Completed: solo()},
				},
			},
			{
				WeekNumber: 4, Start: "2026-11-16", End: "2026-11-22",
				Runs: []models.Task{
					{ID: "t4-easy", Label: "Easy run", Distance: "2 mi", Completed: solo()},
					{ID: "t4-shakeout", Label: "Shakeout run", Distance: "2 mi", Completed: solo()},
					{ID: "t4-race", Label: "Race day!", Distance: "6.2 mi", Completed: solo()},
				},
			},
		},
	},
}
