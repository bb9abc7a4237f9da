package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/models"
	"github.com/mdulin/tandem/internal/notifier"
	"github.com/mdulin/tandem/internal/roles"
	"github.com/mdulin/tandem/internal/training"
)

type TrainingHandler struct {
	store      *docstore.Store
	recorder   *training.Recorder
	notifier   notifier.Notifier
	principals *PrincipalResolver
}

func NewTrainingHandler(store *docstore.Store, recorder *training.Recorder, n notifier.Notifier, principals *PrincipalResolver) *TrainingHandler {
	return &TrainingHandler{store: store, recorder: recorder, notifier: n, principals: principals}
}

func (h *TrainingHandler) requireHousehold(ctx context.Context, cookie string) (*Principal, error) {
	principal, err := h.principals.Resolve(ctx, cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner && principal.Role.Level != roles.Companion {
		return nil, huma.Error403Forbidden("Training plans are not visible to guests")
	}
	return principal, nil
}

type GetPlanRequest struct {
	auth.AuthInput
	EventID string `path:"eventID"`
}

type GetPlanResponse struct {
	Body training.Plan
}

// HandleGetPlan returns the effective plan: the authored template with
// persisted completion state merged in.
func (h *TrainingHandler) HandleGetPlan(ctx context.Context, input *GetPlanRequest) (*GetPlanResponse, error) {
	if _, err := h.requireHousehold(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var doc models.FitnessDoc
	if err := h.store.Get(ctx, docstore.KeyFitness, &doc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load training state: " + err.Error())
	}

	plan, ok := training.PlanFor(input.EventID, doc)
	if !ok {
		return nil, huma.Error404NotFound("No training plan for this event")
	}
	return &GetPlanResponse{Body: plan}, nil
}

type ListPlansRequest struct {
	auth.AuthInput
}

type PlanSummary struct {
	EventID      string   `json:"event_id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	Weeks        int      `json:"weeks"`
}

type ListPlansResponse struct {
	Body struct {
		Plans []PlanSummary `json:"plans"`
	}
}

func (h *TrainingHandler) HandleListPlans(ctx context.Context, input *ListPlansRequest) (*ListPlansResponse, error) {
	if _, err := h.requireHousehold(ctx, input.Cookie); err != nil {
		return nil, err
	}

	res := &ListPlansResponse{}
	for _, tmpl := range training.Templates {
		res.Body.Plans = append(res.Body.Plans, PlanSummary{
			EventID:      tmpl.EventID,
			Name:         tmpl.Name,
			Participants: tmpl.Participants,
			Weeks:        len(tmpl.Weeks),
		})
	}
	return res, nil
}

type RecordCompletionRequest struct {
	auth.AuthInput
	EventID string `path:"eventID"`
	Body    struct {
		WeekNumber  int    `json:"week_number" required:"true"`
		List        string `json:"list" enum:"runs,cross_training" required:"true"`
		TaskID      string `json:"task_id" required:"true"`
		Participant string `json:"participant" required:"true"`
		Completed   bool   `json:"completed"`
	}
}

type RecordCompletionResponse struct {
	Body struct {
		Week      models.Week `json:"week"`
		Celebrate bool        `json:"celebrate" doc:"True when this write completed the week"`
	}
}

func (h *TrainingHandler) HandleRecordCompletion(ctx context.Context, input *RecordCompletionRequest) (*RecordCompletionResponse, error) {
	if _, err := h.requireHousehold(ctx, input.Cookie); err != nil {
		return nil, err
	}

	before, after, err := h.recorder.RecordCompletion(ctx, training.CompletionUpdate{
		EventID:     input.EventID,
		WeekNumber:  input.Body.WeekNumber,
		List:        input.Body.List,
		TaskID:      input.Body.TaskID,
		Participant: input.Body.Participant,
		Completed:   input.Body.Completed,
	})
	switch {
	case errors.Is(err, training.ErrUnknownEvent):
		return nil, huma.Error404NotFound("No training plan for this event")
	case errors.Is(err, training.ErrUnknownWeek),
		errors.Is(err, training.ErrUnknownTask),
		errors.Is(err, training.ErrUnknownParticipant):
		return nil, huma.Error400BadRequest(err.Error())
	case err != nil:
		return nil, huma.Error500InternalServerError("Failed to record completion: " + err.Error())
	}

	res := &RecordCompletionResponse{}
	res.Body.Week = after
	res.Body.Celebrate = !training.WeekFullyComplete(before) && training.WeekFullyComplete(after)

	if res.Body.Celebrate && h.notifier != nil {
		tmpl := training.Templates[input.EventID]
		if err := h.notifier.NotifyWeekComplete(tmpl.Name, input.Body.WeekNumber, tmpl.Participants); err != nil {
			// The write succeeded; a missed celebration is not worth a 500.
			log.Printf("Failed to send week-complete notification: %v", err)
		}
	}

	return res, nil
}

type RecordWeekNotesRequest struct {
	auth.AuthInput
	EventID    string `path:"eventID"`
	WeekNumber int    `path:"weekNumber"`
	Body       struct {
		Notes string `json:"notes"`
	}
}

type RecordWeekNotesResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *TrainingHandler) HandleWeekNotes(ctx context.Context, input *RecordWeekNotesRequest) (*RecordWeekNotesResponse, error) {
	if _, err := h.requireHousehold(ctx, input.Cookie); err != nil {
		return nil, err
	}

	err := h.recorder.RecordWeekNotes(ctx, input.EventID, input.WeekNumber, input.Body.Notes)
	switch {
	case errors.Is(err, training.ErrUnknownEvent):
		return nil, huma.Error404NotFound("No training plan for this event")
	case errors.Is(err, training.ErrUnknownWeek):
		return nil, huma.Error400BadRequest(err.Error())
	case err != nil:
		return nil, huma.Error500InternalServerError("Failed to record notes: " + err.Error())
	}

	res := &RecordWeekNotesResponse{}
	res.Body.Message = "Notes saved"
	return res, nil
}
