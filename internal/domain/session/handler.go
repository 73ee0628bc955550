package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/acutepeds/assessment/internal/domain/flow"
	"github.com/acutepeds/assessment/internal/domain/module"
	"github.com/acutepeds/assessment/internal/domain/scenario"
	"github.com/acutepeds/assessment/pkg/listing"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions", h.ListSessions)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.DeleteSession)

	api.POST("/sessions/:id/answers", h.SubmitAnswer)
	api.POST("/sessions/:id/skip", h.Skip)
	api.POST("/sessions/:id/back", h.GoBack)

	api.GET("/sessions/:id/findings", h.ListFindings)
	api.GET("/sessions/:id/summary", h.GetSummary)

	api.POST("/sessions/:id/scenarios/:name", h.StartScenario)
	api.GET("/scenarios", h.ListScenarios)

	api.POST("/sessions/:id/interventions/:iid/complete", h.CompleteIntervention)
	api.POST("/sessions/:id/interventions/:iid/escalate", h.EscalateIntervention)
	api.POST("/sessions/:id/interventions/:iid/cancel", h.CancelIntervention)

	api.POST("/sessions/:id/modules/:name/outcome", h.ModuleOutcome)
}

func sessionID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

// httpError maps service errors onto status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, ErrCapacity):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrSessionComplete):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrQuestionMismatch):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInterventionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, flow.ErrBackDisabled):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, flow.ErrNotStarted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, scenario.ErrUnknown):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) CreateSession(c echo.Context) error {
	var in CreateSessionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	snap, err := h.svc.CreateSession(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, snap)
}

func (h *Handler) ListSessions(c echo.Context) error {
	pg := listing.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing.NewResponse(items, total, pg))
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	snap, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) DeleteSession(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SubmitAnswer(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	var in SubmitAnswerInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.SubmitAnswer(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Skip(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	var in struct {
		QuestionID string `json:"question_id"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Skip(c.Request().Context(), id, in.QuestionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GoBack(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	q, err := h.svc.GoBack(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"question": q})
}

func (h *Handler) ListFindings(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	findings, err := h.svc.Findings(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	pg := listing.FromContext(c)
	start, end := pg.Window(len(findings))
	return c.JSON(http.StatusOK, listing.NewResponse(findings[start:end], len(findings), pg))
}

func (h *Handler) GetSummary(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	sum, err := h.svc.Summarize(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) StartScenario(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	var in struct {
		WeightKG float64 `json:"weight_kg"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.StartScenario(c.Request().Context(), id, scenario.Name(c.Param("name")), in.WeightKG)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListScenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"scenarios":         scenario.Names(),
		"default_weight_kg": scenario.DefaultWeightKG,
	})
}

func (h *Handler) CompleteIntervention(c echo.Context) error {
	return h.interventionOp(c, h.svc.CompleteIntervention)
}

func (h *Handler) EscalateIntervention(c echo.Context) error {
	var in struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.interventionOp(c, func(ctx context.Context, id, iid uuid.UUID) (*InterventionResult, error) {
		return h.svc.EscalateIntervention(ctx, id, iid, in.Reason)
	})
}

func (h *Handler) CancelIntervention(c echo.Context) error {
	return h.interventionOp(c, h.svc.CancelIntervention)
}

type interventionFunc func(ctx context.Context, id, interventionID uuid.UUID) (*InterventionResult, error)

func (h *Handler) interventionOp(c echo.Context, op interventionFunc) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	iid, err := uuid.Parse(c.Param("iid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid intervention id")
	}
	res, err := op(c.Request().Context(), id, iid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ModuleOutcome(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	name := module.Name(c.Param("name"))
	if !module.Known(name) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown module")
	}
	var in struct {
		Outcome        module.Outcome `json:"outcome"`
		InterventionID *uuid.UUID     `json:"intervention_id"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !module.ValidOutcome(in.Outcome) {
		return echo.NewHTTPError(http.StatusBadRequest, "outcome must be completed, escalated, or referral")
	}
	res, err := h.svc.HandleModuleOutcome(c.Request().Context(), id, name, in.Outcome, in.InterventionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}
