package vitals

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthport/healthport/internal/platform/auth"
	"github.com/healthport/healthport/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("patient", "doctor"))
	g.POST("/metrics", h.RecordMetric)
	g.POST("/metrics/import", h.ImportMetrics)
	g.GET("/metrics", h.ListMetrics)
	g.GET("/metrics/summary", h.Summary)
	g.GET("/metrics/latest", h.Latest)
	g.GET("/alerts", h.ListAlerts)
	g.PATCH("/alerts/:id/read", h.MarkAlertRead)
}

func (h *Handler) RecordMetric(c echo.Context) error {
	var m Metric
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	alerts, err := h.svc.RecordMetric(c.Request().Context(), &m)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"metric": m,
		"alerts": alerts,
	})
}

type importRequest struct {
	Metrics []*Metric `json:"metrics"`
}

func (h *Handler) ImportMetrics(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	alertCount, err := h.svc.BulkImportMetrics(c.Request().Context(), req.Metrics)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"imported":       len(req.Metrics),
		"alerts_created": alertCount,
	})
}

func (h *Handler) ListMetrics(c echo.Context) error {
	subjectID, err := uuid.Parse(c.QueryParam("subject_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid subject_id")
	}
	filter := MetricFilter{SubjectID: subjectID, Type: c.QueryParam("type")}
	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from timestamp")
		}
		filter.From = &t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to timestamp")
		}
		filter.To = &t
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMetrics(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Summary(c echo.Context) error {
	subjectID, err := uuid.Parse(c.QueryParam("subject_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid subject_id")
	}
	entries, err := h.svc.Summary(c.Request().Context(), subjectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"summary": entries})
}

func (h *Handler) Latest(c echo.Context) error {
	subjectID, err := uuid.Parse(c.QueryParam("subject_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid subject_id")
	}
	metricType := c.QueryParam("type")
	m, err := h.svc.Latest(c.Request().Context(), subjectID, metricType)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListAlerts(c echo.Context) error {
	subjectID, err := uuid.Parse(c.QueryParam("subject_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid subject_id")
	}
	unreadOnly := c.QueryParam("unread") == "true"

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAlerts(c.Request().Context(), subjectID, unreadOnly, pg.Limit, pg.Offset)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) MarkAlertRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkAlertRead(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// serviceError maps validation failures to 400 and everything else (storage,
// transaction) to 500.
func serviceError(err error) *echo.HTTPError {
	if errors.Is(err, ErrValidation) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
