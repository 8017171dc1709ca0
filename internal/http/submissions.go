package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jmehdipour/econnect-gateway/internal/http/middleware"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmehdipour/econnect-gateway/internal/service/submit"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func createSubmissionHandler(svc Submitter, q Enqueuer, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var sub model.Submission
		if err := c.Bind(&sub); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		clientID, ok := middleware.ClientIDFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		if async, _ := strconv.ParseBool(c.QueryParam("async")); async {
			if q == nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "async submissions disabled"})
			}
			id, err := q.Enqueue(c.Request().Context(), clientID, sub)
			if err != nil {
				if errors.Is(err, submit.ErrInvalidSubmission) {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
				}
				log.Error("enqueue failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
			}
			return c.JSON(http.StatusAccepted, map[string]any{
				"enqueued": true,
				"id":       id,
				"status":   model.SubmissionQueued,
			})
		}

		res, err := svc.Submit(c.Request().Context(), sub)
		if err != nil {
			var se *submit.StepError
			switch {
			case errors.Is(err, submit.ErrInvalidSubmission):
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			case errors.As(err, &se):
				return c.JSON(http.StatusBadGateway, map[string]any{
					"error":    err.Error(),
					"step":     se.Step,
					"job_id":   se.JobID,
					"envelope": se.Envelope,
				})
			default:
				log.Error("submit failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "submit failed"})
			}
		}
		return c.JSON(http.StatusOK, res)
	}
}

// getSubmissionHandler only shows a client its own submissions.
func getSubmissionHandler(repo SubmissionReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		if repo == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "async submissions disabled"})
		}
		clientID, ok := middleware.ClientIDFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		rec, err := repo.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			c.Logger().Errorf("get submission failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		if rec == nil || rec.ClientID != clientID {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.JSON(http.StatusOK, rec)
	}
}
