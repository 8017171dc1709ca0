package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	echo "github.com/labstack/echo/v4"
)

func listCallsHandler(repo CallLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		if repo == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "reports disabled"})
		}

		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		op := strings.TrimSpace(c.QueryParam("operation"))
		if op != "" {
			if _, ok := econnect.Lookup(op); !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown operation"})
			}
		}
		failed, _ := strconv.ParseBool(c.QueryParam("failed"))

		rows, err := repo.List(c.Request().Context(), model.CallFilter{
			Operation:  op,
			FailedOnly: failed,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}
