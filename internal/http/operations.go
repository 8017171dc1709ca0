package http

import (
	"net/http"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/labstack/echo/v4"
)

type fieldView struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type operationView struct {
	Name       string      `json:"name"`
	Fields     []fieldView `json:"fields"`
	Attributes bool        `json:"customer_attributes"`
	Unwrap     string      `json:"unwrap,omitempty"`
}

func listOperationsHandler() echo.HandlerFunc {
	ops := econnect.Operations()
	views := make([]operationView, 0, len(ops))
	for _, op := range ops {
		v := operationView{Name: op.Name, Attributes: op.Attributes, Unwrap: op.Unwrap, Fields: []fieldView{}}
		for _, f := range op.Fields {
			v.Fields = append(v.Fields, fieldView{Name: f.Name, Kind: f.Kind.String()})
		}
		views = append(views, v)
	}

	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"count":      len(views),
			"operations": views,
		})
	}
}

type callReq struct {
	Fields         map[string]any    `json:"fields"`
	WithAttributes bool              `json:"with_customer_attributes"`
	Attributes     map[string]string `json:"customer_attributes"`
}

// callOperationHandler answers 200 with the envelope whatever the remote
// outcome; only routing and body errors get other statuses.
func callOperationHandler(gw Caller) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param("name")
		if _, ok := econnect.Lookup(name); !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown operation"})
		}

		var req callReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		env := gw.Call(c.Request().Context(), name, econnect.Args(req.Fields), req.WithAttributes, req.Attributes)
		return c.JSON(http.StatusOK, env)
	}
}
