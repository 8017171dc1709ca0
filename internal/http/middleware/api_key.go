package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jmehdipour/econnect-gateway/internal/model"
	echo "github.com/labstack/echo/v4"
)

// ClientLookup resolves an API key. It returns (nil, nil) for unknown keys.
// repository.ClientsRepository satisfies it.
type ClientLookup interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*model.APIClient, error)
}

// StaticKeys serves keys from configuration. Clients get negative ids so
// they never collide with rows of api_clients.
type StaticKeys map[string]*model.APIClient

func NewStaticKeys(keys []string) StaticKeys {
	s := make(StaticKeys, len(keys))
	for i, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		s[k] = &model.APIClient{ID: -int64(i + 1), Name: "static", APIKey: k, Status: "active"}
	}
	return s
}

func (s StaticKeys) GetByAPIKey(_ context.Context, apiKey string) (*model.APIClient, error) {
	return s[apiKey], nil
}

// Lookups tries each lookup in order; the first hit wins.
type Lookups []ClientLookup

func (l Lookups) GetByAPIKey(ctx context.Context, apiKey string) (*model.APIClient, error) {
	for _, lk := range l {
		if lk == nil {
			continue
		}
		c, err := lk.GetByAPIKey(ctx, apiKey)
		if err != nil || c != nil {
			return c, err
		}
	}
	return nil, nil
}

// ClientIDFromCtx extracts the authenticated client id set by APIKeyMiddleware.
func ClientIDFromCtx(c echo.Context) (int64, bool) {
	v := c.Get("client_id")
	id, ok := v.(int64)
	return id, ok && id != 0
}

// APIKeyMiddleware authenticates requests using the X-API-Key header.
// On success it stores client_id (and client_rps when set) in the context.
func APIKeyMiddleware(clients ClientLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			cl, err := clients.GetByAPIKey(c.Request().Context(), key)
			if err != nil {
				c.Logger().Errorf("api key lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "auth error"})
			}
			if !cl.Active() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			}
			c.Set("client_id", cl.ID)
			if cl.RateLimitRPS != nil {
				c.Set("client_rps", *cl.RateLimitRPS)
			}
			return next(c)
		}
	}
}
