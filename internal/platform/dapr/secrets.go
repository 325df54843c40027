package dapr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/donelist/donelist-api/internal/platform/logger"
)

// secretBundleName is the secret holding the service's credentials in the
// configured secret store.
const secretBundleName = "todo-secrets"

// GetSecret retrieves a named secret from the configured secret store.
// A missing secret or unreachable sidecar yields an empty map, so callers
// can fall back to environment configuration.
func (c *Client) GetSecret(ctx context.Context, name string) map[string]string {
	log := logger.FromContextOrDefault(ctx, c.logger)

	url := fmt.Sprintf("%s/v1.0/secrets/%s/%s", c.baseURL, c.secretStore, name)

	status, body, err := c.get(ctx, url)
	if err != nil {
		log.Warn("secrets API not available",
			slog.String("secret_name", name),
			slog.String("error", err.Error()))
		return map[string]string{}
	}

	if status != http.StatusOK {
		log.Warn("secret not found",
			slog.String("secret_name", name),
			slog.Int("status", status))
		return map[string]string{}
	}

	secrets := map[string]string{}
	if err := json.Unmarshal(body, &secrets); err != nil {
		log.Warn("secret payload malformed",
			slog.String("secret_name", name),
			slog.String("error", err.Error()))
		return map[string]string{}
	}

	return secrets
}

// SecretOrEnv looks up key in the service's secret bundle, falling back to
// the same-named environment variable when the store has no value.
func (c *Client) SecretOrEnv(ctx context.Context, key string) string {
	if v := c.GetSecret(ctx, secretBundleName)[key]; v != "" {
		return v
	}
	return os.Getenv(key)
}
