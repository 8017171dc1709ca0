package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/jmehdipour/econnect-gateway/internal/app"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"github.com/spf13/cobra"
)

var (
	seedName      string
	seedKey       string
	seedRPS       int
	seedSuspended bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or update an API client (demo clients without --name)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.Load(cfgPath)
		if err != nil {
			return err
		}

		stores, err := app.OpenStores(cfg, app.Need{MySQL: true})
		if err != nil {
			return err
		}
		defer stores.Close()
		if stores.MySQL == nil {
			return fmt.Errorf("seed: mysql.dsn is empty")
		}

		ctx := cmd.Context()

		clients := demoClients()
		if seedName != "" {
			c, err := clientFromFlags(seedName, seedKey, seedRPS, seedSuspended)
			if err != nil {
				return err
			}
			clients = []model.APIClient{c}
		}

		repo := repository.NewClientsRepository(stores.MySQL)
		for _, c := range clients {
			if err := repo.Upsert(ctx, c); err != nil {
				return fmt.Errorf("upsert client %q: %w", c.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.Name, c.Status, c.APIKey)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedName, "name", "", "client name")
	seedCmd.Flags().StringVar(&seedKey, "key", "", "API key (random when empty)")
	seedCmd.Flags().IntVar(&seedRPS, "rps", 0, "per-client rate limit, 0 uses rate_limit.rps")
	seedCmd.Flags().BoolVar(&seedSuspended, "suspended", false, "create the client suspended")
}

func clientFromFlags(name, key string, rps int, suspended bool) (model.APIClient, error) {
	if key == "" {
		b := make([]byte, 24)
		if _, err := rand.Read(b); err != nil {
			return model.APIClient{}, fmt.Errorf("generate key: %w", err)
		}
		key = hex.EncodeToString(b)
	}
	c := model.APIClient{Name: name, APIKey: key, Status: "active"}
	if suspended {
		c.Status = "suspended"
	}
	if rps > 0 {
		c.RateLimitRPS = intptr(rps)
	}
	return c, nil
}

// demoClients are deterministic so seeding twice is a no-op.
func demoClients() []model.APIClient {
	return []model.APIClient{
		{Name: "Billing Run", APIKey: "11111111111111111111111111111111", Status: "active", RateLimitRPS: intptr(20)},
		{Name: "Dunning", APIKey: "22222222222222222222222222222222", Status: "active", RateLimitRPS: intptr(5)},
		{Name: "Suspended Inc", APIKey: "44444444444444444444444444444444", Status: "suspended"},
	}
}

func intptr(i int) *int { return &i }
