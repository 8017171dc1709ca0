package econnect

import "time"

const (
	ModeLive    = "live"
	ModeStaging = "staging"

	DefaultEndpoint        = "https://api.ebrief.de/API095"
	DefaultStagingEndpoint = "https://api.staging.ebrief.de/API095"
)

// Config holds the connection settings and the static credentials sent with
// every request. It is copied into the Gateway and never changed afterwards.
type Config struct {
	Mode            string // live | staging; anything else falls back to live
	Endpoint        string
	StagingEndpoint string

	SenderReference string // referenceSenderFrontend
	AccessCode      string // codeFrontend
	CustomerNumber  string // referenceCustomerNumber
	CustomerUser    string // referenceCustomerUser, optional
	CustomerBranch  string // referenceCustomerBranch, optional

	Namespace        string
	CallTimeout      time.Duration // 0 = no gateway deadline
	SkipProbe        bool          // do not reach the endpoint during New
	StrictAttributes bool
	Breaker          BreakerConfig
}

type BreakerConfig struct {
	FailThreshold int // 0 disables the breaker
	OpenFor       time.Duration
}

func DefaultConfig() Config {
	return Config{
		Mode:            ModeStaging,
		Endpoint:        DefaultEndpoint,
		StagingEndpoint: DefaultStagingEndpoint,
		CallTimeout:     60 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeStaging
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.StagingEndpoint == "" {
		c.StagingEndpoint = DefaultStagingEndpoint
	}
	return c
}

// SelectedEndpoint returns the endpoint for c.Mode. Unknown modes use the
// live endpoint; existing callers depend on that.
func (c Config) SelectedEndpoint() string {
	c = c.withDefaults()
	switch c.Mode {
	case ModeLive:
		return c.Endpoint
	case ModeStaging:
		return c.StagingEndpoint
	default:
		return c.Endpoint
	}
}
