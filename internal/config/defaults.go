package config

// Known upstream catalog domains and their default endpoints.
const (
	DomainAllocations = "allocations"
	DomainNSF         = "nsf"
	DomainSoftware    = "software"
)

var defaultBaseURLs = map[string]string{
	DomainAllocations: "https://allocations.access-ci.org",
	DomainNSF:         "https://api.nsf.gov/services/v1",
	DomainSoftware:    "https://sds.access-ci.org/api",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.StrategyTimeoutSeconds == 0 {
		cfg.Search.StrategyTimeoutSeconds = 30
	}
	if cfg.Upstreams == nil {
		cfg.Upstreams = make(map[string]UpstreamConfig)
	}
	for _, domain := range []string{DomainAllocations, DomainNSF, DomainSoftware} {
		up := cfg.Upstreams[domain]
		if up.BaseURL == "" {
			up.BaseURL = defaultBaseURLs[domain]
		}
		if up.TimeoutSeconds == 0 {
			up.TimeoutSeconds = 30
		}
		cfg.Upstreams[domain] = up
	}
}
