// Package config loads the media-session coordinator's runtime configuration
// from command line flags with environment variable overrides.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds the coordinator's tunables, per spec.md section 6.
type Config struct {
	LocalIP               string        // address advertised in c= / o= lines
	RTCPEnabledByDefault  bool          // session RTCP state unless the remote SDP disables RTCP with b=RS:0/b=RR:0
	ReinviteTimeout       time.Duration // RFC 3261 13.3.1.1 re-INVITE response timer
	GlareIntervalOwner    time.Duration // upper bound of the owner-side glare back-off window
	GlareIntervalNonOwner time.Duration // upper bound of the non-owner-side glare back-off window
	LogLevel              string
}

// Load populates a Config from flags, then applies environment overrides.
func Load() *Config {
	cfg := &Config{
		ReinviteTimeout:       180 * time.Second,
		GlareIntervalOwner:    4 * time.Second,
		GlareIntervalNonOwner: 2 * time.Second,
	}

	flag.StringVar(&cfg.LocalIP, "local-ip", "127.0.0.1", "address advertised in outbound SDP")
	flag.BoolVar(&cfg.RTCPEnabledByDefault, "rtcp-enabled", true, "enable RTCP unless the remote SDP disables it")
	flag.DurationVar(&cfg.ReinviteTimeout, "reinvite-timeout", cfg.ReinviteTimeout, "timeout waiting for a re-INVITE response")
	flag.DurationVar(&cfg.GlareIntervalOwner, "glare-interval-owner", cfg.GlareIntervalOwner, "upper bound of the owner-side glare back-off window")
	flag.DurationVar(&cfg.GlareIntervalNonOwner, "glare-interval-nonowner", cfg.GlareIntervalNonOwner, "upper bound of the non-owner-side glare back-off window")
	flag.StringVar(&cfg.LogLevel, "loglevel", "debug", "log level (debug, info, warn, error)")
	flag.Parse()

	if v := os.Getenv("LOCAL_IP"); v != "" {
		cfg.LocalIP = v
	}
	if v := os.Getenv("RTCP_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RTCPEnabledByDefault = b
		}
	}
	if v := os.Getenv("REINVITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReinviteTimeout = d
		}
	}
	if v := os.Getenv("GLARE_INTERVAL_OWNER"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.GlareIntervalOwner = d
		}
	}
	if v := os.Getenv("GLARE_INTERVAL_NONOWNER"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.GlareIntervalNonOwner = d
		}
	}
	if v := os.Getenv("LOGLEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}
