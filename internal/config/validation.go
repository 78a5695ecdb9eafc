package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/declog-dev/declog/changelog"
)

// distributionPattern matches valid distribution names as they appear in a
// changelog heading line
var distributionPattern = regexp.MustCompile(`(?i)^[-+0-9a-z.]+$`)

// Validation errors
var (
	ErrUrgencyUnknown      = errors.New("default urgency is not a known urgency keyword")
	ErrDistributionInvalid = errors.New("default distribution is not a valid distribution name")
	ErrMaxBlocksNegative   = errors.New("parse max_blocks cannot be negative")
	ErrTimeoutNegative     = errors.New("http timeout cannot be negative")
	ErrMirrorInvalid       = errors.New("mirror must be an http or https URL")
)

// validate performs validation on the loaded configuration
func validate(cfg *Config) error {
	if !changelog.KnownUrgency(cfg.Defaults.Urgency) {
		return fmt.Errorf("%w: %q", ErrUrgencyUnknown, cfg.Defaults.Urgency)
	}

	if !distributionPattern.MatchString(cfg.Defaults.Distribution) {
		return fmt.Errorf("%w: %q", ErrDistributionInvalid, cfg.Defaults.Distribution)
	}

	if cfg.Parse.MaxBlocks < 0 {
		return fmt.Errorf("%w: %d", ErrMaxBlocksNegative, cfg.Parse.MaxBlocks)
	}

	if cfg.HTTP.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrTimeoutNegative, cfg.HTTP.Timeout)
	}

	// Validate mirror URL
	u, err := url.Parse(cfg.HTTP.Mirror)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMirrorInvalid, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrMirrorInvalid, cfg.HTTP.Mirror)
	}

	return nil
}
