package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaulted config is valid",
			mutate: func(cfg *Config) {},
		},
		{
			name: "all policy urgencies accepted",
			mutate: func(cfg *Config) {
				cfg.Defaults.Urgency = "CRITICAL"
			},
		},
		{
			name: "unknown urgency",
			mutate: func(cfg *Config) {
				cfg.Defaults.Urgency = "whenever"
			},
			wantErr: ErrUrgencyUnknown,
		},
		{
			name: "distribution with spaces",
			mutate: func(cfg *Config) {
				cfg.Defaults.Distribution = "un stable"
			},
			wantErr: ErrDistributionInvalid,
		},
		{
			name: "distribution with parentheses",
			mutate: func(cfg *Config) {
				cfg.Defaults.Distribution = "unstable(1)"
			},
			wantErr: ErrDistributionInvalid,
		},
		{
			name: "negative max blocks",
			mutate: func(cfg *Config) {
				cfg.Parse.MaxBlocks = -1
			},
			wantErr: ErrMaxBlocksNegative,
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.HTTP.Timeout = -time.Second
			},
			wantErr: ErrTimeoutNegative,
		},
		{
			name: "mirror without scheme",
			mutate: func(cfg *Config) {
				cfg.HTTP.Mirror = "metadata.ftp-master.debian.org/changelogs"
			},
			wantErr: ErrMirrorInvalid,
		},
		{
			name: "mirror with ftp scheme",
			mutate: func(cfg *Config) {
				cfg.HTTP.Mirror = "ftp://metadata.ftp-master.debian.org/changelogs"
			},
			wantErr: ErrMirrorInvalid,
		},
		{
			name: "mirror without host",
			mutate: func(cfg *Config) {
				cfg.HTTP.Mirror = "https://"
			},
			wantErr: ErrMirrorInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.defaults()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
