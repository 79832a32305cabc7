package config

import (
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/tradejournal/internal/flagx"
	"github.com/dmitrijs2005/tradejournal/internal/timex"
)

// FileConfig is the DTO for config files. Pointer fields distinguish "absent"
// from zero values so a file only overrides what it mentions. Durations use
// timex.Duration: "3s" or integer nanoseconds.
type FileConfig struct {
	DatabaseDSN   *string `json:"database_dsn" yaml:"database_dsn"`
	MigrateRemote *bool   `json:"migrate_remote" yaml:"migrate_remote"`
	DataDir       *string `json:"data_dir" yaml:"data_dir"`

	SecretKey       *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenTTL  *timex.Duration `json:"access_token_ttl" yaml:"access_token_ttl"`
	RefreshTokenTTL *timex.Duration `json:"refresh_token_ttl" yaml:"refresh_token_ttl"`
	RefreshInterval *timex.Duration `json:"refresh_interval" yaml:"refresh_interval"`

	CallTimeout        *timex.Duration `json:"call_timeout" yaml:"call_timeout"`
	PartialExitTimeout *timex.Duration `json:"partial_exit_timeout" yaml:"partial_exit_timeout"`
	RetryAttempts      *int            `json:"retry_attempts" yaml:"retry_attempts"`
	RetryBaseDelay     *timex.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
	RateLimit          *float64        `json:"rate_limit" yaml:"rate_limit"`
	RateBurst          *int            `json:"rate_burst" yaml:"rate_burst"`

	S3 *struct {
		Endpoint      *string `json:"endpoint" yaml:"endpoint"`
		Region        *string `json:"region" yaml:"region"`
		AccessKey     *string `json:"access_key" yaml:"access_key"`
		SecretKey     *string `json:"secret_key" yaml:"secret_key"`
		Bucket        *string `json:"bucket" yaml:"bucket"`
		PublicBaseURL *string `json:"public_base_url" yaml:"public_base_url"`
	} `json:"s3" yaml:"s3"`

	StatusAddr *string `json:"status_addr" yaml:"status_addr"`
	LogLevel   *string `json:"log_level" yaml:"log_level"`
	LogFormat  *string `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file named by -c/-config in args. It does
// nothing when no file is given and panics on read or decode errors.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch flagx.ConfigFormat(path) {
	case flagx.FormatYAML:
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	set(&cfg.DatabaseDSN, fc.DatabaseDSN)
	set(&cfg.MigrateRemote, fc.MigrateRemote)
	set(&cfg.DataDir, fc.DataDir)

	set(&cfg.SecretKey, fc.SecretKey)
	setDuration(&cfg.AccessTokenTTL, fc.AccessTokenTTL)
	setDuration(&cfg.RefreshTokenTTL, fc.RefreshTokenTTL)
	setDuration(&cfg.RefreshInterval, fc.RefreshInterval)

	setDuration(&cfg.CallTimeout, fc.CallTimeout)
	setDuration(&cfg.PartialExitTimeout, fc.PartialExitTimeout)
	set(&cfg.RetryAttempts, fc.RetryAttempts)
	setDuration(&cfg.RetryBaseDelay, fc.RetryBaseDelay)
	set(&cfg.RateLimit, fc.RateLimit)
	set(&cfg.RateBurst, fc.RateBurst)

	if s := fc.S3; s != nil {
		set(&cfg.S3.Endpoint, s.Endpoint)
		set(&cfg.S3.Region, s.Region)
		set(&cfg.S3.AccessKey, s.AccessKey)
		set(&cfg.S3.SecretKey, s.SecretKey)
		set(&cfg.S3.Bucket, s.Bucket)
		set(&cfg.S3.PublicBaseURL, s.PublicBaseURL)
	}

	set(&cfg.StatusAddr, fc.StatusAddr)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
}
