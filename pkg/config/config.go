// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2018-present Datadog, Inc.

// Package config holds the trap sampler configuration: a lock protected viper
// instance with the defaults of every known key, fed from a YAML plan file and
// TRAPSAMPLER_* environment variables.
package config

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/viper"

	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// Config is the interface the rest of the sampler reads its settings from.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	IsSet(key string) bool
	AllKeys() []string

	Set(key string, value interface{})
	SetDefault(key string, value interface{})
	BindEnv(key string)
	BindEnvAndSetDefault(key string, value interface{})

	UnmarshalKey(key string, rawVal interface{}) error

	SetConfigFile(file string)
	ConfigFileUsed() string
	ReadInConfig() error
	ReadConfig(in io.Reader) error
}

// Sampler is the global configuration object
var Sampler Config

func init() {
	Sampler = NewConfig("trapsampler", "TRAPSAMPLER", strings.NewReplacer(".", "_"))
	InitConfig(Sampler)
}

// InitConfig sets the defaults of every key known by the sampler.
func InitConfig(config Config) {
	config.BindEnvAndSetDefault("log_level", "info")
	config.BindEnvAndSetDefault("log_file", "")

	// Per-sample settings, read as opaque strings by the sampler.
	config.BindEnvAndSetDefault("sampler.communication_style", "Request Only")
	config.BindEnvAndSetDefault("sampler.destination_address", "127.0.0.1")
	config.BindEnvAndSetDefault("sampler.destination_port", "162")
	config.BindEnvAndSetDefault("sampler.listening_address", "0.0.0.0")
	config.BindEnvAndSetDefault("sampler.listening_port", "1162")
	config.BindEnvAndSetDefault("sampler.community", "public")
	config.BindEnvAndSetDefault("sampler.correlation_oid", "")
	config.BindEnvAndSetDefault("sampler.timeout", "1000") // in milliseconds
	config.SetDefault("sampler.varbinds", []interface{}{})

	// Load runner
	config.BindEnvAndSetDefault("runner.workers", 1)
	config.BindEnvAndSetDefault("runner.iterations", 1)
	config.BindEnvAndSetDefault("runner.rate", 0.0) // samples per second, 0 means unthrottled
	config.BindEnvAndSetDefault("runner.stop_timeout", 5) // in seconds

	config.BindEnvAndSetDefault("telemetry.metrics_addr", "")
}

// safeConfig wraps viper with a lock, viper itself is not safe for
// concurrent use.
type safeConfig struct {
	sync.RWMutex
	v *viper.Viper
}

// NewConfig returns a new Config object.
func NewConfig(name string, envPrefix string, envKeyReplacer *strings.Replacer) Config {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.SetTypeByDefaultValue(true)
	return &safeConfig{v: v}
}

// NewFromYAML returns a config holding all the defaults overridden by the
// given YAML document.
func NewFromYAML(doc string) (Config, error) {
	c := NewConfig("trapsampler", "TRAPSAMPLER", strings.NewReplacer(".", "_"))
	InitConfig(c)
	if err := c.ReadConfig(bytes.NewBufferString(doc)); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the plan file at path into config. An empty path keeps defaults
// and environment variables only.
func Load(config Config, path string) error {
	if path == "" {
		log.Debug("no configuration file given, using defaults and environment")
		return nil
	}
	config.SetConfigFile(path)
	if err := config.ReadInConfig(); err != nil {
		return err
	}
	warnUnexpectedUnicode(path)
	log.Infof("Configuration loaded from %s", config.ConfigFileUsed())
	return nil
}

func (c *safeConfig) GetString(key string) string {
	c.RLock()
	defer c.RUnlock()
	return c.v.GetString(key)
}

func (c *safeConfig) GetInt(key string) int {
	c.RLock()
	defer c.RUnlock()
	return c.v.GetInt(key)
}

func (c *safeConfig) GetFloat64(key string) float64 {
	c.RLock()
	defer c.RUnlock()
	return c.v.GetFloat64(key)
}

func (c *safeConfig) GetBool(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.v.GetBool(key)
}

func (c *safeConfig) GetDuration(key string) time.Duration {
	c.RLock()
	defer c.RUnlock()
	return c.v.GetDuration(key)
}

func (c *safeConfig) IsSet(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.v.IsSet(key)
}

func (c *safeConfig) AllKeys() []string {
	c.RLock()
	defer c.RUnlock()
	return c.v.AllKeys()
}

func (c *safeConfig) Set(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.v.Set(key, value)
}

func (c *safeConfig) SetDefault(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.v.SetDefault(key, value)
}

// BindEnv binds key to TRAPSAMPLER_<KEY>.
func (c *safeConfig) BindEnv(key string) {
	c.Lock()
	defer c.Unlock()
	c.v.BindEnv(key) //nolint:errcheck
}

// BindEnvAndSetDefault sets the default value for key and binds it to its
// environment variable.
func (c *safeConfig) BindEnvAndSetDefault(key string, value interface{}) {
	c.SetDefault(key, value)
	c.BindEnv(key)
}

func (c *safeConfig) UnmarshalKey(key string, rawVal interface{}) error {
	c.RLock()
	defer c.RUnlock()
	return c.v.UnmarshalKey(key, rawVal)
}

func (c *safeConfig) SetConfigFile(file string) {
	c.Lock()
	defer c.Unlock()
	c.v.SetConfigFile(file)
}

func (c *safeConfig) ConfigFileUsed() string {
	c.RLock()
	defer c.RUnlock()
	return c.v.ConfigFileUsed()
}

func (c *safeConfig) ReadInConfig() error {
	c.Lock()
	defer c.Unlock()
	return c.v.ReadInConfig()
}

func (c *safeConfig) ReadConfig(in io.Reader) error {
	c.Lock()
	defer c.Unlock()
	return c.v.ReadConfig(in)
}
