// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/jchmura/jmeter-snmp/pkg/config"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
)

// VarbindProperties is one field of the plan, as text.
type VarbindProperties struct {
	OID   string `mapstructure:"oid" yaml:"oid"`
	Value string `mapstructure:"value" yaml:"value"`
	Type  string `mapstructure:"type" yaml:"type"`
}

// Properties are the settings of a sampler as the plan file holds them.
// Nothing is parsed until ParseConfig.
type Properties struct {
	CommunicationStyle string              `mapstructure:"communication_style" yaml:"communication_style"`
	DestinationAddress string              `mapstructure:"destination_address" yaml:"destination_address"`
	DestinationPort    string              `mapstructure:"destination_port" yaml:"destination_port"`
	ListeningAddress   string              `mapstructure:"listening_address" yaml:"listening_address"`
	ListeningPort      string              `mapstructure:"listening_port" yaml:"listening_port"`
	Community          string              `mapstructure:"community" yaml:"community"`
	CorrelationOID     string              `mapstructure:"correlation_oid" yaml:"correlation_oid"`
	Timeout            string              `mapstructure:"timeout" yaml:"timeout"`
	Varbinds           []VarbindProperties `mapstructure:"varbinds" yaml:"varbinds"`
}

// PropertiesFrom reads the sampler section of cfg.
func PropertiesFrom(cfg config.Config) (Properties, error) {
	p := Properties{
		CommunicationStyle: cfg.GetString("sampler.communication_style"),
		DestinationAddress: cfg.GetString("sampler.destination_address"),
		DestinationPort:    cfg.GetString("sampler.destination_port"),
		ListeningAddress:   cfg.GetString("sampler.listening_address"),
		ListeningPort:      cfg.GetString("sampler.listening_port"),
		Community:          cfg.GetString("sampler.community"),
		CorrelationOID:     cfg.GetString("sampler.correlation_oid"),
		Timeout:            cfg.GetString("sampler.timeout"),
	}
	if err := cfg.UnmarshalKey("sampler.varbinds", &p.Varbinds); err != nil {
		return p, snmperr.NewConfigurationError(err, "cannot read sampler.varbinds")
	}
	return p, nil
}

// Config is the parsed configuration of a sampler.
type Config struct {
	Style          CommunicationStyle
	Destination    traps.SenderConfig
	Listener       traps.ListenerConfig
	CorrelationOID string
	Timeout        time.Duration
	Fields         []varbind.FieldDescriptor
}

// ParseConfig validates p and reports every problem found at once.
func ParseConfig(p Properties) (*Config, error) {
	var errs *multierror.Error
	c := &Config{CorrelationOID: p.CorrelationOID}

	style, err := ParseStyle(p.CommunicationStyle)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	c.Style = style

	timeout, timeoutErr := parseTimeout(p.Timeout)
	if timeoutErr != nil {
		errs = multierror.Append(errs, timeoutErr)
	}
	c.Timeout = timeout

	destPort, err := parsePort("destination_port", p.DestinationPort)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := checkHost("destination_address", p.DestinationAddress); err != nil {
		errs = multierror.Append(errs, err)
	}
	c.Destination = traps.SenderConfig{
		Address:   p.DestinationAddress,
		Port:      destPort,
		Community: p.Community,
		Timeout:   timeout,
	}

	if len(p.Varbinds) == 0 {
		errs = multierror.Append(errs, snmperr.NewConfigurationError(nil, "at least one varbind is required"))
	}
	for i, v := range p.Varbinds {
		typ, err := varbind.ParseType(v.Type)
		if err != nil {
			errs = multierror.Append(errs, snmperr.NewConfigurationError(err, "varbind %d", i))
			continue
		}
		c.Fields = append(c.Fields, varbind.FieldDescriptor{OID: v.OID, Value: v.Value, Type: typ})
	}

	if style == RequestResponse {
		listenPort, err := parsePort("listening_port", p.ListeningPort)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := checkHost("listening_address", p.ListeningAddress); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := varbind.ValidateOID(p.CorrelationOID); err != nil {
			errs = multierror.Append(errs, snmperr.NewConfigurationError(err, "invalid correlation_oid"))
		}
		if timeout <= 0 && timeoutErr == nil {
			errs = multierror.Append(errs, snmperr.NewConfigurationError(nil, "timeout must be positive to wait for replies"))
		}
		c.Listener = traps.ListenerConfig{
			Address:        p.ListeningAddress,
			Port:           listenPort,
			CorrelationOID: p.CorrelationOID,
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, snmperr.NewConfigurationError(err, "invalid sampler configuration")
	}
	return c, nil
}

func parsePort(key, text string) (uint16, error) {
	port, err := strconv.ParseUint(text, 10, 16)
	if err != nil || port == 0 {
		return 0, snmperr.NewConfigurationError(err, "invalid %s %q", key, text)
	}
	return uint16(port), nil
}

func parseTimeout(text string) (time.Duration, error) {
	ms, err := strconv.ParseInt(text, 10, 64)
	if err != nil || ms < 0 {
		return 0, snmperr.NewConfigurationError(err, "invalid timeout %q, expected milliseconds", text)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func checkHost(key, host string) error {
	if host == "" {
		return snmperr.NewConfigurationError(nil, "%s is required", key)
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if _, err := net.ResolveIPAddr("ip", host); err != nil {
		return snmperr.NewConfigurationError(err, "cannot resolve %s %q", key, host)
	}
	return nil
}
