// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package sampler sends SNMP trap requests and measures how long the
// correlated replies take to come back.
package sampler

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// CounterToken in a varbind value is replaced by a number unique to each
// sample.
const CounterToken = "{{counter}}"

// SenderFactory opens the sender of one worker.
type SenderFactory func(traps.SenderConfig) (TrapSender, error)

// ListenerProvider hands out the listener shared by every worker.
// *traps.Provider implements it.
type ListenerProvider interface {
	GetOrCreate(config traps.ListenerConfig) (*traps.CorrelationListener, error)
}

// Sampler runs exchanges for a single worker. It is not safe for concurrent
// use: each worker owns one.
type Sampler struct {
	props     Properties
	provider  ListenerProvider
	newSender SenderFactory
	clock     clock.Clock
	sequence  *atomic.Uint64

	config     *Config
	sender     TrapSender
	correlator Correlator
	setupErr   error
}

// Option customizes a Sampler.
type Option func(*Sampler)

// WithSenderFactory replaces the UDP sender.
func WithSenderFactory(f SenderFactory) Option {
	return func(s *Sampler) { s.newSender = f }
}

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Sampler) { s.clock = c }
}

// WithSequence shares the counter token sequence between samplers.
func WithSequence(seq *atomic.Uint64) Option {
	return func(s *Sampler) { s.sequence = seq }
}

// WithCorrelator bypasses the listener provider.
func WithCorrelator(c Correlator) Option {
	return func(s *Sampler) { s.correlator = c }
}

// New returns a sampler for props. Nothing is opened before ThreadStarted.
func New(props Properties, provider ListenerProvider, opts ...Option) *Sampler {
	s := &Sampler{
		props:    props,
		provider: provider,
		newSender: func(c traps.SenderConfig) (TrapSender, error) {
			return traps.NewSender(c)
		},
		clock:    clock.New(),
		sequence: atomic.NewUint64(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ThreadStarted parses the configuration and opens the sender and, for
// request/response, the shared listener. A failure is logged and returned by
// later Samples, which retry transport failures.
func (s *Sampler) ThreadStarted() error {
	s.setupErr = s.setup()
	if s.setupErr != nil {
		log.Errorf("Cannot start %s sampler: %v", s.props.CommunicationStyle, s.setupErr)
	}
	return s.setupErr
}

func (s *Sampler) setup() error {
	config, err := ParseConfig(s.props)
	if err != nil {
		return err
	}
	s.config = config

	if config.Style == RequestResponse && s.correlator == nil {
		listener, err := s.provider.GetOrCreate(config.Listener)
		if err != nil {
			return err
		}
		s.correlator = listener
	}

	sender, err := s.newSender(config.Destination)
	if err != nil {
		return err
	}
	s.sender = sender
	log.Debugf("Sampler ready: %s to %s", config.Style, config.Destination.Addr())
	return nil
}

// Sample runs one exchange. A transport failure of ThreadStarted, such as the
// listening port being taken, is retried before the exchange.
func (s *Sampler) Sample(ctx context.Context) *Result {
	if snmperr.IsTransport(s.setupErr) {
		if s.setupErr = s.setup(); s.setupErr == nil {
			log.Infof("%s sampler recovered from its start failure", s.config.Style)
		}
	}
	if s.setupErr != nil || s.sender == nil {
		err := s.setupErr
		if err == nil {
			err = errNotStarted
		}
		result := &Result{Label: s.label(), Start: s.clock.Now()}
		return result.fail(err)
	}

	exchange := &Exchange{
		Style:          s.config.Style,
		Fields:         s.expandFields(),
		CorrelationOID: s.config.CorrelationOID,
		Timeout:        s.config.Timeout,
		Sender:         s.sender,
		Correlator:     s.correlator,
		Clock:          s.clock,
	}
	return exchange.Execute(ctx)
}

func (s *Sampler) label() string {
	if style, err := ParseStyle(s.props.CommunicationStyle); err == nil {
		return label(style.String())
	}
	return label(s.props.CommunicationStyle)
}

func (s *Sampler) expandFields() []varbind.FieldDescriptor {
	fields := s.config.Fields
	var counter string
	for i, f := range fields {
		if !strings.Contains(f.Value, CounterToken) {
			continue
		}
		if counter == "" {
			counter = strconv.FormatUint(s.sequence.Inc(), 10)
			fields = append([]varbind.FieldDescriptor(nil), s.config.Fields...)
		}
		fields[i].Value = strings.ReplaceAll(f.Value, CounterToken, counter)
	}
	return fields
}

// ThreadFinished closes the worker sender. The shared listener is left to
// its owner.
func (s *Sampler) ThreadFinished() {
	if closer, ok := s.sender.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warnf("Cannot close sender: %v", err)
		}
	}
	s.sender = nil
}
