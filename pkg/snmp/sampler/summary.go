// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v2"
)

// Summary aggregates the results of a run.
type Summary struct {
	Label     string
	Count     int
	Successes int
	Failures  int
	Min       time.Duration
	Mean      time.Duration
	Max       time.Duration
	P50       time.Duration
	P95       time.Duration
	P99       time.Duration
	// Errors counts failures by error class.
	Errors map[string]int
}

// Summarize computes the latency distribution of results, failures included.
func Summarize(results []*Result) *Summary {
	s := &Summary{Count: len(results), Errors: map[string]int{}}
	if len(results) == 0 {
		return s
	}
	s.Label = results[0].Label

	elapsed := make([]time.Duration, 0, len(results))
	var total time.Duration
	for _, r := range results {
		if r.Success {
			s.Successes++
		} else {
			s.Failures++
			s.Errors[r.ErrorClass()]++
		}
		elapsed = append(elapsed, r.Elapsed)
		total += r.Elapsed
	}
	sort.Slice(elapsed, func(i, j int) bool { return elapsed[i] < elapsed[j] })

	s.Min = elapsed[0]
	s.Max = elapsed[len(elapsed)-1]
	s.Mean = total / time.Duration(len(elapsed))
	s.P50 = percentile(elapsed, 50)
	s.P95 = percentile(elapsed, 95)
	s.P99 = percentile(elapsed, 99)
	return s
}

// percentile uses the nearest rank method on sorted values.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// ErrorRate returns the share of failed samples.
func (s *Summary) ErrorRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Count)
}

type summaryReport struct {
	Label     string         `yaml:"label"`
	Count     int            `yaml:"count"`
	Successes int            `yaml:"successes"`
	Failures  int            `yaml:"failures"`
	ErrorRate float64        `yaml:"error_rate"`
	LatencyMs latencyReport  `yaml:"latency_ms"`
	Errors    map[string]int `yaml:"errors,omitempty"`
}

type latencyReport struct {
	Min  float64 `yaml:"min"`
	Mean float64 `yaml:"mean"`
	Max  float64 `yaml:"max"`
	P50  float64 `yaml:"p50"`
	P95  float64 `yaml:"p95"`
	P99  float64 `yaml:"p99"`
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (s *Summary) report() summaryReport {
	return summaryReport{
		Label:     s.Label,
		Count:     s.Count,
		Successes: s.Successes,
		Failures:  s.Failures,
		ErrorRate: s.ErrorRate(),
		LatencyMs: latencyReport{
			Min:  ms(s.Min),
			Mean: ms(s.Mean),
			Max:  ms(s.Max),
			P50:  ms(s.P50),
			P95:  ms(s.P95),
			P99:  ms(s.P99),
		},
		Errors: s.Errors,
	}
}

// WriteYAML writes the summary as a YAML document.
func (s *Summary) WriteYAML(w io.Writer) error {
	out, err := yaml.Marshal(s.report())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// WriteText writes the summary as an aligned table.
func (s *Summary) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Label\t%s\n", s.Label)
	fmt.Fprintf(tw, "Samples\t%d\n", s.Count)
	fmt.Fprintf(tw, "Successes\t%d\n", s.Successes)
	fmt.Fprintf(tw, "Failures\t%d (%.2f%%)\n", s.Failures, 100*s.ErrorRate())
	fmt.Fprintf(tw, "Latency\tmin %s  mean %s  max %s\n", s.Min, s.Mean, s.Max)
	fmt.Fprintf(tw, "Percentiles\tp50 %s  p95 %s  p99 %s\n", s.P50, s.P95, s.P99)

	classes := make([]string, 0, len(s.Errors))
	for class := range s.Errors {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		fmt.Fprintf(tw, "Errors (%s)\t%d\n", class, s.Errors[class])
	}
	return tw.Flush()
}
