// Package metrics counts scoring outcomes and renders them in the
// Prometheus text exposition format.
package metrics

import (
	"context"
	"io"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/abhisek/readlevel/internal/scoring"
)

// Metric names.
const (
	LabelsTotal            = "readlevel_labels_total"
	CapEngagedTotal        = "readlevel_cap_engaged_total"
	AccuracyHardFloorTotal = "readlevel_accuracy_hard_floor_total"
	FloorMissedTotal       = "readlevel_floor_missed_total"
)

// ContentType is the exposition content type served at /metrics.
var ContentType = string(expfmt.NewFormat(expfmt.TypeTextPlain))

type versionLabel struct{ version, label string }

type versionFloor struct{ version, floor string }

// Collector is a scoring.Observer that tallies label distribution, cap
// engagement, hard-floor downgrades and missed v2 floors.
type Collector struct {
	mu          sync.Mutex
	labels      map[versionLabel]float64
	capEngaged  map[string]float64
	hardFloor   float64
	floorMissed map[versionFloor]float64
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		labels:      make(map[versionLabel]float64),
		capEngaged:  make(map[string]float64),
		floorMissed: make(map[versionFloor]float64),
	}
}

func (c *Collector) Observe(_ context.Context, obs scoring.Observation) {
	v := string(obs.Version)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.labels[versionLabel{v, string(obs.Label)}]++
	if obs.CapEngaged {
		c.capEngaged[v]++
	}
	if obs.AccuracyHardFloorApplied {
		c.hardFloor++
	}
	if fm := obs.FloorsMet; fm != nil {
		if !fm.Fluency {
			c.floorMissed[versionFloor{v, "fluency"}]++
		}
		if !fm.Comprehension {
			c.floorMissed[versionFloor{v, "comprehension"}]++
		}
	}
}

// LabelCount returns the tally for one version and label.
func (c *Collector) LabelCount(version scoring.Version, label scoring.Label) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.labels[versionLabel{string(version), string(label)}]
}

// Families snapshots the counters as metric families, sorted by name and
// label values.
func (c *Collector) Families() []*dto.MetricFamily {
	c.mu.Lock()
	defer c.mu.Unlock()

	labels := counterFamily(LabelsTotal, "Scoring results by scorer version and reading level label.")
	for k, n := range c.labels {
		labels.Metric = append(labels.Metric, counter(n, pair("label", k.label), pair("version", k.version)))
	}

	capped := counterFamily(CapEngagedTotal, "Scoring results whose fluency hit the cap.")
	for v, n := range c.capEngaged {
		capped.Metric = append(capped.Metric, counter(n, pair("version", v)))
	}

	floor := counterFamily(AccuracyHardFloorTotal, "Labels downgraded by the accuracy hard floor.")
	floor.Metric = append(floor.Metric, counter(c.hardFloor))

	missed := counterFamily(FloorMissedTotal, "Revised-scorer results that missed a component floor.")
	for k, n := range c.floorMissed {
		missed.Metric = append(missed.Metric, counter(n, pair("floor", k.floor), pair("version", k.version)))
	}

	fams := []*dto.MetricFamily{floor, capped, missed, labels}
	for _, f := range fams {
		sortMetrics(f.Metric)
	}
	return fams
}

// WriteTo renders all non-empty families in text exposition format.
func (c *Collector) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, f := range c.Families() {
		if len(f.Metric) == 0 {
			continue
		}
		n, err := expfmt.MetricFamilyToText(w, f)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func ptr[T any](v T) *T { return &v }

func counterFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: ptr(name),
		Help: ptr(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
}

func counter(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label:   labels,
		Counter: &dto.Counter{Value: ptr(v)},
	}
}

func pair(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: ptr(name), Value: ptr(value)}
}

func sortMetrics(ms []*dto.Metric) {
	key := func(m *dto.Metric) string {
		s := ""
		for _, l := range m.GetLabel() {
			s += l.GetName() + "=" + l.GetValue() + ","
		}
		return s
	}
	sort.Slice(ms, func(i, j int) bool { return key(ms[i]) < key(ms[j]) })
}
