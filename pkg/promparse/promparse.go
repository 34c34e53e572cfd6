// Package promparse, bir /metrics endpoint'inin döndüğü Prometheus text
// formatını okur ve label-aware erişim sağlar.
//
// Parse işini prometheus/common/expfmt yapar; bu paket sadece sonucu
// "isim + label → değer" sorgularına indirger:
//
//	m, err := promparse.Parse(resp.Body)
//	admires := m.ValueWithLabels("gallery_server_mutations_total", map[string]string{"op": "admire"})
//	all := m.Sum("gallery_server_mutations_total")
package promparse

import (
	"fmt"
	"io"
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Sample, bir metriğin tek bir label kombinasyonu.
// Histogram ve summary'lerde Value gözlem sayısıdır.
type Sample struct {
	Labels map[string]string
	Value  float64
}

// Metrics, parse edilen metrikler: isim → örnekler.
type Metrics struct {
	data map[string][]Sample
}

// Parse, text exposition formatını okur.
func Parse(r io.Reader) (*Metrics, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics: %w", err)
	}

	m := &Metrics{data: make(map[string][]Sample, len(families))}
	for name, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			m.data[name] = append(m.data[name], Sample{Labels: labels, Value: value(mf.GetType(), metric)})
		}
	}
	return m, nil
}

func value(t dto.MetricType, metric *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(metric.GetHistogram().GetSampleCount())
	case dto.MetricType_SUMMARY:
		return float64(metric.GetSummary().GetSampleCount())
	default:
		return metric.GetUntyped().GetValue()
	}
}

// Has, metriğin var olup olmadığını döner.
func (m *Metrics) Has(name string) bool {
	return len(m.data[name]) > 0
}

// Samples, metriğin tüm label kombinasyonlarını label'larına göre sıralı döner.
func (m *Metrics) Samples(name string) []Sample {
	out := append([]Sample(nil), m.data[name]...)
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprint(out[i].Labels) < fmt.Sprint(out[j].Labels)
	})
	return out
}

// Sum, tüm label kombinasyonlarının toplamı. Metrik yoksa 0.
func (m *Metrics) Sum(name string) float64 {
	var total float64
	for _, s := range m.data[name] {
		total += s.Value
	}
	return total
}

// ValueWithLabels, verilen label'ların hepsini taşıyan örneklerin toplamı.
// Örnek: {"op": "admire"} → admire'ın tüm typename'lerinin toplamı.
func (m *Metrics) ValueWithLabels(name string, labels map[string]string) float64 {
	var total float64
	for _, s := range m.data[name] {
		if matches(s.Labels, labels) {
			total += s.Value
		}
	}
	return total
}

func matches(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
