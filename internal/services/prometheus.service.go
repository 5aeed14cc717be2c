package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"vnwidget/internal/models"

	"github.com/prometheus/prometheus/prompb"
)

const (
	MetricTotalBytes = "vnstat_traffic_total_bytes"
	MetricMonthBytes = "vnstat_traffic_month_bytes"
	MetricTodayBytes = "vnstat_traffic_today_bytes"
)

const metricsHeader = "# HELP vnstat_traffic_total_bytes Total traffic in bytes\n" +
	"# TYPE vnstat_traffic_total_bytes counter\n" +
	"# HELP vnstat_traffic_month_bytes Monthly traffic in bytes\n" +
	"# TYPE vnstat_traffic_month_bytes counter\n" +
	"# HELP vnstat_traffic_today_bytes Today's traffic in bytes\n" +
	"# TYPE vnstat_traffic_today_bytes counter\n"

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// TrafficSeries is one exported sample: metric x interface x direction
type TrafficSeries struct {
	Metric    string
	Interface string
	Direction string
	Value     uint64
}

// BuildSeries turns every interface of a payload into exported samples.
// Buckets the interface does not report are skipped rather than sent as zero.
func BuildSeries(resp *models.ServerResponse) []TrafficSeries {
	if resp == nil || resp.Interfaces == nil {
		return nil
	}

	var series []TrafficSeries
	add := func(metric, iface string, sample models.TrafficSample) {
		series = append(series,
			TrafficSeries{Metric: metric, Interface: iface, Direction: "rx", Value: sample.RX},
			TrafficSeries{Metric: metric, Interface: iface, Direction: "tx", Value: sample.TX},
		)
	}

	for i := range *resp.Interfaces {
		report := &(*resp.Interfaces)[i]
		snapshot := Aggregate(report)

		if report.Traffic.Total != nil {
			add(MetricTotalBytes, report.Name, snapshot.Total)
		}
		if len(report.Traffic.Month) > 0 {
			add(MetricMonthBytes, report.Name, snapshot.Month)
		}
		if len(report.Traffic.Day) > 0 {
			add(MetricTodayBytes, report.Name, snapshot.Today)
		}
	}

	return series
}

// GeneratePrometheusMetrics renders the text exposition format
func GeneratePrometheusMetrics(resp *models.ServerResponse) string {
	var metrics strings.Builder
	metrics.WriteString(metricsHeader)

	if resp == nil || resp.Interfaces == nil || len(*resp.Interfaces) == 0 {
		metrics.WriteString("# No interface data available\n")
		return metrics.String()
	}

	for _, s := range BuildSeries(resp) {
		fmt.Fprintf(&metrics, "%s{interface=\"%s\",direction=\"%s\"} %s\n",
			s.Metric, labelEscaper.Replace(s.Interface), s.Direction, strconv.FormatUint(s.Value, 10))
	}

	return metrics.String()
}

// MetricsFromJSON renders metrics straight from a vnstat --json body.
// A body without an interfaces list still yields the HELP/TYPE header.
func MetricsFromJSON(data []byte) (string, error) {
	var resp models.ServerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse vnstat JSON: %w", err)
	}
	return GeneratePrometheusMetrics(&resp), nil
}

// ConvertToWriteRequest builds a remote write request from exported samples
func ConvertToWriteRequest(series []TrafficSeries, hostname string, timestampMs int64) *prompb.WriteRequest {
	timeseries := make([]prompb.TimeSeries, 0, len(series))
	for _, s := range series {
		labels := []prompb.Label{
			{Name: "__name__", Value: s.Metric},
			{Name: "direction", Value: s.Direction},
			{Name: "hostname", Value: hostname},
			{Name: "interface", Value: s.Interface},
		}
		// Remote write receivers expect labels sorted by name.
		sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })

		timeseries = append(timeseries, prompb.TimeSeries{
			Labels:  labels,
			Samples: []prompb.Sample{{Value: float64(s.Value), Timestamp: timestampMs}},
		})
	}

	return &prompb.WriteRequest{Timeseries: timeseries}
}
