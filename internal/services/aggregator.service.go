package services

import "vnwidget/internal/models"

// Aggregate extracts today/month/total samples from an interface report.
// "Today" is the last day entry and "this month" the first month entry,
// which is how vnstat orders its arrays; no calendar lookup is done.
func Aggregate(report *models.InterfaceReport) models.TrafficSnapshot {
	var snapshot models.TrafficSnapshot
	if report == nil {
		return snapshot
	}

	traffic := report.Traffic
	if n := len(traffic.Day); n > 0 {
		snapshot.Today = traffic.Day[n-1]
	}
	if len(traffic.Month) > 0 {
		snapshot.Month = traffic.Month[0]
	}
	if traffic.Total != nil {
		snapshot.Total = *traffic.Total
	}

	return snapshot
}

// AggregateAll builds a snapshot for every interface in a response
func AggregateAll(resp *models.ServerResponse) []models.InterfaceSnapshot {
	if resp == nil || resp.Interfaces == nil {
		return nil
	}

	snapshots := make([]models.InterfaceSnapshot, 0, len(*resp.Interfaces))
	for i := range *resp.Interfaces {
		report := &(*resp.Interfaces)[i]
		snapshots = append(snapshots, models.InterfaceSnapshot{
			Interface: report.Name,
			Snapshot:  Aggregate(report),
		})
	}
	return snapshots
}
