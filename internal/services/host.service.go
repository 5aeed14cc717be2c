package services

import (
	"fmt"

	"vnwidget/internal/models"

	"github.com/shirou/gopsutil/v3/net"
)

// ioCounters is swapped in tests
var ioCounters = net.IOCounters

// GetHostInterfaces returns live counters for every host interface
func GetHostInterfaces() ([]models.HostInterface, error) {
	counters, err := ioCounters(true)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface counters: %w", err)
	}

	statuses := make([]models.HostInterface, 0, len(counters))
	for _, counter := range counters {
		statuses = append(statuses, models.HostInterface{
			Interface:   counter.Name,
			BytesSent:   counter.BytesSent,
			BytesRecv:   counter.BytesRecv,
			PacketsSent: counter.PacketsSent,
			PacketsRecv: counter.PacketsRecv,
			ErrorsIn:    counter.Errin,
			ErrorsOut:   counter.Errout,
			DropsIn:     counter.Dropin,
			DropsOut:    counter.Dropout,
			SentText:    FormatByteSize(float64(counter.BytesSent)),
			RecvText:    FormatByteSize(float64(counter.BytesRecv)),
			PacketsText: FormatCount(float64(counter.PacketsSent + counter.PacketsRecv)),
		})
	}

	return statuses, nil
}

// HostHasInterface reports whether name is a host interface
func HostHasInterface(name string) (bool, error) {
	interfaces, err := GetHostInterfaces()
	if err != nil {
		return false, err
	}
	for _, iface := range interfaces {
		if iface.Interface == name {
			return true, nil
		}
	}
	return false, nil
}
