package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// TrafficSample holds received/transmitted byte counts for one time bucket
type TrafficSample struct {
	RX uint64 `json:"rx"`
	TX uint64 `json:"tx"`
}

// Total returns rx + tx
func (s TrafficSample) Total() uint64 {
	return s.RX + s.TX
}

// UnmarshalJSON accepts any JSON number (vnstat may emit 5e10 style values)
// and ignores the extra fields vnstat puts next to rx/tx.
func (s *TrafficSample) UnmarshalJSON(data []byte) error {
	var raw struct {
		RX *float64 `json:"rx"`
		TX *float64 `json:"tx"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid traffic sample: %w", err)
	}
	s.RX = toBytes(raw.RX)
	s.TX = toBytes(raw.TX)
	return nil
}

func toBytes(v *float64) uint64 {
	if v == nil || *v <= 0 || math.IsNaN(*v) {
		return 0
	}
	if *v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(*v)
}

// InterfaceTraffic groups the per-bucket samples of one interface.
// Day is ordered oldest first, Month newest first (vnstat layout).
type InterfaceTraffic struct {
	Day   []TrafficSample `json:"day,omitempty"`
	Month []TrafficSample `json:"month,omitempty"`
	Total *TrafficSample  `json:"total,omitempty"`
}

// InterfaceReport represents one named network interface in a vnstat payload
type InterfaceReport struct {
	Name    string           `json:"name"`
	Traffic InterfaceTraffic `json:"traffic"`
}

// ServerResponse is the body served by the /json endpoint.
// Interfaces is a pointer so a missing field can be told apart from an empty list.
type ServerResponse struct {
	Interfaces *[]InterfaceReport `json:"interfaces"`
}

// TrafficSnapshot is the aggregated view of a single interface
type TrafficSnapshot struct {
	Today TrafficSample `json:"today"`
	Month TrafficSample `json:"month"`
	Total TrafficSample `json:"total"`
}

// InterfaceSnapshot pairs an interface name with its snapshot
type InterfaceSnapshot struct {
	Interface string          `json:"interface"`
	Snapshot  TrafficSnapshot `json:"snapshot"`
}
