package models

// HostInterface represents live cumulative counters of one host interface
type HostInterface struct {
	Interface   string `json:"interface"`
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
	ErrorsIn    uint64 `json:"errors_in"`
	ErrorsOut   uint64 `json:"errors_out"`
	DropsIn     uint64 `json:"drops_in"`
	DropsOut    uint64 `json:"drops_out"`
	SentText    string `json:"sent_text"`    // e.g. "1.25 GB"
	RecvText    string `json:"recv_text"`    // e.g. "14.3 GB"
	PacketsText string `json:"packets_text"` // e.g. "1.5m"
}
