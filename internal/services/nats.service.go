package services

import (
	"log"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes traffic frames to a NATS subject
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSPublisher connects to the NATS server at url
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("vnwidget-server"))
	if err != nil {
		return nil, err
	}
	log.Printf("[NATS] Connected to NATS server at %s (subject: %s)", url, subject)
	return &NATSPublisher{nc: nc, subject: subject}, nil
}

// Publish sends one frame to the configured subject
func (p *NATSPublisher) Publish(data []byte) error {
	return p.nc.Publish(p.subject, data)
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("[NATS] Connection drained and closed.")
	}
}
