// Package wake sends Wake-on-LAN magic packets, letting one autosleep host
// bring a suspended peer back up.
package wake

import (
	"bytes"
	"fmt"
	"net"

	"autosleep/internal/logging"
)

// wolPorts are the UDP ports magic packets are conventionally sent on.
var wolPorts = []int{7, 9}

// DefaultBroadcast is used when no broadcast address is given.
const DefaultBroadcast = "255.255.255.255"

// Sender sends Wake-on-LAN magic packets.
type Sender struct {
	logger *logging.Logger
	send   func(addr string, packet []byte) error
}

// NewSender creates a magic packet sender
func NewSender(logger *logging.Logger) *Sender {
	return &Sender{logger: logger, send: sendUDP}
}

// Send wakes the host with the given MAC address by broadcasting a magic
// packet on both standard WoL ports. Sending succeeds when at least one port
// accepts the packet, regardless of attempt order.
func (s *Sender) Send(targetMAC, broadcastAddr string) error {
	mac, err := ParseMAC(targetMAC)
	if err != nil {
		return err
	}

	packet := MagicPacket(mac)
	if broadcastAddr == "" {
		broadcastAddr = DefaultBroadcast
	}

	sent := false
	var lastErr error
	for _, port := range wolPorts {
		addr := fmt.Sprintf("%s:%d", broadcastAddr, port)
		if err := s.send(addr, packet); err != nil {
			s.logger.Warn("wake.send.port_failed", "Failed to send magic packet", map[string]interface{}{
				"address": addr,
				"error":   err.Error(),
			})
			lastErr = err
			continue
		}
		s.logger.Info("wake.send.success", "Magic packet sent", map[string]interface{}{
			"mac":     mac.String(),
			"address": addr,
		})
		sent = true
	}

	if !sent {
		return fmt.Errorf("failed to send magic packet: %w", lastErr)
	}
	return nil
}

// ParseMAC parses and validates a 6-byte hardware address
func ParseMAC(s string) (net.HardwareAddr, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return nil, fmt.Errorf("invalid MAC address %q: %w", s, err)
	}
	if len(mac) != 6 {
		return nil, fmt.Errorf("invalid MAC address %q: expected 6 bytes, got %d", s, len(mac))
	}
	return mac, nil
}

// MagicPacket builds a Wake-on-LAN magic packet: 6 bytes of 0xFF followed by
// 16 repetitions of the target MAC, 102 bytes total.
func MagicPacket(mac net.HardwareAddr) []byte {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0xFF}, 6))
	for i := 0; i < 16; i++ {
		buf.Write(mac)
	}
	return buf.Bytes()
}

func sendUDP(addr string, packet []byte) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", addr, err)
	}

	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	defer conn.Close()

	n, err := conn.Write(packet)
	if err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}
	if n != len(packet) {
		return fmt.Errorf("incomplete send: wrote %d of %d bytes", n, len(packet))
	}
	return nil
}
