package wake

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"autosleep/internal/logging"
)

func TestParseMAC(t *testing.T) {
	mac, err := ParseMAC("aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mac.String() != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("expected aa:bb:cc:dd:ee:ff, got %s", mac)
	}

	if _, err := ParseMAC("not-a-mac"); err == nil {
		t.Error("expected error for malformed address")
	}
	// EUI-64 addresses are valid for net.ParseMAC but not for WoL.
	if _, err := ParseMAC("01:02:03:04:05:06:07:08"); err == nil {
		t.Error("expected error for 8-byte address")
	}
}

func TestMagicPacket(t *testing.T) {
	mac, err := ParseMAC("aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	packet := MagicPacket(mac)
	if len(packet) != 102 {
		t.Fatalf("expected 102 bytes, got %d", len(packet))
	}
	if !bytes.Equal(packet[:6], bytes.Repeat([]byte{0xFF}, 6)) {
		t.Error("expected packet to start with 6 bytes of 0xFF")
	}
	for i := 0; i < 16; i++ {
		start := 6 + i*6
		if !bytes.Equal(packet[start:start+6], mac) {
			t.Errorf("MAC repetition %d does not match", i)
		}
	}
}

func TestSend_OnePortSufficient(t *testing.T) {
	tests := []struct {
		name     string
		failAddr string // suffix of the address that fails
		wantErr  bool
	}{
		{name: "port 7 fails, port 9 succeeds", failAddr: ":7"},
		{name: "port 7 succeeds, port 9 fails", failAddr: ":9"},
		{name: "both ports fail", failAddr: ":", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSender(logging.NewWriterLogger(logging.LevelError, &bytes.Buffer{}))

			var sent []string
			s.send = func(addr string, packet []byte) error {
				if len(packet) != 102 {
					t.Errorf("expected a 102-byte magic packet, got %d bytes", len(packet))
				}
				if strings.Contains(addr, tt.failAddr) {
					return errors.New("network unreachable")
				}
				sent = append(sent, addr)
				return nil
			}

			err := s.Send("aa:bb:cc:dd:ee:ff", "")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error when every port fails")
				}
				return
			}
			if err != nil {
				t.Errorf("expected success when one port accepts the packet, got %v", err)
			}
			if len(sent) != 1 {
				t.Errorf("expected exactly one successful send, got %v", sent)
			}
		})
	}
}
