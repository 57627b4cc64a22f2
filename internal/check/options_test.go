package check

import (
	"testing"
)

func TestOptions_RequiredString(t *testing.T) {
	opts := Options{"path": "/var/spool/next", "empty": ""}

	v, err := opts.RequiredString("path")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != "/var/spool/next" {
		t.Errorf("Expected /var/spool/next, got %q", v)
	}

	if _, err := opts.RequiredString("missing"); err == nil {
		t.Error("Expected error for missing option")
	}
	if _, err := opts.RequiredString("empty"); err == nil {
		t.Error("Expected error for empty option")
	}
}

func TestOptions_Int(t *testing.T) {
	opts := Options{"count": " 5 ", "bad": "five"}

	n, err := opts.Int("count", 1)
	if err != nil || n != 5 {
		t.Errorf("Expected 5, got %d (err %v)", n, err)
	}

	n, err = opts.Int("absent", 7)
	if err != nil || n != 7 {
		t.Errorf("Expected default 7, got %d (err %v)", n, err)
	}

	if _, err := opts.Int("bad", 0); err == nil {
		t.Error("Expected error for non-integer value")
	}
}

func TestOptions_Float(t *testing.T) {
	opts := Options{"threshold": "2.5", "bad": "high"}

	f, err := opts.Float("threshold", 0)
	if err != nil || f != 2.5 {
		t.Errorf("Expected 2.5, got %f (err %v)", f, err)
	}

	if _, err := opts.Float("bad", 0); err == nil {
		t.Error("Expected error for non-numeric value")
	}
}

func TestOptions_IntList(t *testing.T) {
	opts := Options{"ports": "22, 80,443", "bad": "22,ssh"}

	ports, err := opts.IntList("ports")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(ports) != 3 || ports[0] != 22 || ports[1] != 80 || ports[2] != 443 {
		t.Errorf("Unexpected ports: %v", ports)
	}

	if _, err := opts.IntList("bad"); err == nil {
		t.Error("Expected error for malformed list")
	}
	if _, err := opts.IntList("missing"); err == nil {
		t.Error("Expected error for missing list")
	}
}
