package checks

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"autosleep/internal/check"
)

var tcpTables = []string{"/proc/net/tcp", "/proc/net/tcp6"}

// tcpEstablished is the kernel's state code for an established connection.
const tcpEstablished = 0x01

// ConnectionsCheck reports activity while an established TCP connection
// exists on one of the configured local ports.
type ConnectionsCheck struct {
	name   string
	ports  map[int]bool
	tables []string
}

// NewConnectionsCheck constructs a connections activity check. Required
// option: ports, a comma-separated list of local port numbers.
func NewConnectionsCheck(name string, opts check.Options) (check.Activity, error) {
	ports, err := opts.IntList("ports")
	if err != nil {
		return nil, err
	}

	set := make(map[int]bool, len(ports))
	for _, port := range ports {
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("option \"ports\": invalid port %d", port)
		}
		set[port] = true
	}
	return &ConnectionsCheck{name: name, ports: set, tables: tcpTables}, nil
}

// Name returns the configured section name
func (c *ConnectionsCheck) Name() string { return c.name }

// Check scans the kernel TCP tables for established connections on the
// watched ports
func (c *ConnectionsCheck) Check(_ context.Context) (check.Result, error) {
	for _, table := range c.tables {
		port, found, err := c.scanTable(table)
		if err != nil {
			return check.Result{}, err
		}
		if found {
			return check.Result{
				Active: true,
				Reason: fmt.Sprintf("established connection on port %d", port),
			}, nil
		}
	}
	return check.Result{}, nil
}

// scanTable reads one /proc/net table. Each connection line carries the local
// address as hex ip:port in the second column and the state code in the
// fourth.
func (c *ConnectionsCheck) scanTable(path string) (int, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan() // header line

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		state, err := strconv.ParseInt(fields[3], 16, 32)
		if err != nil || state != tcpEstablished {
			continue
		}

		local := fields[1]
		sep := strings.LastIndexByte(local, ':')
		if sep < 0 {
			continue
		}
		port, err := strconv.ParseInt(local[sep+1:], 16, 32)
		if err != nil {
			continue
		}

		if c.ports[int(port)] {
			return int(port), true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, false, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return 0, false, nil
}
