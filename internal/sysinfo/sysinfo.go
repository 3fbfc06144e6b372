// Package sysinfo gathers the non-weather display segments: wall clock,
// interface addresses and load average.
package sysinfo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// ignoredInterfaces are never shown even when discovering interfaces
// automatically.
var ignoredInterfaces = []string{"lo", "docker", "veth", "br-"}

// Clock renders the time segment, hh:mm:ss.
func Clock(now time.Time) string {
	return now.Format("15:04:05")
}

// FormatLoad renders the 1/5/15 minute load averages as a display segment.
func FormatLoad(load1, load5, load15 float64) string {
	return fmt.Sprintf("L:%.2f/%.2f/%.2f", load1, load5, load15)
}

// LoadSegment samples the host load average and formats it.
func LoadSegment() (string, error) {
	avg, err := load.Avg()
	if err != nil {
		return "", err
	}
	return FormatLoad(avg.Load1, avg.Load5, avg.Load15), nil
}

// FormatCPU renders a CPU utilisation percentage as a display segment.
func FormatCPU(pct float64) string {
	return fmt.Sprintf("C:%.0f%%", pct)
}

// CPUSegment samples overall CPU utilisation and formats it. Utilisation is
// measured since the previous call, so on a periodic cycle each sample
// covers roughly one cycle interval.
func CPUSegment() (string, error) {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return "", err
	}
	if len(pcts) == 0 {
		return "", errors.New("no cpu utilisation sample")
	}
	return FormatCPU(pcts[0]), nil
}

// FormatInterface renders one interface segment, e.g. "ETH0:192.168.1.10".
func FormatInterface(name, addr string) string {
	return fmt.Sprintf("%s:%s", strings.ToUpper(name), addr)
}

// InterfaceSegments returns a segment per requested interface carrying its
// IPv4 address. With no names given, all up non-virtual interfaces with an
// IPv4 address are returned. Interfaces without an address are skipped
// rather than reported as errors; on a headless Pi an unplugged eth0 is
// normal.
func InterfaceSegments(names []string) ([]string, error) {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var segments []string
	for _, iface := range ifaces {
		if len(wanted) > 0 {
			if !wanted[iface.Name] {
				continue
			}
		} else if hasAny(iface.Name, ignoredInterfaces...) {
			continue
		}

		if addr := firstIPv4(iface.Addrs); addr != "" {
			segments = append(segments, FormatInterface(iface.Name, addr))
		}
	}
	return segments, nil
}

// firstIPv4 picks the first IPv4 address out of a CIDR-style address list.
func firstIPv4(addrs psnet.InterfaceAddrList) string {
	for _, a := range addrs {
		addr := a.Addr
		if i := strings.IndexByte(addr, '/'); i >= 0 {
			addr = addr[:i]
		}
		if addr != "" && !strings.Contains(addr, ":") {
			return addr
		}
	}
	return ""
}

// hasAny reports whether s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
