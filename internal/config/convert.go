package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PortMappingsToRanges expands a list of "host:container" or
// "hostStart-hostEnd:containerStart-containerEnd" entries into a flat
// host→container port map.
//
// When either side of an entry contains a range, both sides must be ranges
// spanning the same number of ports. A later entry for the same host port
// overwrites the earlier one.
func PortMappingsToRanges(entries []string) (map[int]int, error) {
	out := make(map[int]int, len(entries))
	for _, entry := range entries {
		host, container, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("port mapping %q: expected host:container", entry)
		}
		hLo, hHi, err := parsePortRange(host)
		if err != nil {
			return nil, fmt.Errorf("port mapping %q: %w", entry, err)
		}
		cLo, cHi, err := parsePortRange(container)
		if err != nil {
			return nil, fmt.Errorf("port mapping %q: %w", entry, err)
		}
		if hHi-hLo != cHi-cLo {
			return nil, fmt.Errorf("port mapping %q: host range spans %d ports but container range spans %d",
				entry, hHi-hLo+1, cHi-cLo+1)
		}
		for i := 0; i <= hHi-hLo; i++ {
			out[hLo+i] = cLo + i
		}
	}
	return out, nil
}

// parsePortRange parses "N" or "N-M" into an inclusive [lo, hi] pair.
func parsePortRange(s string) (lo, hi int, err error) {
	first, second, isRange := strings.Cut(s, "-")
	lo, err = strconv.Atoi(first)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid port %q", first)
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err = strconv.Atoi(second)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid port %q", second)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("descending port range %q", s)
	}
	return lo, hi, nil
}

// RangesToPortMappings compacts a host→container port map into the shortest
// list of "host:container" and "hStart-hEnd:cStart-cEnd" entries.
//
// Entries are ordered by ascending host port. A run is extended only while
// both the host and the container port advance by exactly one in lock-step,
// so the output is maximally compacted.
func RangesToPortMappings(mapping map[int]int) []string {
	if len(mapping) == 0 {
		return nil
	}
	hosts := make([]int, 0, len(mapping))
	for h := range mapping {
		hosts = append(hosts, h)
	}
	sort.Ints(hosts)

	var out []string
	runStart := hosts[0]
	prev := hosts[0]
	for _, h := range hosts[1:] {
		if h == prev+1 && mapping[h] == mapping[prev]+1 {
			prev = h
			continue
		}
		out = append(out, formatPortRun(runStart, prev, mapping))
		runStart, prev = h, h
	}
	out = append(out, formatPortRun(runStart, prev, mapping))
	return out
}

func formatPortRun(hStart, hEnd int, mapping map[int]int) string {
	if hStart == hEnd {
		return fmt.Sprintf("%d:%d", hStart, mapping[hStart])
	}
	return fmt.Sprintf("%d-%d:%d-%d", hStart, hEnd, mapping[hStart], mapping[hEnd])
}

// EnvListToMap converts "KEY=VALUE" entries into a map. Only the first "="
// separates key from value, so values may themselves contain "=". An entry
// with no "=" maps the whole entry to an empty value.
func EnvListToMap(entries []string) map[string]string {
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, _ := strings.Cut(entry, "=")
		out[key] = value
	}
	return out
}

// EnvMapToList converts an environment map back into "KEY=VALUE" entries,
// ordered lexically by key for deterministic output.
func EnvMapToList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
