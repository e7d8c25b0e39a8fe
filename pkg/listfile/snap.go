package listfile

import "strings"

// SnapEntry is one line of the snap list
type SnapEntry struct {
	Name  string
	Flags []string
}

// ParseSnap reads "name [--flag...]". Flag tokens may appear anywhere on
// the line. A line with no name reports ok=false.
func ParseSnap(line string) (entry SnapEntry, ok bool) {
	for _, tok := range strings.Fields(StripComment(line)) {
		if strings.HasPrefix(tok, "--") {
			entry.Flags = append(entry.Flags, tok)
			continue
		}
		if entry.Name == "" {
			entry.Name = tok
		}
	}
	return entry, entry.Name != ""
}

// ParseSnaps parses every line, merging flags for repeated names and
// keeping first-seen order.
func ParseSnaps(lines []string) []SnapEntry {
	var entries []SnapEntry
	index := make(map[string]int)
	for _, line := range lines {
		entry, ok := ParseSnap(line)
		if !ok {
			continue
		}
		if i, dup := index[entry.Name]; dup {
			entries[i].Flags = mergeFlags(entries[i].Flags, entry.Flags)
			continue
		}
		index[entry.Name] = len(entries)
		entries = append(entries, entry)
	}
	return entries
}

func mergeFlags(have, more []string) []string {
	for _, f := range more {
		found := false
		for _, h := range have {
			if h == f {
				found = true
				break
			}
		}
		if !found {
			have = append(have, f)
		}
	}
	return have
}
