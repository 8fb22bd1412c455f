package pass

import "sort"

// Ledger holds the two group collections. It is only ever written by full
// replacement from a server response list, never by local inserts or
// removals, so the client view cannot drift from server state.
type Ledger struct {
	groups map[GroupType][]Record
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{groups: make(map[GroupType][]Record)}
}

// Replace swaps one group's records wholesale and sorts them for display by
// sample name, lexicographically ascending.
func (l *Ledger) Replace(group GroupType, records []Record) {
	sorted := append([]Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SampleName < sorted[j].SampleName
	})
	l.groups[group] = sorted
}

// ReplaceAll splits a combined response list by each record's group tag and
// replaces both collections, including a group the list no longer mentions.
func (l *Ledger) ReplaceAll(records []Record) {
	split := map[GroupType][]Record{
		GroupExperimental: nil,
		GroupControl:      nil,
	}
	for _, r := range records {
		group, err := ParseGroupType(string(r.GroupType))
		if err != nil {
			group = GroupExperimental
		}
		split[group] = append(split[group], r)
	}
	for group, list := range split {
		l.Replace(group, list)
	}
}

// Group returns a copy of one group's display-ordered records.
func (l *Ledger) Group(group GroupType) []Record {
	return append([]Record(nil), l.groups[group]...)
}

// Find looks a record up by sample name within its group.
func (l *Ledger) Find(group GroupType, sampleName string) (Record, bool) {
	for _, r := range l.groups[group] {
		if r.SampleName == sampleName {
			return r, true
		}
	}
	return Record{}, false
}

// Len returns the total record count across both groups.
func (l *Ledger) Len() int {
	return len(l.groups[GroupExperimental]) + len(l.groups[GroupControl])
}
