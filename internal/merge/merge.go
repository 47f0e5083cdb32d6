// Package merge collapses split physical class rows into logical groups and
// associates entries with those groups by the shared derived key.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"ringboard-service/internal/domain"
	"ringboard-service/internal/domain/classes"
	"ringboard-service/internal/domain/entries"
)

// MergeClasses partitions class records by group key, sums their counters and
// derives a group-level status. Output order is stable: trial date, trial
// number, run order, then display name.
func MergeClasses(records []classes.ClassRecord) []classes.ClassGroup {
	partitions := make(map[domain.GroupKey][]classes.ClassRecord)
	order := make([]domain.GroupKey, 0)
	for _, r := range records {
		key := domain.NewGroupKey(r.TrialDate, r.TrialNumber, r.Element, r.Level, r.Section)
		if _, seen := partitions[key]; !seen {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], r)
	}

	groups := make([]classes.ClassGroup, 0, len(partitions))
	for _, key := range order {
		groups = append(groups, mergePartition(key, partitions[key]))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.TrialDate != b.TrialDate {
			return a.TrialDate < b.TrialDate
		}
		if a.TrialNumber != b.TrialNumber {
			return a.TrialNumber < b.TrialNumber
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.DisplayName < b.DisplayName
	})
	return groups
}

func mergePartition(key domain.GroupKey, members []classes.ClassRecord) classes.ClassGroup {
	var total, completed, pending int
	for _, m := range members {
		total += m.Total
		completed += m.Completed
		pending += m.Pending
	}
	if completed > total {
		completed = total
	}

	rep := representative(members)
	group := classes.ClassGroup{
		ID:             key.String(),
		DisplayName:    displayName(rep, len(members)),
		Element:        rep.Element,
		Level:          rep.Level,
		JudgeName:      rep.JudgeName,
		Status:         groupStatus(members, total, completed),
		TotalCount:     total,
		CompletedCount: completed,
		PendingCount:   pending,
		TrialDate:      rep.TrialDate,
		TrialNumber:    rep.TrialNumber,
		StartTime:      rep.StartTime,
		Order:          rep.Order,
		MemberCount:    len(members),
	}
	return group
}

// groupStatus derives the merged status by priority: any in-progress member
// makes the group in progress; otherwise the group is completed when every
// member is completed or the counters say so; otherwise scheduled.
func groupStatus(members []classes.ClassRecord, total, completed int) classes.GroupStatus {
	allCompleted := len(members) > 0
	for _, m := range members {
		if m.Status == classes.StatusInProgress {
			return classes.StatusInProgress
		}
		if m.Status != classes.StatusCompleted {
			allCompleted = false
		}
	}
	if allCompleted || (total > 0 && completed == total) {
		return classes.StatusCompleted
	}
	return classes.StatusScheduled
}

// representative picks the member that sources display fields: prefer an
// in-progress member, else a scheduled one, else the first.
func representative(members []classes.ClassRecord) classes.ClassRecord {
	for _, m := range members {
		if m.Status == classes.StatusInProgress {
			return m
		}
	}
	for _, m := range members {
		if m.Status == classes.StatusScheduled {
			return m
		}
	}
	return members[0]
}

func displayName(rep classes.ClassRecord, memberCount int) string {
	name := strings.TrimSpace(fmt.Sprintf("%s %s", rep.Element, rep.Level))
	if memberCount > 1 {
		name += " (Combined)"
	} else if rep.Section != "" {
		name += " " + rep.Section
	}
	return name
}

// IndexEntriesByGroup partitions entries by the same key function used for
// classes and stamps each entry with its key. Within a group, entries sort by
// run order then armband.
func IndexEntriesByGroup(dogs []entries.CompetitorEntry) map[domain.GroupKey][]entries.CompetitorEntry {
	index := make(map[domain.GroupKey][]entries.CompetitorEntry)
	for _, e := range dogs {
		key := domain.NewGroupKey(e.TrialDate, e.TrialNumber, e.Element, e.Level, e.Section)
		e.GroupKey = key
		index[key] = append(index[key], e)
	}
	for key := range index {
		bucket := index[key]
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].RunOrder != bucket[j].RunOrder {
				return bucket[i].RunOrder < bucket[j].RunOrder
			}
			return bucket[i].Armband < bucket[j].Armband
		})
		index[key] = bucket
	}
	return index
}
