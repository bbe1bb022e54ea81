package domain

import (
	"sort"
	"time"
)

// Dimension identifies the resource axis on which two entries collide.
type Dimension string

const (
	// DimensionRoom marks a shared room booking.
	DimensionRoom Dimension = "room"
	// DimensionAssistant marks a shared assistant assignment.
	DimensionAssistant Dimension = "assistant"
	// DimensionGroup marks two exams for the same group in the same slot.
	DimensionGroup Dimension = "group"
)

// Conflict reports one offending dimension against one committed entry. The
// full list is returned to the reviewer so each dimension can be resolved by
// swapping just the offending resource.
type Conflict struct {
	// ScheduleID is the committed entry the candidate collides with.
	ScheduleID string
	Dimension  Dimension
	// ResourceID is the shared room, assistant, or group id.
	ResourceID string
}

// Candidate is a prospective resource assignment to test against committed
// entries.
type Candidate struct {
	// ScheduleID is excluded from comparison so the entry under review can be
	// re-approved without colliding with itself.
	ScheduleID   string
	GroupID      string
	RoomIDs      []string
	AssistantIDs []string
	StartTime    time.Time
	EndTime      time.Time
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DetectConflicts scans entries and reports every colliding dimension between
// the candidate and entries holding committed resources. Entries that are not
// APPROVED or CONFIRMED never constrain. The result is sorted so the same
// candidate against the same entry set yields the same list regardless of
// scan order.
func DetectConflicts(candidate Candidate, entries []ExamSchedule) []Conflict {
	candidateRooms := dedupeIDs(candidate.RoomIDs)
	candidateAssistants := dedupeIDs(candidate.AssistantIDs)

	conflicts := []Conflict{}
	for _, entry := range entries {
		if entry.ID == candidate.ScheduleID {
			continue
		}
		if !entry.Status.IsCommitted() {
			continue
		}
		if entry.StartTime == nil || entry.EndTime == nil {
			continue
		}
		if !Overlaps(candidate.StartTime, candidate.EndTime, *entry.StartTime, *entry.EndTime) {
			continue
		}

		entryRooms := entry.RoomIDs()
		for _, roomID := range candidateRooms {
			if containsID(entryRooms, roomID) {
				conflicts = append(conflicts, Conflict{ScheduleID: entry.ID, Dimension: DimensionRoom, ResourceID: roomID})
			}
		}
		for _, assistantID := range candidateAssistants {
			if containsID(entry.AssistantIDs, assistantID) {
				conflicts = append(conflicts, Conflict{ScheduleID: entry.ID, Dimension: DimensionAssistant, ResourceID: assistantID})
			}
		}
		if candidate.GroupID != "" && candidate.GroupID == entry.GroupID {
			conflicts = append(conflicts, Conflict{ScheduleID: entry.ID, Dimension: DimensionGroup, ResourceID: candidate.GroupID})
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if a.ScheduleID != b.ScheduleID {
			return a.ScheduleID < b.ScheduleID
		}
		if a.Dimension != b.Dimension {
			return a.Dimension < b.Dimension
		}
		return a.ResourceID < b.ResourceID
	})
	return conflicts
}

func dedupeIDs(ids []string) []string {
	deduped := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !containsID(deduped, id) {
			deduped = append(deduped, id)
		}
	}
	return deduped
}
