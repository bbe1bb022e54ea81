package domain

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func fixedID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func summerPeriod() ExamPeriod {
	return ExamPeriod{
		ID:        "P1",
		Name:      "Summer Session",
		StartDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

func representative(groupIDs ...string) Actor {
	return Actor{ID: "rep-1", Role: RoleRepresentative, GroupIDs: groupIDs}
}

func reviewer(subjectIDs ...string) Actor {
	return Actor{ID: "prof-1", Role: RoleReviewer, SubjectIDs: subjectIDs}
}

func proposedSchedule(t *testing.T) ExamSchedule {
	t.Helper()
	sched, err := Propose(representative("914"), ProposeInput{
		SubjectID:    "101",
		GroupID:      "914",
		PeriodID:     "P1",
		ProposedDate: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}, summerPeriod(), fixedClock(time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)), fixedID("sched-1"))
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	return sched
}

func TestProposeCreatesProposedEntry(t *testing.T) {
	sched := proposedSchedule(t)

	if sched.ID != "sched-1" {
		t.Fatalf("expected generated id, got %q", sched.ID)
	}
	if sched.Status != StatusProposed {
		t.Fatalf("expected status PROPOSED, got %s", sched.Status)
	}
	if sched.ProposerID != "rep-1" {
		t.Fatalf("expected proposer rep-1, got %q", sched.ProposerID)
	}
	if sched.ReviewerID != "" {
		t.Fatalf("expected empty reviewer, got %q", sched.ReviewerID)
	}
	if sched.Version != 1 {
		t.Fatalf("expected version 1, got %d", sched.Version)
	}
	if sched.StartTime != nil || sched.EndTime != nil {
		t.Fatal("expected no interval before approval")
	}
	want := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !sched.ProposedDate.Equal(want) {
		t.Fatalf("expected proposed date %v, got %v", want, sched.ProposedDate)
	}
}

func TestProposeValidation(t *testing.T) {
	period := summerPeriod()
	base := ProposeInput{
		SubjectID:    "101",
		GroupID:      "914",
		PeriodID:     "P1",
		ProposedDate: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name  string
		actor Actor
		input func(ProposeInput) ProposeInput
		err   error
	}{
		{
			name:  "missing subject",
			actor: representative("914"),
			input: func(in ProposeInput) ProposeInput { in.SubjectID = " "; return in },
			err:   ErrSubjectIDRequired,
		},
		{
			name:  "missing group",
			actor: representative("914"),
			input: func(in ProposeInput) ProposeInput { in.GroupID = ""; return in },
			err:   ErrGroupIDRequired,
		},
		{
			name:  "missing period",
			actor: representative("914"),
			input: func(in ProposeInput) ProposeInput { in.PeriodID = ""; return in },
			err:   ErrPeriodIDRequired,
		},
		{
			name:  "missing date",
			actor: representative("914"),
			input: func(in ProposeInput) ProposeInput { in.ProposedDate = time.Time{}; return in },
			err:   ErrProposedDateRequired,
		},
		{
			name:  "date outside period",
			actor: representative("914"),
			input: func(in ProposeInput) ProposeInput {
				in.ProposedDate = time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)
				return in
			},
			err: ErrDateOutsidePeriod,
		},
		{
			name:  "representative for another group",
			actor: representative("915"),
			input: func(in ProposeInput) ProposeInput { return in },
			err:   ErrNotAuthorized,
		},
		{
			name:  "reviewer cannot propose",
			actor: reviewer("101"),
			input: func(in ProposeInput) ProposeInput { return in },
			err:   ErrNotAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Propose(tt.actor, tt.input(base), period, nil, fixedID("x"))
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestSecretariatMayProposeForAnyGroup(t *testing.T) {
	secretariat := Actor{ID: "sec-1", Role: RoleSecretariat}
	sched, err := Propose(secretariat, ProposeInput{
		SubjectID:    "101",
		GroupID:      "914",
		PeriodID:     "P1",
		ProposedDate: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
	}, summerPeriod(), nil, fixedID("sched-2"))
	if err != nil {
		t.Fatalf("propose as secretariat: %v", err)
	}
	if sched.ProposerID != "sec-1" {
		t.Fatalf("expected proposer sec-1, got %q", sched.ProposerID)
	}
}

func TestAcknowledgeMovesToPending(t *testing.T) {
	sched := proposedSchedule(t)
	ackAt := time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC)

	if err := sched.Acknowledge(reviewer("101"), fixedClock(ackAt)); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if sched.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", sched.Status)
	}
	if sched.ReviewerID != "prof-1" {
		t.Fatalf("expected reviewer prof-1, got %q", sched.ReviewerID)
	}
	if sched.Version != 2 {
		t.Fatalf("expected version 2 after mutation, got %d", sched.Version)
	}
	if !sched.UpdatedAt.Equal(ackAt) {
		t.Fatalf("expected updated at %v, got %v", ackAt, sched.UpdatedAt)
	}

	// A second acknowledgment is not a legal transition from PENDING.
	if err := sched.Acknowledge(reviewer("101"), nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestAcknowledgeRequiresReviewerForSubject(t *testing.T) {
	sched := proposedSchedule(t)
	if err := sched.Acknowledge(reviewer("999"), nil); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if sched.Status != StatusProposed {
		t.Fatalf("expected status unchanged, got %s", sched.Status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	sched := proposedSchedule(t)

	if err := sched.Reject(reviewer("101"), "   ", nil); !errors.Is(err, ErrRejectionReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}
	if sched.Status != StatusProposed {
		t.Fatalf("expected status unchanged at PROPOSED, got %s", sched.Status)
	}
	if sched.Version != 1 {
		t.Fatalf("expected version unchanged, got %d", sched.Version)
	}
}

func TestRejectFromProposedAndPending(t *testing.T) {
	for _, ack := range []bool{false, true} {
		sched := proposedSchedule(t)
		if ack {
			if err := sched.Acknowledge(reviewer("101"), nil); err != nil {
				t.Fatalf("acknowledge: %v", err)
			}
		}
		if err := sched.Reject(reviewer("101"), "room shortage that week", nil); err != nil {
			t.Fatalf("reject (ack=%v): %v", ack, err)
		}
		if sched.Status != StatusRejected {
			t.Fatalf("expected REJECTED, got %s", sched.Status)
		}
		if sched.RejectionReason != "room shortage that week" {
			t.Fatalf("unexpected reason %q", sched.RejectionReason)
		}
	}
}

func TestConfirmCommitsResources(t *testing.T) {
	sched := proposedSchedule(t)
	if err := sched.Acknowledge(reviewer("101"), nil); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	approval := Approval{
		PrimaryRoomID:     "C1",
		AdditionalRoomIDs: []string{"C2", "C1", " "},
		AssistantIDs:      []string{"a-2", "a-1", "a-2"},
		StartTime:         time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
		EndTime:           time.Date(2025, time.June, 15, 11, 0, 0, 0, time.UTC),
	}
	if err := sched.Confirm(reviewer("101"), approval, summerPeriod(), nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if sched.Status != StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", sched.Status)
	}
	if sched.PrimaryRoomID != "C1" {
		t.Fatalf("expected primary room C1, got %q", sched.PrimaryRoomID)
	}
	if len(sched.AdditionalRoomIDs) != 1 || sched.AdditionalRoomIDs[0] != "C2" {
		t.Fatalf("expected deduped additional rooms [C2], got %v", sched.AdditionalRoomIDs)
	}
	if len(sched.AssistantIDs) != 2 || sched.AssistantIDs[0] != "a-1" || sched.AssistantIDs[1] != "a-2" {
		t.Fatalf("expected sorted assistants [a-1 a-2], got %v", sched.AssistantIDs)
	}
	if sched.StartTime == nil || sched.EndTime == nil {
		t.Fatal("expected committed interval")
	}
	if !sched.StartTime.Before(*sched.EndTime) {
		t.Fatal("expected start before end")
	}
	if sched.Version != 3 {
		t.Fatalf("expected version 3 after two mutations, got %d", sched.Version)
	}
}

func TestConfirmValidation(t *testing.T) {
	base := Approval{
		PrimaryRoomID: "C1",
		StartTime:     time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, time.June, 15, 11, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		approval func(Approval) Approval
		err      error
	}{
		{
			name:     "missing primary room",
			approval: func(a Approval) Approval { a.PrimaryRoomID = " "; return a },
			err:      ErrPrimaryRoomRequired,
		},
		{
			name: "inverted interval",
			approval: func(a Approval) Approval {
				a.StartTime, a.EndTime = a.EndTime, a.StartTime
				return a
			},
			err: ErrIntervalInvalid,
		},
		{
			name: "empty interval",
			approval: func(a Approval) Approval {
				a.EndTime = a.StartTime
				return a
			},
			err: ErrIntervalInvalid,
		},
		{
			name: "interval outside period",
			approval: func(a Approval) Approval {
				a.StartTime = time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
				a.EndTime = time.Date(2025, time.July, 1, 11, 0, 0, 0, time.UTC)
				return a
			},
			err: ErrIntervalOutsidePeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := proposedSchedule(t)
			err := sched.Confirm(reviewer("101"), tt.approval(base), summerPeriod(), nil)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if sched.Status != StatusProposed {
				t.Fatalf("expected status unchanged, got %s", sched.Status)
			}
		})
	}
}

func TestTerminalStatesRefuseAllActions(t *testing.T) {
	confirmed := proposedSchedule(t)
	approval := Approval{
		PrimaryRoomID: "C1",
		StartTime:     time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, time.June, 15, 11, 0, 0, 0, time.UTC),
	}
	if err := confirmed.Confirm(reviewer("101"), approval, summerPeriod(), nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	rejected := proposedSchedule(t)
	if err := rejected.Reject(reviewer("101"), "duplicate request", nil); err != nil {
		t.Fatalf("reject: %v", err)
	}

	for _, sched := range []*ExamSchedule{&confirmed, &rejected} {
		if err := sched.Acknowledge(reviewer("101"), nil); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("acknowledge from %s: expected invalid transition, got %v", sched.Status, err)
		}
		if err := sched.Reject(reviewer("101"), "again", nil); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("reject from %s: expected invalid transition, got %v", sched.Status, err)
		}
		if err := sched.Confirm(reviewer("101"), approval, summerPeriod(), nil); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("confirm from %s: expected invalid transition, got %v", sched.Status, err)
		}
	}
}

func TestConfirmedImpliesIntervalAndRoom(t *testing.T) {
	sched := proposedSchedule(t)
	approval := Approval{
		PrimaryRoomID: "C1",
		StartTime:     time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, time.June, 15, 11, 0, 0, 0, time.UTC),
	}
	if err := sched.Confirm(reviewer("101"), approval, summerPeriod(), nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sched.Status == StatusConfirmed {
		if sched.StartTime == nil || sched.EndTime == nil || !sched.StartTime.Before(*sched.EndTime) {
			t.Fatal("confirmed entry must carry a non-empty interval")
		}
		if sched.PrimaryRoomID == "" {
			t.Fatal("confirmed entry must carry a primary room")
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	if !StatusRejected.IsTerminal() || !StatusConfirmed.IsTerminal() {
		t.Fatal("REJECTED and CONFIRMED are terminal")
	}
	if StatusProposed.IsTerminal() || StatusPending.IsTerminal() {
		t.Fatal("PROPOSED and PENDING are not terminal")
	}
	if !StatusApproved.IsCommitted() || !StatusConfirmed.IsCommitted() {
		t.Fatal("APPROVED and CONFIRMED carry committed resources")
	}
	if StatusProposed.IsCommitted() || StatusPending.IsCommitted() || StatusRejected.IsCommitted() {
		t.Fatal("PROPOSED, PENDING, and REJECTED never constrain")
	}
	if Status("bogus").IsValid() {
		t.Fatal("unknown status must not validate")
	}
}
