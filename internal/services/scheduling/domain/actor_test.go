package domain

import "testing"

func TestActorCapabilities(t *testing.T) {
	tests := []struct {
		name          string
		actor         Actor
		proposeGroup  string
		canPropose    bool
		reviewSubject string
		canReview     bool
		canPeriods    bool
	}{
		{
			name:          "representative for own group",
			actor:         Actor{ID: "rep-1", Role: RoleRepresentative, GroupIDs: []string{"914"}},
			proposeGroup:  "914",
			canPropose:    true,
			reviewSubject: "101",
			canReview:     false,
		},
		{
			name:         "representative for other group",
			actor:        Actor{ID: "rep-1", Role: RoleRepresentative, GroupIDs: []string{"914"}},
			proposeGroup: "915",
			canPropose:   false,
		},
		{
			name:          "reviewer for own subject",
			actor:         Actor{ID: "prof-1", Role: RoleReviewer, SubjectIDs: []string{"101"}},
			proposeGroup:  "914",
			canPropose:    false,
			reviewSubject: "101",
			canReview:     true,
		},
		{
			name:          "reviewer for other subject",
			actor:         Actor{ID: "prof-1", Role: RoleReviewer, SubjectIDs: []string{"101"}},
			reviewSubject: "202",
			canReview:     false,
		},
		{
			name:          "secretariat overrides everything",
			actor:         Actor{ID: "sec-1", Role: RoleSecretariat},
			proposeGroup:  "914",
			canPropose:    true,
			reviewSubject: "101",
			canReview:     true,
			canPeriods:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.proposeGroup != "" {
				if got := tt.actor.CanProposeFor(tt.proposeGroup); got != tt.canPropose {
					t.Fatalf("CanProposeFor(%q) = %v, want %v", tt.proposeGroup, got, tt.canPropose)
				}
			}
			if tt.reviewSubject != "" {
				if got := tt.actor.CanReview(tt.reviewSubject); got != tt.canReview {
					t.Fatalf("CanReview(%q) = %v, want %v", tt.reviewSubject, got, tt.canReview)
				}
			}
			if got := tt.actor.CanManagePeriods(); got != tt.canPeriods {
				t.Fatalf("CanManagePeriods() = %v, want %v", got, tt.canPeriods)
			}
		})
	}
}

func TestCatalogMembership(t *testing.T) {
	assistant := Assistant{ID: "a-1", SubjectIDs: []string{"101", "102"}}
	if !assistant.EligibleFor("101") {
		t.Fatal("expected assistant eligible for 101")
	}
	if assistant.EligibleFor("999") {
		t.Fatal("expected assistant not eligible for 999")
	}

	group := Group{ID: "914", Size: 28, SubjectIDs: []string{"101"}}
	if !group.EnrolledIn("101") {
		t.Fatal("expected group enrolled in 101")
	}
	if group.EnrolledIn("202") {
		t.Fatal("expected group not enrolled in 202")
	}
}
