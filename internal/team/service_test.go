package team_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aperrin/fitledger/internal/aggregate"
	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/store/memory"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
)

func newFixture(t *testing.T) (*team.Service, *memory.DB) {
	t.Helper()
	db := memory.New()
	engine := aggregate.NewEngine(db.Users(), db.Teams(), db.Leaderboard())
	return team.NewService(db, db.Teams(), engine), db
}

func mustUser(t *testing.T, db *memory.DB, name, email, teamName string, points int) {
	t.Helper()
	_, err := db.Users().Create(context.Background(), user.CreateUserInput{
		Name: name, Email: email, Team: teamName, TotalPoints: points,
	})
	if err != nil {
		t.Fatalf("creating user %q: %v", name, err)
	}
}

func TestCreateStartsEmpty(t *testing.T) {
	svc, _ := newFixture(t)

	tm, err := svc.Create(context.Background(), team.CreateTeamInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tm.TotalPoints != 0 || tm.MemberCount != 0 {
		t.Fatalf("new team = (%d, %d), want (0, 0)", tm.TotalPoints, tm.MemberCount)
	}
}

func TestCreatePicksUpExistingMembers(t *testing.T) {
	svc, db := newFixture(t)

	// Users written before their team exists, the seed order. The team
	// must come up with truthful aggregates, not zeros.
	mustUser(t, db, "Anna", "anna@example.com", "Alpha", 100)
	mustUser(t, db, "Ben", "ben@example.com", "Alpha", 200)

	tm, err := svc.Create(context.Background(), team.CreateTeamInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tm.TotalPoints != 300 || tm.MemberCount != 2 {
		t.Fatalf("team = (%d, %d), want (300, 2)", tm.TotalPoints, tm.MemberCount)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, team.CreateTeamInput{Name: "Alpha"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := svc.Create(ctx, team.CreateTeamInput{Name: "Alpha"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate Create = %v, want ErrConflict", err)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), team.CreateTeamInput{Name: "  "})
	if !errors.Is(err, team.ErrNameRequired) {
		t.Fatalf("Create = %v, want ErrNameRequired", err)
	}
}

func TestRenameRecomputesUnderNewName(t *testing.T) {
	svc, db := newFixture(t)
	ctx := context.Background()

	mustUser(t, db, "Anna", "anna@example.com", "Alpha", 100)
	tm, err := svc.Create(ctx, team.CreateTeamInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tm.TotalPoints != 100 {
		t.Fatalf("team total = %d, want 100", tm.TotalPoints)
	}

	// Members link by name, so the renamed team no longer counts Anna.
	newName := "Omega"
	renamed, err := svc.Update(ctx, tm.ID, team.UpdateTeamInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if renamed.Name != "Omega" {
		t.Fatalf("renamed.Name = %q, want Omega", renamed.Name)
	}
	if renamed.TotalPoints != 0 || renamed.MemberCount != 0 {
		t.Fatalf("renamed team = (%d, %d), want (0, 0)", renamed.TotalPoints, renamed.MemberCount)
	}
}

func TestDeleteLeavesMembers(t *testing.T) {
	svc, db := newFixture(t)
	ctx := context.Background()

	mustUser(t, db, "Anna", "anna@example.com", "Alpha", 100)
	tm, err := svc.Create(ctx, team.CreateTeamInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, tm.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, tm.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetByID after delete = %v, want ErrNotFound", err)
	}

	// The member keeps its team name string.
	u, err := db.Users().GetByEmail(ctx, "anna@example.com")
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	if u.Team != "Alpha" {
		t.Fatalf("user.Team = %q, want Alpha", u.Team)
	}
}
