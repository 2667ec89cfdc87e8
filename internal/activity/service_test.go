package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/aggregate"
	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/store/memory"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
)

func newFixture(t *testing.T, accrue bool) (*activity.Service, *memory.DB) {
	t.Helper()
	db := memory.New()
	engine := aggregate.NewEngine(db.Users(), db.Teams(), db.Leaderboard())
	return activity.NewService(db, db.Activities(), db.Users(), engine, accrue), db
}

func seedUser(t *testing.T, db *memory.DB, email string, points int) *user.User {
	t.Helper()
	ctx := context.Background()
	if _, err := db.Teams().Create(ctx, team.CreateTeamInput{Name: "Alpha"}); err != nil && !errors.Is(err, store.ErrConflict) {
		t.Fatalf("creating team: %v", err)
	}
	u, err := db.Users().Create(ctx, user.CreateUserInput{
		Name: "Anna", Email: email, Team: "Alpha", TotalPoints: points,
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return u
}

func userPoints(t *testing.T, db *memory.DB, email string) int {
	t.Helper()
	u, err := db.Users().GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	return u.TotalPoints
}

func TestCreateWithoutAccrual(t *testing.T) {
	svc, db := newFixture(t, false)
	ctx := context.Background()
	seedUser(t, db, "anna@example.com", 100)

	a, err := svc.Create(ctx, activity.CreateActivityInput{
		UserEmail: "anna@example.com", ActivityType: "Running", Duration: 30, Points: 50,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Date.IsZero() {
		t.Fatal("Date should default to now")
	}

	// Pass-through mode: the user's total is untouched.
	if got := userPoints(t, db, "anna@example.com"); got != 100 {
		t.Fatalf("user points = %d, want 100", got)
	}
}

func TestCreateAccruesPoints(t *testing.T) {
	svc, db := newFixture(t, true)
	ctx := context.Background()
	seedUser(t, db, "anna@example.com", 100)

	if _, err := svc.Create(ctx, activity.CreateActivityInput{
		UserEmail: "anna@example.com", ActivityType: "Running", Duration: 30, Points: 50,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := userPoints(t, db, "anna@example.com"); got != 150 {
		t.Fatalf("user points = %d, want 150", got)
	}
	// The team aggregate follows in the same unit.
	tm, err := db.Teams().GetByName(ctx, "Alpha")
	if err != nil {
		t.Fatalf("team lookup: %v", err)
	}
	if tm.TotalPoints != 150 {
		t.Fatalf("team points = %d, want 150", tm.TotalPoints)
	}
}

func TestCreateAccrualUnknownUserRollsBack(t *testing.T) {
	svc, db := newFixture(t, true)
	ctx := context.Background()

	_, err := svc.Create(ctx, activity.CreateActivityInput{
		UserEmail: "ghost@example.com", ActivityType: "Running", Duration: 30, Points: 50,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Create = %v, want ErrNotFound", err)
	}

	activities, err := db.Activities().List(ctx)
	if err != nil {
		t.Fatalf("listing activities: %v", err)
	}
	if len(activities) != 0 {
		t.Fatalf("activity persisted despite rollback: %d rows", len(activities))
	}
}

func TestUpdateShiftsAccruedPoints(t *testing.T) {
	svc, db := newFixture(t, true)
	ctx := context.Background()
	seedUser(t, db, "anna@example.com", 100)

	a, err := svc.Create(ctx, activity.CreateActivityInput{
		UserEmail: "anna@example.com", ActivityType: "Running", Duration: 30, Points: 50,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	points := 80
	if _, err := svc.Update(ctx, a.ID, activity.UpdateActivityInput{Points: &points}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := userPoints(t, db, "anna@example.com"); got != 180 {
		t.Fatalf("user points = %d, want 180", got)
	}
}

func TestUpdateOwnerChangeMovesPoints(t *testing.T) {
	svc, db := newFixture(t, true)
	ctx := context.Background()
	seedUser(t, db, "anna@example.com", 100)
	if _, err := db.Users().Create(ctx, user.CreateUserInput{
		Name: "Ben", Email: "ben@example.com", Team: "Alpha", TotalPoints: 200,
	}); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	a, err := svc.Create(ctx, activity.CreateActivityInput{
		UserEmail: "anna@example.com", ActivityType: "Running", Duration: 30, Points: 50,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ben := "ben@example.com"
	if _, err := svc.Update(ctx, a.ID, activity.UpdateActivityInput{UserEmail: &ben}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := userPoints(t, db, "anna@example.com"); got != 100 {
		t.Fatalf("anna points = %d, want 100", got)
	}
	if got := userPoints(t, db, "ben@example.com"); got != 250 {
		t.Fatalf("ben points = %d, want 250", got)
	}
}

func TestDeleteReclaimsPointsClampedAtZero(t *testing.T) {
	svc, db := newFixture(t, true)
	ctx := context.Background()
	seedUser(t, db, "anna@example.com", 0)

	a, err := svc.Create(ctx, activity.CreateActivityInput{
		UserEmail: "anna@example.com", ActivityType: "Running", Duration: 30, Points: 50,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := userPoints(t, db, "anna@example.com"); got != 50 {
		t.Fatalf("user points = %d, want 50", got)
	}

	// Drop the user's total independently of the activity, then delete:
	// the reclaim would go negative and must clamp at zero.
	u, err := db.Users().GetByEmail(ctx, "anna@example.com")
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	low := 20
	if _, err := db.Users().Update(ctx, u.ID, user.UpdateUserInput{TotalPoints: &low}); err != nil {
		t.Fatalf("lowering points: %v", err)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := userPoints(t, db, "anna@example.com"); got != 0 {
		t.Fatalf("user points = %d, want 0", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   activity.CreateActivityInput
		wantErr error
	}{
		{
			name:    "missing email",
			input:   activity.CreateActivityInput{ActivityType: "Running", Duration: 30},
			wantErr: activity.ErrUserEmailRequired,
		},
		{
			name:    "missing type",
			input:   activity.CreateActivityInput{UserEmail: "a@b.com", Duration: 30},
			wantErr: activity.ErrTypeRequired,
		},
		{
			name:    "zero duration",
			input:   activity.CreateActivityInput{UserEmail: "a@b.com", ActivityType: "Running"},
			wantErr: activity.ErrDurationInvalid,
		},
		{
			name:    "negative points",
			input:   activity.CreateActivityInput{UserEmail: "a@b.com", ActivityType: "Running", Duration: 30, Points: -1},
			wantErr: activity.ErrPointsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
