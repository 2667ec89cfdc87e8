package leaderboard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aperrin/fitledger/internal/aggregate"
	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/aperrin/fitledger/internal/store/memory"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
)

// newFixture wires the leaderboard and user services to an in-memory store
// and a real aggregation engine, the same shape the server runs with.
func newFixture(t *testing.T) (*leaderboard.Service, *user.Service, *memory.DB) {
	t.Helper()
	db := memory.New()
	engine := aggregate.NewEngine(db.Users(), db.Teams(), db.Leaderboard())
	board := leaderboard.NewService(db, db.Leaderboard(), engine)
	users := user.NewService(db, db.Users(), engine)
	return board, users, db
}

func mustTeam(t *testing.T, db *memory.DB, name string) {
	t.Helper()
	if _, err := db.Teams().Create(context.Background(), team.CreateTeamInput{Name: name}); err != nil {
		t.Fatalf("creating team %q: %v", name, err)
	}
}

func TestRebuildRepairsMissingEntries(t *testing.T) {
	board, _, db := newFixture(t)
	ctx := context.Background()

	// Users written through the store directly have no leaderboard rows;
	// an operator rebuild must materialize them in rank order.
	for _, u := range []user.CreateUserInput{
		{Name: "Anna", Email: "anna@example.com", TotalPoints: 100},
		{Name: "Ben", Email: "ben@example.com", TotalPoints: 300},
	} {
		if _, err := db.Users().Create(ctx, u); err != nil {
			t.Fatalf("creating user %q: %v", u.Name, err)
		}
	}

	if err := board.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	entries, err := board.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].UserEmail != "ben@example.com" || entries[0].Rank != 1 {
		t.Fatalf("rank 1 = %s (%d), want ben@example.com (1)", entries[0].UserEmail, entries[0].Rank)
	}
	if entries[1].UserEmail != "anna@example.com" || entries[1].Rank != 2 {
		t.Fatalf("rank 2 = %s (%d), want anna@example.com (2)", entries[1].UserEmail, entries[1].Rank)
	}
}

func TestRebuildDoesNotBlockUserMutations(t *testing.T) {
	board, users, db := newFixture(t)
	ctx := context.Background()
	mustTeam(t, db, "Alpha")

	u, err := users.Create(ctx, user.CreateUserInput{
		Name: "Anna", Email: "anna@example.com", Team: "Alpha", TotalPoints: 100,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Concurrent updates and operator rebuilds must share one lock order;
	// either side hanging on the other shows up as the timeout below.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				points := 100 + i
				if _, err := users.Update(ctx, u.ID, user.UpdateUserInput{TotalPoints: &points}); err != nil {
					t.Errorf("Update: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if err := board.Rebuild(ctx); err != nil {
					t.Errorf("Rebuild: %v", err)
					return
				}
			}
		}()
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("user update and leaderboard rebuild blocked each other")
	}

	entry, err := board.GetByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if entry.Rank != 1 {
		t.Fatalf("rank = %d, want 1", entry.Rank)
	}
}
