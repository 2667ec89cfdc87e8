package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/config"
	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
	"github.com/aperrin/fitledger/internal/workout"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo teams, heroes, activities, and workouts",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedTeams = []team.CreateTeamInput{
	{Name: "Team Marvel"},
	{Name: "Team DC"},
}

var seedUsers = []user.CreateUserInput{
	{Name: "Spider-Man", Email: "spiderman@marvel.com", Team: "Team Marvel", TotalPoints: 450},
	{Name: "Iron Man", Email: "ironman@marvel.com", Team: "Team Marvel", TotalPoints: 520},
	{Name: "Captain America", Email: "captainamerica@marvel.com", Team: "Team Marvel", TotalPoints: 480},
	{Name: "Black Widow", Email: "blackwidow@marvel.com", Team: "Team Marvel", TotalPoints: 410},
	{Name: "Thor", Email: "thor@marvel.com", Team: "Team Marvel", TotalPoints: 490},
	{Name: "Hulk", Email: "hulk@marvel.com", Team: "Team Marvel", TotalPoints: 470},
	{Name: "Superman", Email: "superman@dc.com", Team: "Team DC", TotalPoints: 500},
	{Name: "Batman", Email: "batman@dc.com", Team: "Team DC", TotalPoints: 510},
	{Name: "Wonder Woman", Email: "wonderwoman@dc.com", Team: "Team DC", TotalPoints: 485},
	{Name: "The Flash", Email: "flash@dc.com", Team: "Team DC", TotalPoints: 530},
	{Name: "Aquaman", Email: "aquaman@dc.com", Team: "Team DC", TotalPoints: 420},
	{Name: "Green Lantern", Email: "greenlantern@dc.com", Team: "Team DC", TotalPoints: 460},
}

var seedActivityTypes = []string{"Running", "Cycling", "Swimming", "Weightlifting", "Yoga", "Boxing"}

var seedWorkouts = []workout.CreateWorkoutInput{
	{Name: "Super Soldier Training", Description: "Intense military-style workout combining strength and endurance", Difficulty: "hard", Duration: 60, Category: "Strength", PointsValue: 100},
	{Name: "Web-Slinger Cardio", Description: "High-intensity cardio session inspired by aerial acrobatics", Difficulty: "medium", Duration: 45, Category: "Cardio", PointsValue: 75},
	{Name: "Amazonian Warrior Workout", Description: "Combat-focused training with strength and agility exercises", Difficulty: "hard", Duration: 55, Category: "Strength", PointsValue: 95},
	{Name: "Speed Force Sprint", Description: "Ultra-fast running intervals to build explosive speed", Difficulty: "medium", Duration: 30, Category: "Cardio", PointsValue: 60},
	{Name: "Zen Master Yoga", Description: "Peaceful yoga session for flexibility and mental clarity", Difficulty: "easy", Duration: 40, Category: "Flexibility", PointsValue: 50},
	{Name: "Gamma Strength Training", Description: "Extreme powerlifting workout for maximum muscle gain", Difficulty: "hard", Duration: 50, Category: "Strength", PointsValue: 90},
	{Name: "Atlantean Swimming", Description: "Aquatic workout building endurance and full-body strength", Difficulty: "medium", Duration: 45, Category: "Cardio", PointsValue: 70},
	{Name: "Dark Knight Combat", Description: "Mixed martial arts training with tactical elements", Difficulty: "hard", Duration: 60, Category: "Combat", PointsValue: 100},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	// Seeded user totals already include their activity points, so the
	// accrual hook must stay off while the demo data is written.
	seedCfg := *cfg
	seedCfg.Aggregation.AccrueActivityPoints = false
	svcs := newServices(b, &seedCfg, nil)

	// Check if seed has already run.
	if _, err := svcs.teams.GetByName(ctx, seedTeams[0].Name); err == nil {
		slog.Info("demo data already exists, skipping seed")
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("checking existing teams: %w", err)
	}

	for _, input := range seedTeams {
		t, err := svcs.teams.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("creating team %q: %w", input.Name, err)
		}
		slog.Info("created team", "name", t.Name, "id", t.ID)
	}

	// Team aggregates and leaderboard ranks follow from the user writes;
	// nothing sets them by hand.
	for _, input := range seedUsers {
		u, err := svcs.users.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("creating user %q: %w", input.Name, err)
		}
		slog.Info("created user", "name", u.Name, "team", u.Team)
	}

	now := time.Now()
	activityCount := 0
	for i, u := range seedUsers {
		for j := 0; j < 3; j++ {
			kind := seedActivityTypes[(i+j)%len(seedActivityTypes)]
			_, err := svcs.activities.Create(ctx, activity.CreateActivityInput{
				UserEmail:    u.Email,
				ActivityType: kind,
				Duration:     30 + j*15,
				Points:       50 + j*25,
				Date:         now.AddDate(0, 0, -j),
				Notes:        fmt.Sprintf("%s's %s session", u.Name, strings.ToLower(kind)),
			})
			if err != nil {
				return fmt.Errorf("creating activity for %q: %w", u.Email, err)
			}
			activityCount++
		}
	}

	for _, input := range seedWorkouts {
		if _, err := svcs.workouts.Create(ctx, input); err != nil {
			return fmt.Errorf("creating workout %q: %w", input.Name, err)
		}
	}

	board, err := svcs.board.List(ctx)
	if err != nil {
		return fmt.Errorf("listing leaderboard: %w", err)
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Teams:       %d\n", len(seedTeams))
	fmt.Printf("Users:       %d\n", len(seedUsers))
	fmt.Printf("Activities:  %d\n", activityCount)
	fmt.Printf("Workouts:    %d\n", len(seedWorkouts))
	fmt.Printf("Leaderboard: %d entries\n", len(board))
	if len(board) > 0 {
		fmt.Printf("\nTop of the board: %s (%s) with %d points\n", board[0].UserName, board[0].Team, board[0].TotalPoints)
	}
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl http://localhost:%d/api/v1/leaderboard\n", cfg.Server.Port)
	fmt.Printf("  curl http://localhost:%d/api/v1/teams\n", cfg.Server.Port)

	return nil
}
