package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
)

func newGamificationService(t *testing.T) (*SqliteService, *GamificationService) {
	t.Helper()
	ds := newTestDB(t)
	return ds, &GamificationService{sqlSvc: ds, monitoringSvc: &MonitoringService{}}
}

func seedBadge(t *testing.T, ds *SqliteService, badge model.Badge) model.Badge {
	t.Helper()
	badge.IsActive = true
	created, err := ds.Gamification().CreateBadge(&badge)
	require.NoError(t, err)
	return *created
}

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3}, // 100 + 150
		{474, 3},
		{475, 4}, // 100 + 150 + 225
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, calculateLevel(tt.xp), "xp=%d", tt.xp)
	}
}

func TestEvaluateAnswerXP(t *testing.T) {
	_, svc := newGamificationService(t)

	reward, err := svc.EvaluateAnswer("user-1", true, 5000, 3)
	require.NoError(t, err)
	assert.Equal(t, 35, reward.XPEarned) // 3*10 + speed bonus

	reward, err = svc.EvaluateAnswer("user-1", true, 30000, 2)
	require.NoError(t, err)
	assert.Equal(t, 20, reward.XPEarned) // too slow for the bonus

	reward, err = svc.EvaluateAnswer("user-1", false, 2000, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, reward.XPEarned)
}

func TestEvaluateAnswerClampsDifficulty(t *testing.T) {
	_, svc := newGamificationService(t)

	reward, err := svc.EvaluateAnswer("user-1", true, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, reward.XPEarned)
}

func TestEvaluateAnswerDetectsLevelUp(t *testing.T) {
	ds, svc := newGamificationService(t)

	stats, err := ds.Gamification().GetOrCreateUserStats("user-1")
	require.NoError(t, err)
	stats.XP = 95
	require.NoError(t, ds.Gamification().UpdateUserStats(stats))

	reward, err := svc.EvaluateAnswer("user-1", true, 30000, 1)
	require.NoError(t, err)
	assert.True(t, reward.LevelUp)
}

func TestUpdateStreakTransitions(t *testing.T) {
	svc := &GamificationService{}

	yesterday := time.Now().AddDate(0, 0, -1)
	threeDaysAgo := time.Now().AddDate(0, 0, -3)
	now := time.Now()

	tests := []struct {
		name       string
		last       *time.Time
		streak     int
		wantStreak int
	}{
		{"first activity", nil, 0, 1},
		{"same day keeps streak", &now, 4, 4},
		{"next day increments", &yesterday, 4, 5},
		{"gap resets", &threeDaysAgo, 9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &model.UserStats{Streak: tt.streak, LastActivityDate: tt.last}
			svc.updateStreak(stats)
			assert.Equal(t, tt.wantStreak, stats.Streak)
			assert.NotNil(t, stats.LastActivityDate)
		})
	}
}

func TestUpdateStreakTracksLongest(t *testing.T) {
	svc := &GamificationService{}
	yesterday := time.Now().AddDate(0, 0, -1)

	stats := &model.UserStats{Streak: 6, LongestStreak: 6, LastActivityDate: &yesterday}
	svc.updateStreak(stats)
	assert.Equal(t, 7, stats.Streak)
	assert.Equal(t, 7, stats.LongestStreak)
}

func TestEvaluateSessionBonus(t *testing.T) {
	_, svc := newGamificationService(t)

	// Perfect session over the minimum size earns both bonuses.
	reward, err := svc.EvaluateSession("user-1", dto.SessionSummary{
		Answered: 5, CorrectCount: 5, Accuracy: 1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, reward.BonusXP)

	// High accuracy without perfection earns the base bonus only.
	reward, err = svc.EvaluateSession("user-1", dto.SessionSummary{
		Answered: 10, CorrectCount: 8, Accuracy: 0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, reward.BonusXP)

	// Too few cards earns nothing regardless of accuracy.
	reward, err = svc.EvaluateSession("user-1", dto.SessionSummary{
		Answered: 3, CorrectCount: 3, Accuracy: 1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, reward.BonusXP)
}

func TestStreakBadgeUnlocksOnce(t *testing.T) {
	ds, svc := newGamificationService(t)
	seedBadge(t, ds, model.Badge{
		ID:        "streak-1",
		Name:      "First Day",
		Category:  shared.BadgeCategoryStreak,
		Threshold: 1,
		XPReward:  15,
	})

	reward, err := svc.EvaluateAnswer("user-1", true, 0, 1)
	require.NoError(t, err)
	require.Len(t, reward.NewBadges, 1)
	assert.Equal(t, "First Day", reward.NewBadges[0].Name)

	// The award is insert-or-ignore; a second check stays silent.
	reward, err = svc.EvaluateAnswer("user-1", true, 0, 1)
	require.NoError(t, err)
	assert.Empty(t, reward.NewBadges)

	stats, err := ds.Gamification().GetOrCreateUserStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 35, stats.XP) // 10 + 15 badge reward + 10, no double award
}

func TestAccuracyBadgeNeedsSessionContext(t *testing.T) {
	ds, svc := newGamificationService(t)
	seedBadge(t, ds, model.Badge{
		ID:        "accuracy-80",
		Name:      "Sharp Eye",
		Category:  shared.BadgeCategoryAccuracy,
		Threshold: 80,
	})

	// Per-answer checks carry no session accuracy, so nothing unlocks.
	reward, err := svc.EvaluateAnswer("user-1", true, 0, 1)
	require.NoError(t, err)
	assert.Empty(t, reward.NewBadges)

	sessionReward, err := svc.EvaluateSession("user-1", dto.SessionSummary{
		Answered: 5, CorrectCount: 4, Accuracy: 0.8,
	})
	require.NoError(t, err)
	require.Len(t, sessionReward.NewBadges, 1)
	assert.Equal(t, "Sharp Eye", sessionReward.NewBadges[0].Name)
}

func TestAwardXPAccumulates(t *testing.T) {
	ds, svc := newGamificationService(t)

	require.NoError(t, svc.AwardXP("user-1", 30))
	require.NoError(t, svc.AwardXP("user-1", 80))

	stats, err := ds.Gamification().GetOrCreateUserStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 110, stats.XP)
	assert.Equal(t, 2, stats.Level)
}
