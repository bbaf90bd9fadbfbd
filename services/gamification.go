package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
	log "github.com/sirupsen/logrus"
)

// GamificationService is the XP/badge collaborator. It owns user stats,
// level progression, daily streaks, and badge unlock checks.
type GamificationService struct {
	context.DefaultService

	sqlSvc        DatabaseService
	monitoringSvc *MonitoringService
}

const GAMIFICATION_SVC = "gamification_svc"

const (
	xpPerDifficulty = 10
	speedBonusXP    = 5
	speedBonusCutoffMs = 15000

	sessionBonusXP        = 20
	perfectSessionBonusXP = 10
	sessionBonusMinCards  = 5
	sessionBonusAccuracy  = 0.8

	dailyChallengeBonusXP = 30
)

func (svc GamificationService) Id() string {
	return GAMIFICATION_SVC
}

func (svc *GamificationService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *GamificationService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// EvaluateAnswer awards XP for one answer and runs badge checks. Correct
// answers earn by difficulty plus a speed bonus; incorrect answers earn
// nothing but still count toward streak and volume.
func (svc *GamificationService) EvaluateAnswer(userID string, correct bool, timeSpentMs, difficulty int) (*dto.AnswerReward, error) {
	xp := 0
	if correct {
		if difficulty < 1 {
			difficulty = 1
		}
		xp = difficulty * xpPerDifficulty
		if timeSpentMs > 0 && timeSpentMs < speedBonusCutoffMs {
			xp += speedBonusXP
		}
	}

	stats, err := svc.sqlSvc.Gamification().GetOrCreateUserStats(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to load user stats")
	}

	oldLevel := stats.Level
	stats.XP += xp
	stats.Level = calculateLevel(stats.XP)
	svc.updateStreak(stats)

	if err := svc.sqlSvc.Gamification().UpdateUserStats(stats); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to update user stats")
	}

	newBadges := svc.checkBadges(userID, stats, 0)

	return &dto.AnswerReward{
		XPEarned:  xp,
		LevelUp:   stats.Level > oldLevel,
		NewBadges: newBadges,
	}, nil
}

// EvaluateSession awards the end-of-session bonus and accuracy badges.
func (svc *GamificationService) EvaluateSession(userID string, summary dto.SessionSummary) (*dto.SessionReward, error) {
	bonus := 0
	if summary.Answered >= sessionBonusMinCards && summary.Accuracy >= sessionBonusAccuracy {
		bonus = sessionBonusXP
		if summary.CorrectCount == summary.Answered {
			bonus += perfectSessionBonusXP
		}
	}

	stats, err := svc.sqlSvc.Gamification().GetOrCreateUserStats(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to load user stats")
	}

	if bonus > 0 {
		stats.XP += bonus
		stats.Level = calculateLevel(stats.XP)
		if err := svc.sqlSvc.Gamification().UpdateUserStats(stats); err != nil {
			return nil, shared.NewPersistenceError(err, "Failed to update user stats")
		}
	}

	accuracyPercent := int(summary.Accuracy * 100)
	newBadges := svc.checkBadges(userID, stats, accuracyPercent)

	return &dto.SessionReward{
		BonusXP:   bonus,
		NewBadges: newBadges,
	}, nil
}

// AwardXP adds a flat amount outside the per-answer flow, e.g. the daily
// challenge bonus.
func (svc *GamificationService) AwardXP(userID string, xp int) error {
	stats, err := svc.sqlSvc.Gamification().GetOrCreateUserStats(userID)
	if err != nil {
		return shared.NewPersistenceError(err, "Failed to load user stats")
	}

	stats.XP += xp
	stats.Level = calculateLevel(stats.XP)

	if err := svc.sqlSvc.Gamification().UpdateUserStats(stats); err != nil {
		return shared.NewPersistenceError(err, "Failed to update user stats")
	}
	return nil
}

// GetUserBadges returns the user's unlocked badges, newest first.
func (svc *GamificationService) GetUserBadges(userID string) ([]dto.BadgeResponse, error) {
	userBadges, err := svc.sqlSvc.Gamification().GetUserBadges(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to load badges")
	}

	responses := make([]dto.BadgeResponse, 0, len(userBadges))
	for _, ub := range userBadges {
		unlockedAt := ub.UnlockedAt
		responses = append(responses, dto.BadgeResponse{
			ID:          ub.Badge.ID,
			Name:        ub.Badge.Name,
			Description: ub.Badge.Description,
			Category:    ub.Badge.Category,
			XPReward:    ub.Badge.XPReward,
			BadgeURL:    ub.Badge.BadgeURL,
			UnlockedAt:  &unlockedAt,
		})
	}
	return responses, nil
}

func (svc *GamificationService) DailyChallengeBonus() int {
	return dailyChallengeBonusXP
}

func (svc *GamificationService) updateStreak(stats *model.UserStats) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if stats.LastActivityDate == nil {
		stats.Streak = 1
	} else {
		last := stats.LastActivityDate
		lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, last.Location())

		daysDiff := int(today.Sub(lastDay).Hours() / 24)

		switch daysDiff {
		case 0:
			// Same day, no change to streak
		case 1:
			stats.Streak++
		default:
			stats.Streak = 1
		}
	}

	if stats.Streak > stats.LongestStreak {
		stats.LongestStreak = stats.Streak
	}
	stats.LastActivityDate = &now
}

// checkBadges runs every active badge rule against the user's current
// aggregates. Awards are insert-or-ignore, so re-checking is harmless.
func (svc *GamificationService) checkBadges(userID string, stats *model.UserStats, sessionAccuracyPercent int) []dto.BadgeResponse {
	badges, err := svc.sqlSvc.Gamification().GetActiveBadges()
	if err != nil {
		log.WithError(err).Warn("Failed to load badges for unlock check")
		return nil
	}

	var totalAttempts int64 = -1
	var mastered int64 = -1

	var unlocked []dto.BadgeResponse
	for _, badge := range badges {
		earned := false

		switch badge.Category {
		case shared.BadgeCategoryStreak:
			earned = stats.Streak >= badge.Threshold
		case shared.BadgeCategoryVolume:
			if totalAttempts < 0 {
				totalAttempts, _, err = svc.sqlSvc.Attempts().CountAttempts(userID)
				if err != nil {
					log.WithError(err).Warn("Failed to count attempts for badge check")
					continue
				}
			}
			earned = totalAttempts >= int64(badge.Threshold)
		case shared.BadgeCategoryAccuracy:
			earned = sessionAccuracyPercent > 0 && sessionAccuracyPercent >= badge.Threshold
		case shared.BadgeCategoryMilestone:
			if mastered < 0 {
				mastered, err = svc.sqlSvc.Progress().CountMastered(userID)
				if err != nil {
					log.WithError(err).Warn("Failed to count mastered cases for badge check")
					continue
				}
			}
			earned = mastered >= int64(badge.Threshold)
		}

		if !earned {
			continue
		}

		created, err := svc.sqlSvc.Gamification().AwardBadge(userID, badge.ID)
		if err != nil {
			log.WithError(err).WithField("badge_id", badge.ID).Warn("Failed to award badge")
			continue
		}
		if !created {
			continue
		}
		svc.monitoringSvc.RecordBadgeAwarded()

		now := time.Now()
		unlocked = append(unlocked, dto.BadgeResponse{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			Category:    badge.Category,
			XPReward:    badge.XPReward,
			BadgeURL:    badge.BadgeURL,
			UnlockedAt:  &now,
		})

		if badge.XPReward > 0 {
			stats.XP += badge.XPReward
			stats.Level = calculateLevel(stats.XP)
			if err := svc.sqlSvc.Gamification().UpdateUserStats(stats); err != nil {
				log.WithError(err).Warn("Failed to apply badge XP reward")
			}
		}
	}

	return unlocked
}

func calculateLevel(totalXP int) int {
	level := 1
	requiredXP := 100 // Base XP for level 2

	for totalXP >= requiredXP {
		totalXP -= requiredXP
		level++
		requiredXP = int(float64(requiredXP) * 1.5) // Each level requires 1.5x more XP
	}

	return level
}
