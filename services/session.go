package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/services/repositories"
	"github.com/radmastery/radprep_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SessionService orchestrates quiz sessions end to end: card sourcing per
// mode, answer grading, reward hand-off, and completion bookkeeping. The
// session row is the unit of truth; each submitted answer advances it
// atomically through a single update.
type SessionService struct {
	appContext.DefaultService

	sqlSvc          DatabaseService
	redisSvc        *RedisService
	catalogSvc      *CatalogService
	mcqSvc          *McqService
	schedulerSvc    *SchedulerService
	retentionSvc    *RetentionService
	gamificationSvc *GamificationService
	studyPlanSvc    *StudyPlanService
	deviceSyncSvc   *DeviceSyncService
	monitoringSvc   *MonitoringService
}

const SESSION_SVC = "session_svc"

const (
	defaultSessionSize = 10
	dailySessionSize   = 5

	dailyCardsCacheKey = "daily_cards:%s"   // date
	dailyCompletedKey  = "daily_done:%s:%s" // date, userID
	dailyCacheTTL      = 26 * time.Hour
)

func (svc SessionService) Id() string {
	return SESSION_SVC
}

func (svc *SessionService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *SessionService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.mcqSvc = svc.Service(MCQ_SVC).(*McqService)
	svc.schedulerSvc = svc.Service(SCHEDULER_SVC).(*SchedulerService)
	svc.retentionSvc = svc.Service(RETENTION_SVC).(*RetentionService)
	svc.gamificationSvc = svc.Service(GAMIFICATION_SVC).(*GamificationService)
	svc.studyPlanSvc = svc.Service(STUDY_PLAN_SVC).(*StudyPlanService)
	svc.deviceSyncSvc = svc.Service(DEVICE_SYNC_SVC).(*DeviceSyncService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// StartSession sources cards for the requested mode, freezes them into a
// new session row, and returns the client-facing card list with answers
// withheld. userID is empty for guests, who may only start quick and daily
// sessions.
func (svc *SessionService) StartSession(userID string, req dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	if userID == "" && req.Mode != shared.ModeQuick && req.Mode != shared.ModeDaily {
		return nil, shared.NewUnauthorizedError(
			fmt.Errorf("guest requested %s mode", req.Mode),
			"Sign in to use this session mode")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSessionSize
	}

	var (
		cases          []model.Case
		planID         *string
		milestoneIndex *int
		err            error
	)

	switch req.Mode {
	case shared.ModeQuick:
		cases, err = svc.catalogSvc.RandomCases(repositories.CaseFilter{
			Specialty:  req.Specialty,
			Modality:   req.Modality,
			BodyPart:   req.BodyPart,
			Difficulty: req.Difficulty,
		}, limit)

	case shared.ModeDaily:
		cases, err = svc.dailyChallengeCases()

	case shared.ModeReview:
		var due, fresh []model.Case
		due, fresh, err = svc.schedulerSvc.GetDueAndNew(userID, limit)
		if err == nil {
			cases = append(due, fresh...)
		}

	case shared.ModePlan:
		if req.PlanID == "" {
			return nil, shared.NewValidationError(errors.New("missing plan_id"), "Plan sessions require a plan_id")
		}
		var plan *model.StudyPlan
		plan, cases, err = svc.studyPlanSvc.NextMilestoneCases(userID, req.PlanID)
		if err == nil {
			planID = &plan.ID
			idx := plan.MilestoneIndex
			milestoneIndex = &idx
		}

	case shared.ModeWeakness:
		cases, err = svc.schedulerSvc.GetWeakest(userID, limit)

	default:
		return nil, shared.NewValidationError(fmt.Errorf("mode %q", req.Mode), "Unknown session mode")
	}
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, shared.NewNotFoundError(
			fmt.Errorf("no cases available for %s session", req.Mode),
			"No cases available for this session")
	}

	cards := make([]model.CardRef, 0, len(cases))
	for _, c := range cases {
		card, err := svc.mcqSvc.BuildCard(c)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	rawCards, err := sonic.Marshal(cards)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode session cards")
	}

	session := &model.QuizSession{
		UserID:         userID,
		Mode:           req.Mode,
		State:          shared.SessionStateActive,
		StartedAt:      time.Now(),
		Cards:          rawCards,
		Answers:        []byte("[]"),
		PlanID:         planID,
		MilestoneIndex: milestoneIndex,
	}
	if _, err := svc.sqlSvc.Sessions().CreateQuizSession(session); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to create session")
	}
	svc.monitoringSvc.RecordSessionStarted(session.Mode)

	resp := &dto.StartSessionResponse{
		SessionID: session.ID,
		Mode:      session.Mode,
		Cards:     make([]dto.SessionCard, 0, len(cards)),
	}
	for _, card := range cards {
		resp.Cards = append(resp.Cards, dto.SessionCard{
			CaseID:     card.CaseID,
			Title:      card.Title,
			ImageURL:   card.ImageURL,
			Question:   card.Question,
			Options:    card.Options,
			Difficulty: card.Difficulty,
			Specialty:  card.Specialty,
		})
	}
	return resp, nil
}

// SubmitAnswer grades the current card and advances the session. The order
// of effects is fixed: review schedule first, then the attempt log, then
// the session row. The attempt log is append-only and authoritative; a
// failure after the schedule update loses at most reward state, never the
// answer itself.
func (svc *SessionService) SubmitAnswer(userID, sessionID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	session, err := svc.loadOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != shared.SessionStateActive {
		return nil, shared.NewConflictError(
			fmt.Errorf("session %s is %s", sessionID, session.State),
			"Session is no longer active")
	}

	cards, err := session.CardRefs()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode session cards")
	}
	if session.CurrentIndex >= len(cards) {
		return nil, shared.NewConflictError(
			fmt.Errorf("session %s has no cards left", sessionID),
			"All cards already answered")
	}

	if req.CardIndex != nil {
		switch {
		case *req.CardIndex < session.CurrentIndex:
			return nil, shared.NewConflictError(
				fmt.Errorf("card %d already answered", *req.CardIndex),
				"Card already answered")
		case *req.CardIndex > session.CurrentIndex:
			return nil, shared.NewValidationError(
				fmt.Errorf("card %d ahead of current %d", *req.CardIndex, session.CurrentIndex),
				"Cards must be answered in order")
		}
	}

	card := cards[session.CurrentIndex]
	answerIndex := *req.AnswerIndex
	if answerIndex >= len(card.Options) {
		return nil, shared.NewValidationError(
			fmt.Errorf("answer %d out of range for %d options", answerIndex, len(card.Options)),
			"Answer index out of range")
	}
	correct := answerIndex == card.CorrectAnswerIndex

	if userID != "" {
		if _, err := svc.retentionSvc.RecordOutcome(userID, card.CaseID, correct); err != nil {
			return nil, err
		}
	}

	attempt := &model.Attempt{
		CaseID:       card.CaseID,
		Correct:      correct,
		TimeSpentMs:  req.TimeSpentMs,
		SessionID:    &session.ID,
		AnswerIndex:  answerIndex,
		CorrectIndex: card.CorrectAnswerIndex,
		AttemptedAt:  time.Now(),
	}
	if userID != "" {
		attempt.UserID = &userID
	}
	if err := svc.sqlSvc.Attempts().CreateAttempt(attempt); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to record attempt")
	}
	svc.monitoringSvc.RecordAttempt(correct)

	resp := &dto.SubmitAnswerResponse{
		Correct:      correct,
		CorrectIndex: card.CorrectAnswerIndex,
		Explanation:  card.Explanation,
	}

	if userID != "" {
		reward, err := svc.gamificationSvc.EvaluateAnswer(userID, correct, req.TimeSpentMs, card.Difficulty)
		if err != nil {
			log.WithError(err).WithField("session_id", session.ID).Warn("Failed to evaluate answer reward")
		} else {
			resp.XPEarned = reward.XPEarned
			resp.LevelUp = reward.LevelUp
			resp.NewBadges = reward.NewBadges
			session.XPEarned += reward.XPEarned
		}
	}

	answers, err := session.AnswerRecords()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode session answers")
	}
	answers = append(answers, model.AnswerRecord{
		CaseID:       card.CaseID,
		AnswerIndex:  answerIndex,
		CorrectIndex: card.CorrectAnswerIndex,
		Correct:      correct,
		TimeSpentMs:  req.TimeSpentMs,
		AnsweredAt:   attempt.AttemptedAt,
	})
	rawAnswers, err := sonic.Marshal(answers)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode session answers")
	}

	session.Answers = rawAnswers
	session.CurrentIndex++
	if correct {
		session.CorrectCount++
	}
	if session.CurrentIndex >= len(cards) {
		session.State = shared.SessionStateCompleted
		now := time.Now()
		session.CompletedAt = &now
	}

	if err := svc.sqlSvc.Sessions().UpdateQuizSession(session); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to update session")
	}
	return resp, nil
}

// CompleteSession finalizes the session exactly once: end-of-session
// rewards, mode-specific bookkeeping, and the summary. A second call is a
// conflict; submitting further answers after completion is too.
func (svc *SessionService) CompleteSession(userID, sessionID string) (*dto.CompleteSessionResponse, error) {
	session, err := svc.loadOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Finalized {
		return nil, shared.NewConflictError(
			fmt.Errorf("session %s already finalized", sessionID),
			"Session already completed")
	}

	cards, err := session.CardRefs()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode session cards")
	}
	answers, err := session.AnswerRecords()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode session answers")
	}

	now := time.Now()
	if session.State != shared.SessionStateCompleted {
		// Early completion keeps whatever was answered.
		session.State = shared.SessionStateCompleted
		session.CompletedAt = &now
	}
	session.Finalized = true

	summary := buildSessionSummary(session, cards, answers)
	resp := &dto.CompleteSessionResponse{Summary: summary}

	if userID != "" {
		reward, err := svc.gamificationSvc.EvaluateSession(userID, summary)
		if err != nil {
			log.WithError(err).WithField("session_id", session.ID).Warn("Failed to evaluate session reward")
		} else {
			resp.BonusXP = reward.BonusXP
			resp.NewBadges = reward.NewBadges
			session.XPEarned += reward.BonusXP
			summary.XPEarned = session.XPEarned
			resp.Summary = summary
		}

		if session.Mode == shared.ModeDaily && summary.Answered == summary.TotalCards {
			bonus, err := svc.markDailyComplete(userID, session.ID)
			if err != nil {
				log.WithError(err).WithField("session_id", session.ID).Warn("Failed to record daily completion")
			} else if bonus > 0 {
				resp.BonusXP += bonus
				session.XPEarned += bonus
				summary.XPEarned = session.XPEarned
				resp.Summary = summary
			}
		}

		if session.Mode == shared.ModePlan && session.PlanID != nil && session.MilestoneIndex != nil {
			if err := svc.studyPlanSvc.RecordProgress(userID, *session.PlanID, *session.MilestoneIndex, summary.Answered); err != nil {
				log.WithError(err).WithField("session_id", session.ID).Warn("Failed to record plan progress")
			}
		}

		if err := svc.deviceSyncSvc.Delete(userID); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to clear session snapshot")
		}
	}

	if err := svc.sqlSvc.Sessions().UpdateQuizSession(session); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to finalize session")
	}
	svc.monitoringSvc.RecordSessionCompleted(session.Mode)
	return resp, nil
}

// GetSession returns the summary-in-progress for an owned session.
func (svc *SessionService) GetSession(userID, sessionID string) (*dto.SessionSummary, error) {
	session, err := svc.loadOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	cards, err := session.CardRefs()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode session cards")
	}
	answers, err := session.AnswerRecords()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode session answers")
	}
	summary := buildSessionSummary(session, cards, answers)
	return &summary, nil
}

// dailyChallengeCases picks the day's shared card set. The pick is a
// deterministic function of the date, so every instance computes the same
// set; redis only saves the catalog scan.
func (svc *SessionService) dailyChallengeCases() ([]model.Case, error) {
	date := time.Now().Format("2006-01-02")
	cacheKey := fmt.Sprintf(dailyCardsCacheKey, date)
	ctx := context.Background()

	var ids []string
	if err := svc.redisSvc.GetJSON(ctx, cacheKey, &ids); err == nil && len(ids) > 0 {
		return svc.catalogSvc.GetCasesOrdered(ids)
	}

	allIDs, err := svc.sqlSvc.Catalog().ActiveCaseIDs()
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to load catalog for daily challenge")
	}
	if len(allIDs) == 0 {
		return nil, shared.NewNotFoundError(errors.New("empty catalog"), "No cases available for this session")
	}

	ids = pickDailyIDs(allIDs, date, dailySessionSize)

	if err := svc.redisSvc.Set(ctx, cacheKey, ids, dailyCacheTTL); err != nil {
		log.WithError(err).Warn("Failed to cache daily challenge cards")
	}
	return svc.catalogSvc.GetCasesOrdered(ids)
}

// pickDailyIDs ranks case ids by a per-day hash and takes the top n. Sort
// order is total, so the result is stable for a given date across
// processes.
func pickDailyIDs(allIDs []string, date string, n int) []string {
	type ranked struct {
		id   string
		rank uint32
	}

	rankedIDs := make([]ranked, 0, len(allIDs))
	for _, id := range allIDs {
		h := fnv.New32a()
		h.Write([]byte(date))
		h.Write([]byte(id))
		rankedIDs = append(rankedIDs, ranked{id: id, rank: h.Sum32()})
	}
	sort.Slice(rankedIDs, func(i, j int) bool {
		if rankedIDs[i].rank != rankedIDs[j].rank {
			return rankedIDs[i].rank < rankedIDs[j].rank
		}
		return rankedIDs[i].id < rankedIDs[j].id
	})

	if n > len(rankedIDs) {
		n = len(rankedIDs)
	}
	ids := make([]string, 0, n)
	for _, r := range rankedIDs[:n] {
		ids = append(ids, r.id)
	}
	return ids
}

// markDailyComplete awards today's bonus at most once per user. Redis SETNX
// is the fast path; the unique constraint on the completion row is the
// backstop when the cache is cold or racing.
func (svc *SessionService) markDailyComplete(userID, sessionID string) (int, error) {
	date := time.Now().Format("2006-01-02")
	ctx := context.Background()

	key := fmt.Sprintf(dailyCompletedKey, date, userID)
	first, err := svc.redisSvc.SetNX(ctx, key, "1", dailyCacheTTL)
	if err != nil {
		log.WithError(err).Warn("Daily completion cache unavailable, falling back to database")
	} else if !first {
		return 0, nil
	}

	created, err := svc.sqlSvc.Sessions().CreateDailyCompletion(&model.DailyCompletion{
		UserID:        userID,
		ChallengeDate: date,
		SessionID:     sessionID,
		CompletedAt:   time.Now(),
	})
	if err != nil {
		return 0, shared.NewPersistenceError(err, "Failed to record daily completion")
	}
	if !created {
		return 0, nil
	}

	bonus := svc.gamificationSvc.DailyChallengeBonus()
	if err := svc.gamificationSvc.AwardXP(userID, bonus); err != nil {
		return 0, err
	}
	return bonus, nil
}

func (svc *SessionService) loadOwnedSession(userID, sessionID string) (*model.QuizSession, error) {
	session, err := svc.sqlSvc.Sessions().GetQuizSession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Session not found")
		}
		return nil, shared.NewPersistenceError(err, "Failed to load session")
	}
	if session.UserID != userID {
		return nil, shared.NewForbiddenError(
			fmt.Errorf("session %s not owned by caller", sessionID),
			"Session belongs to another user")
	}
	return session, nil
}

func buildSessionSummary(session *model.QuizSession, cards []model.CardRef, answers []model.AnswerRecord) dto.SessionSummary {
	summary := dto.SessionSummary{
		SessionID:     session.ID,
		Mode:          session.Mode,
		TotalCards:    len(cards),
		Answered:      len(answers),
		CorrectCount:  session.CorrectCount,
		XPEarned:      session.XPEarned,
		MissedAnswers: []dto.MissedAnswer{},
	}
	if summary.Answered > 0 {
		summary.Accuracy = float64(session.CorrectCount) / float64(summary.Answered)
	}

	end := time.Now()
	if session.CompletedAt != nil {
		end = *session.CompletedAt
	}
	summary.DurationMs = end.Sub(session.StartedAt).Milliseconds()

	cardsByID := make(map[string]model.CardRef, len(cards))
	for _, card := range cards {
		cardsByID[card.CaseID] = card
	}
	for _, answer := range answers {
		if answer.Correct {
			continue
		}
		card := cardsByID[answer.CaseID]
		summary.MissedAnswers = append(summary.MissedAnswers, dto.MissedAnswer{
			CaseID:       answer.CaseID,
			Title:        card.Title,
			AnswerIndex:  answer.AnswerIndex,
			CorrectIndex: answer.CorrectIndex,
			Explanation:  card.Explanation,
		})
	}
	return summary
}
