// Package command contains write operations following CQRS pattern.
// Each command is a self-contained use case with its own input/result types.
package command

import (
	"context"
	"time"

	"github.com/studyhub/study-badges-hub/internal/domain/activity"
	"github.com/studyhub/study-badges-hub/internal/domain/badge"
	"github.com/studyhub/study-badges-hub/internal/domain/shared"
	"github.com/studyhub/study-badges-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECK AND AWARD COMMAND
// Evaluates every badge the user has not yet earned against a fresh activity
// snapshot and persists the newly earned ones exactly once. Idempotency rests
// entirely on the store's (user_id, badge_id) uniqueness - the engine holds
// no locks and keeps no state between calls.
// ══════════════════════════════════════════════════════════════════════════════

// CheckAndAwardCommand contains the input for an award pass.
type CheckAndAwardCommand struct {
	// UserID - the user to evaluate.
	UserID string
}

// Validate checks the command input before any I/O happens.
func (c *CheckAndAwardCommand) Validate() error {
	if c.UserID == "" {
		return shared.WrapError("command", "CheckAndAward", shared.ErrEmptyValue, "user ID is required", nil)
	}
	return nil
}

// NewBadgeDTO describes a badge newly earned by this call.
type NewBadgeDTO struct {
	// BadgeID - catalog identifier of the badge.
	BadgeID string `json:"badge_id"`

	// Title - display title.
	Title string `json:"title"`

	// Description - display description.
	Description string `json:"description"`

	// Icon - display icon reference.
	Icon string `json:"icon"`

	// Category - grouping label.
	Category string `json:"category"`

	// AchievedAt - when the award was recorded.
	AchievedAt time.Time `json:"achieved_at"`
}

// CheckAndAwardResult contains the outcome of one award pass.
type CheckAndAwardResult struct {
	// UserID - the evaluated user.
	UserID string `json:"user_id"`

	// NewBadges - badges whose award record was created by this call, in
	// evaluation (catalog) order. Empty is a valid, non-error outcome.
	NewBadges []NewBadgeDTO `json:"new_badges"`

	// FailedBadgeIDs - badges that qualified but whose insert failed.
	// Reported alongside the successful subset rather than discarding it.
	FailedBadgeIDs []string `json:"failed_badge_ids,omitempty"`

	// CheckedAt - when the pass ran.
	CheckedAt time.Time `json:"checked_at"`
}

// HasNewBadges returns true if any badge was newly earned.
func (r *CheckAndAwardResult) HasNewBadges() bool {
	return len(r.NewBadges) > 0
}

// CheckAndAwardHandler orchestrates the award pass.
type CheckAndAwardHandler struct {
	catalogRepo badge.CatalogRepository
	awardRepo   badge.AwardRepository
	sessionRepo activity.SessionRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewCheckAndAwardHandler creates a new award-pass handler.
func NewCheckAndAwardHandler(
	catalogRepo badge.CatalogRepository,
	awardRepo badge.AwardRepository,
	sessionRepo activity.SessionRepository,
	log *logger.Logger,
) *CheckAndAwardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CheckAndAwardHandler{
		catalogRepo: catalogRepo,
		awardRepo:   awardRepo,
		sessionRepo: sessionRepo,
		log:         log.With(logger.Component("award_engine")),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (h *CheckAndAwardHandler) WithClock(now func() time.Time) *CheckAndAwardHandler {
	h.now = now
	return h
}

// Handle runs one award pass for the user.
func (h *CheckAndAwardHandler) Handle(ctx context.Context, cmd CheckAndAwardCommand) (*CheckAndAwardResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &CheckAndAwardResult{
		UserID:    cmd.UserID,
		NewBadges: make([]NewBadgeDTO, 0),
		CheckedAt: h.now(),
	}

	// 1. Badges already earned by the user.
	existing, err := h.awardRepo.ListAwardsByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, shared.WrapError("command", "CheckAndAward", shared.ErrDataUnavailable, "failed to load existing awards", err)
	}
	earned := badge.EarnedSet(existing)

	// 2. Candidates = catalog - earned, in catalog order.
	catalog, err := h.catalogRepo.ListBadges(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "CheckAndAward", shared.ErrDataUnavailable, "failed to load badge catalog", err)
	}
	candidates := catalog.Without(earned)

	// 3. Everything already earned: no stats read needed.
	if len(candidates) == 0 {
		return result, nil
	}

	// 4. One stats snapshot for the whole pass - stats are invariant within
	// a single evaluation.
	sessions, err := h.sessionRepo.ListSessionsByUser(ctx, activity.UserID(cmd.UserID))
	if err != nil {
		// Never default to zeroed stats: that would turn a read failure
		// into false ineligibility.
		return nil, shared.WrapError("command", "CheckAndAward", shared.ErrDataUnavailable, "failed to load study sessions", err)
	}
	stats := activity.ComputeStats(activity.UserID(cmd.UserID), sessions)

	// 5-7. Evaluate candidates and insert-if-absent the qualifying ones.
	var attempted int
	for i := range candidates {
		b := &candidates[i]

		satisfied, err := b.Satisfied(stats)
		if err != nil {
			// Catalog references an unsupported rule. Surface it so the
			// misconfiguration is caught instead of silently never awarding.
			return nil, shared.WrapError("command", "CheckAndAward", shared.ErrUnknownRequirement, "catalog badge has unknown requirement kind", err)
		}
		if !satisfied {
			continue
		}

		award, err := badge.NewAward(cmd.UserID, b.ID, h.now())
		if err != nil {
			return nil, shared.WrapError("command", "CheckAndAward", shared.ErrInvalidEntity, "failed to build award", err)
		}

		attempted++
		created, err := h.awardRepo.InsertAwardIfAbsent(ctx, award)
		if err != nil {
			// One bad write must not block other qualifying badges.
			h.log.Error("award insert failed",
				logger.UserID(cmd.UserID),
				logger.BadgeID(b.ID.String()),
				logger.Err(err),
			)
			result.FailedBadgeIDs = append(result.FailedBadgeIDs, b.ID.String())
			continue
		}
		if !created {
			// A concurrent pass won this badge; it was not newly earned
			// by this invocation.
			continue
		}

		result.NewBadges = append(result.NewBadges, NewBadgeDTO{
			BadgeID:     b.ID.String(),
			Title:       b.Title,
			Description: b.Description,
			Icon:        b.Icon,
			Category:    b.Category.String(),
			AchievedAt:  award.AchievedAt,
		})
	}

	// The whole batch failing to write is a persistence failure; a partial
	// failure returns the successful subset with the rest reported.
	if attempted > 0 && len(result.NewBadges) == 0 && len(result.FailedBadgeIDs) == attempted {
		return nil, shared.WrapError("command", "CheckAndAward", shared.ErrPersistenceFailure, "all award inserts failed", nil)
	}

	if result.HasNewBadges() {
		h.log.Info("badges awarded",
			logger.UserID(cmd.UserID),
			logger.BadgeCount(len(result.NewBadges)),
			logger.SessionCount(stats.SessionCount),
		)
	}

	return result, nil
}
