package services

import (
	"math"
	"time"

	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/models"
)

type AggregationGoalReader interface {
	FindByID(goalID uint) (models.Goal, error)
	ListByGroup(groupID uint) ([]models.Goal, error)
}

type AggregationGroupReader interface {
	MembershipFor(groupID uint, userID uint) (models.Membership, bool, error)
	ActiveMemberships(groupID uint) ([]models.Membership, error)
}

type AggregationUserReader interface {
	FindByID(userID uint) (models.User, error)
	FindByIDs(userIDs []uint) ([]models.User, error)
}

type AggregationEntryReader interface {
	ListForGoalInPeriod(goalID uint, periodStart time.Time, periodEnd time.Time) ([]models.ProgressEntry, error)
	ListForUserInRange(userID uint, goalIDs []uint, from time.Time, to time.Time, beforeID uint, limit int) ([]models.ProgressEntry, error)
	ListAllForUserInRange(userID uint, goalIDs []uint, from time.Time, to time.Time) ([]models.ProgressEntry, error)
	CountForUserInRange(userID uint, goalIDs []uint, from time.Time, to time.Time) (int64, error)
}

type AggregationReactionReader interface {
	ReactionsForEntries(entryIDs []uint, callerID uint) ([]db.ReactionRow, error)
}

// AggregationService computes the read-side rollups: current-period progress
// per goal and whole-window member progress views.
type AggregationService struct {
	goals     AggregationGoalReader
	groups    AggregationGroupReader
	users     AggregationUserReader
	entries   AggregationEntryReader
	reactions AggregationReactionReader
}

func NewAggregationService(goals AggregationGoalReader, groups AggregationGroupReader, users AggregationUserReader, entries AggregationEntryReader, reactions AggregationReactionReader) *AggregationService {
	return &AggregationService{
		goals:     goals,
		groups:    groups,
		users:     users,
		entries:   entries,
		reactions: reactions,
	}
}

type EntrySummary struct {
	EntryID     uint
	Value       float64
	Note        string
	LogTitle    string
	PeriodStart time.Time
	LoggedAt    time.Time
}

type UserProgress struct {
	UserID      uint
	DisplayName string
	AvatarURL   string
	Completed   float64
	Total       float64
	Percentage  int
	Entries     []EntrySummary
}

type CurrentPeriodProgress struct {
	GoalID         uint
	PeriodStart    time.Time
	PeriodEnd      time.Time
	PeriodType     string
	UserProgress   UserProgress
	MemberProgress []UserProgress
}

// CurrentPeriodProgress rolls up everyone's progress on a goal for the period
// containing today in the caller's timezone. Every active member appears,
// zero entries or not; pending members never do.
func (service *AggregationService) CurrentPeriodProgress(goalID uint, callerID uint, now time.Time) (CurrentPeriodProgress, error) {
	goal, err := service.goals.FindByID(goalID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return CurrentPeriodProgress{}, ErrNotFound
		}
		return CurrentPeriodProgress{}, err
	}

	membership, found, err := service.groups.MembershipFor(goal.GroupID, callerID)
	if err != nil {
		return CurrentPeriodProgress{}, err
	}
	if err := RequireActiveMember(membership, found); err != nil {
		return CurrentPeriodProgress{}, err
	}

	caller, err := service.users.FindByID(callerID)
	if err != nil {
		return CurrentPeriodProgress{}, err
	}
	location, err := LoadUserLocation(caller.Timezone)
	if err != nil {
		return CurrentPeriodProgress{}, err
	}

	period, err := ComputePeriod(goal.Cadence, DateAtLocation(now, location), location)
	if err != nil {
		return CurrentPeriodProgress{}, err
	}

	periodKeyStart := period.CanonicalKey()
	periodKeyEnd := Period{Start: period.End, End: period.End}.CanonicalKey()
	entries, err := service.entries.ListForGoalInPeriod(goal.ID, periodKeyStart, periodKeyEnd)
	if err != nil {
		return CurrentPeriodProgress{}, err
	}

	memberships, err := service.groups.ActiveMemberships(goal.GroupID)
	if err != nil {
		return CurrentPeriodProgress{}, err
	}
	userIDs := make([]uint, 0, len(memberships))
	for _, member := range memberships {
		userIDs = append(userIDs, member.UserID)
	}
	users, err := service.users.FindByIDs(userIDs)
	if err != nil {
		return CurrentPeriodProgress{}, err
	}
	usersByID := make(map[uint]models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	entriesByUser := make(map[uint][]models.ProgressEntry)
	for _, entry := range entries {
		entriesByUser[entry.UserID] = append(entriesByUser[entry.UserID], entry)
	}

	total := goalPeriodTotal(&goal, period)
	memberProgress := make([]UserProgress, 0, len(memberships))
	var callerProgress UserProgress
	for _, member := range memberships {
		user := usersByID[member.UserID]
		progress := buildUserProgress(&goal, user, entriesByUser[member.UserID], total)
		memberProgress = append(memberProgress, progress)
		if member.UserID == callerID {
			callerProgress = progress
		}
	}

	return CurrentPeriodProgress{
		GoalID:         goal.ID,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		PeriodType:     goal.Cadence,
		UserProgress:   callerProgress,
		MemberProgress: memberProgress,
	}, nil
}

type MemberRef struct {
	UserID      uint
	DisplayName string
	AvatarURL   string
}

type Timeframe struct {
	From time.Time
	To   time.Time
	Days int
}

type GoalSummary struct {
	GoalID      uint
	Title       string
	Cadence     string
	MetricType  string
	Completed   float64
	Total       float64
	Percentage  int
	TargetValue *float64
	Unit        string
}

type ReactionSummary struct {
	Emoji         string
	Count         int
	CallerReacted bool
}

type ActivityLogItem struct {
	EntryID     uint
	GoalID      uint
	GoalTitle   string
	MetricType  string
	Unit        string
	Value       float64
	Note        string
	LogTitle    string
	PeriodStart time.Time
	LoggedAt    time.Time
	Reactions   []ReactionSummary
}

type PageInfo struct {
	NextCursor   string
	HasMore      bool
	TotalInScope int64
}

type MemberProgressView struct {
	Member        MemberRef
	Timeframe     Timeframe
	GoalSummaries []GoalSummary
	ActivityLog   []ActivityLogItem
	Pagination    PageInfo
}

type MemberProgressQuery struct {
	GroupID      uint
	TargetUserID uint
	CallerID     uint
	FromDate     string
	ToDate       string
	Cursor       string
	Limit        int
}

// MemberProgressOverRange builds one member's progress view over an
// arbitrary window: per-goal summaries aggregated across the whole window
// plus their cursor-paginated progress log, newest first.
func (service *AggregationService) MemberProgressOverRange(query MemberProgressQuery) (MemberProgressView, error) {
	caller, err := service.users.FindByID(query.CallerID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return MemberProgressView{}, ErrNotFound
		}
		return MemberProgressView{}, err
	}

	callerMembership, callerFound, err := service.groups.MembershipFor(query.GroupID, query.CallerID)
	if err != nil {
		return MemberProgressView{}, err
	}
	if err := RequireActiveMember(callerMembership, callerFound); err != nil {
		return MemberProgressView{}, err
	}

	targetMembership, targetFound, err := service.groups.MembershipFor(query.GroupID, query.TargetUserID)
	if err != nil {
		return MemberProgressView{}, err
	}
	if !targetFound || !targetMembership.IsActive() {
		return MemberProgressView{}, ErrTargetNotMember
	}

	location, err := LoadUserLocation(caller.Timezone)
	if err != nil {
		return MemberProgressView{}, err
	}
	from, to, err := ParseDateRange(query.FromDate, query.ToDate, location)
	if err != nil {
		return MemberProgressView{}, err
	}
	if err := CheckRangeAllowed(&caller, from, to); err != nil {
		return MemberProgressView{}, err
	}

	limit, err := ClampPageLimit(query.Limit)
	if err != nil {
		return MemberProgressView{}, err
	}
	var beforeID uint
	if query.Cursor != "" {
		cursor, err := DecodeCursor(query.Cursor)
		if err != nil {
			return MemberProgressView{}, err
		}
		beforeID = cursor.LastSeenID
	}

	target, err := service.users.FindByID(query.TargetUserID)
	if err != nil {
		return MemberProgressView{}, err
	}

	allGoals, err := service.goals.ListByGroup(query.GroupID)
	if err != nil {
		return MemberProgressView{}, err
	}
	goals := make([]models.Goal, 0, len(allGoals))
	goalIDs := make([]uint, 0, len(allGoals))
	goalsByID := make(map[uint]models.Goal, len(allGoals))
	for _, goal := range allGoals {
		if !goal.ActiveDuring(from, to) {
			continue
		}
		goals = append(goals, goal)
		goalIDs = append(goalIDs, goal.ID)
		goalsByID[goal.ID] = goal
	}

	fromKey := Period{Start: from, End: from}.CanonicalKey()
	toKey := Period{Start: to, End: to}.CanonicalKey()

	windowEntries, err := service.entries.ListAllForUserInRange(query.TargetUserID, goalIDs, fromKey, toKey)
	if err != nil {
		return MemberProgressView{}, err
	}
	entriesByGoal := make(map[uint][]models.ProgressEntry)
	for _, entry := range windowEntries {
		entriesByGoal[entry.GoalID] = append(entriesByGoal[entry.GoalID], entry)
	}

	summaries := make([]GoalSummary, 0, len(goals))
	for _, goal := range goals {
		total := goalWindowTotal(&goal, from, to, location)
		completed := completedAmount(&goal, entriesByGoal[goal.ID])
		summaries = append(summaries, GoalSummary{
			GoalID:      goal.ID,
			Title:       goal.Title,
			Cadence:     goal.Cadence,
			MetricType:  goal.MetricType,
			Completed:   completed,
			Total:       total,
			Percentage:  percentage(completed, total),
			TargetValue: goal.TargetValue,
			Unit:        goal.Unit,
		})
	}

	pageEntries, err := service.entries.ListForUserInRange(query.TargetUserID, goalIDs, fromKey, toKey, beforeID, limit+1)
	if err != nil {
		return MemberProgressView{}, err
	}
	hasMore := len(pageEntries) > limit
	if hasMore {
		pageEntries = pageEntries[:limit]
	}

	entryIDs := make([]uint, 0, len(pageEntries))
	for _, entry := range pageEntries {
		entryIDs = append(entryIDs, entry.ID)
	}
	reactionRows, err := service.reactions.ReactionsForEntries(entryIDs, query.CallerID)
	if err != nil {
		return MemberProgressView{}, err
	}
	reactionsByEntry := make(map[uint][]ReactionSummary)
	for _, row := range reactionRows {
		reactionsByEntry[row.EntryID] = append(reactionsByEntry[row.EntryID], ReactionSummary{
			Emoji:         row.Emoji,
			Count:         row.Count,
			CallerReacted: row.CallerReacted,
		})
	}

	activityLog := make([]ActivityLogItem, 0, len(pageEntries))
	for _, entry := range pageEntries {
		goal := goalsByID[entry.GoalID]
		activityLog = append(activityLog, ActivityLogItem{
			EntryID:     entry.ID,
			GoalID:      entry.GoalID,
			GoalTitle:   goal.Title,
			MetricType:  goal.MetricType,
			Unit:        goal.Unit,
			Value:       entry.Value,
			Note:        entry.Note,
			LogTitle:    entry.LogTitle,
			PeriodStart: entry.PeriodStart,
			LoggedAt:    entry.LoggedAt,
			Reactions:   reactionsByEntry[entry.ID],
		})
	}

	totalInScope, err := service.entries.CountForUserInRange(query.TargetUserID, goalIDs, fromKey, toKey)
	if err != nil {
		return MemberProgressView{}, err
	}

	var nextCursor string
	if hasMore && len(pageEntries) > 0 {
		nextCursor = EncodeCursor(Cursor{LastSeenID: pageEntries[len(pageEntries)-1].ID})
	}

	return MemberProgressView{
		Member: MemberRef{
			UserID:      target.ID,
			DisplayName: target.DisplayName,
			AvatarURL:   target.AvatarURL(),
		},
		Timeframe: Timeframe{
			From: from,
			To:   to,
			Days: Period{Start: from, End: to}.Days(),
		},
		GoalSummaries: summaries,
		ActivityLog:   activityLog,
		Pagination: PageInfo{
			NextCursor:   nextCursor,
			HasMore:      hasMore,
			TotalInScope: totalInScope,
		},
	}, nil
}

func buildUserProgress(goal *models.Goal, user models.User, entries []models.ProgressEntry, total float64) UserProgress {
	completed := completedAmount(goal, entries)
	summaries := make([]EntrySummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, EntrySummary{
			EntryID:     entry.ID,
			Value:       entry.Value,
			Note:        entry.Note,
			LogTitle:    entry.LogTitle,
			PeriodStart: entry.PeriodStart,
			LoggedAt:    entry.LoggedAt,
		})
	}

	return UserProgress{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL(),
		Completed:   completed,
		Total:       total,
		Percentage:  percentage(completed, total),
		Entries:     summaries,
	}
}

// completedAmount sums values for quantity metrics and counts done entries
// for binary and journal metrics.
func completedAmount(goal *models.Goal, entries []models.ProgressEntry) float64 {
	var completed float64
	for _, entry := range entries {
		switch goal.MetricType {
		case models.MetricBinary, models.MetricJournal:
			if entry.Value >= 1 {
				completed++
			}
		default:
			completed += entry.Value
		}
	}
	return completed
}

// goalPeriodTotal is the denominator for a single period: the goal's target
// when set, otherwise (binary/journal) the countable days of the period,
// mask-filtered for daily goals.
func goalPeriodTotal(goal *models.Goal, period Period) float64 {
	if goal.TargetValue != nil {
		return *goal.TargetValue
	}
	if mask := GoalActiveDays(goal); mask != nil {
		return float64(mask.CountableDays(period))
	}
	return float64(period.Days())
}

// goalWindowTotal extends the denominator across an arbitrary window by
// scaling the per-period total by the number of periods the window touches.
// Daily binary goals count calendar days directly so an active-days mask
// shrinks the denominator the way it does for a single period.
func goalWindowTotal(goal *models.Goal, from time.Time, to time.Time, location *time.Location) float64 {
	if goal.Cadence == models.CadenceDaily && goal.TargetValue == nil {
		if mask := GoalActiveDays(goal); mask != nil {
			return float64(mask.CountableDaysInRange(from, to))
		}
		return float64(Period{Start: from, End: to}.Days())
	}

	periods := periodsInRange(goal.Cadence, from, to, location)
	perPeriod := 1.0
	if goal.TargetValue != nil {
		perPeriod = *goal.TargetValue
	}
	return perPeriod * float64(periods)
}

// periodsInRange counts the distinct accounting periods touching [from, to].
func periodsInRange(cadence string, from time.Time, to time.Time, location *time.Location) int {
	count := 0
	cursor := from
	for !cursor.After(to) {
		period, err := ComputePeriod(cadence, cursor, location)
		if err != nil {
			return 0
		}
		count++
		cursor = period.End.AddDate(0, 0, 1)
	}
	return count
}

// percentage rounds 100*completed/total, with 0 guarding the empty
// denominator.
func percentage(completed float64, total float64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * completed / total))
}
