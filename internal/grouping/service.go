// Package grouping loads a section's roster, runs the balancer over it and
// persists the result. It owns the decision of when regeneration is
// allowed and serializes all group-changing work per section.
package grouping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Huddle/internal/balance"
	"github.com/MikeSquared-Agency/Huddle/internal/config"
	"github.com/MikeSquared-Agency/Huddle/internal/hermes"
	"github.com/MikeSquared-Agency/Huddle/internal/metrics"
	"github.com/MikeSquared-Agency/Huddle/internal/scoring"
	"github.com/MikeSquared-Agency/Huddle/internal/store"
)

type Service struct {
	store    store.Store
	hermes   hermes.Client
	metrics  metrics.Recorder
	analyzer *scoring.Analyzer
	cfg      *config.Config
	logger   *slog.Logger

	defaultWeights balance.SkillWeights
	locks          *sectionLocks
}

// New creates a Service. h may be nil to run without events and rec may be
// nil to discard metrics.
func New(s store.Store, h hermes.Client, rec metrics.Recorder, cfg *config.Config, logger *slog.Logger) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	w := cfg.Grouping.DefaultWeights
	return &Service{
		store:    s,
		hermes:   h,
		metrics:  rec,
		analyzer: scoring.NewAnalyzer(cfg.Insights.UnbalancedStdDev),
		cfg:      cfg,
		logger:   logger,
		defaultWeights: balance.SkillWeights{
			Coding:     w.Coding,
			Design:     w.Design,
			Writing:    w.Writing,
			Presenting: w.Presenting,
		},
		locks: newSectionLocks(),
	}
}

// GenerateRequest asks for a full regeneration of a section's groups.
// A nil GroupCount uses the configured default. An explicit count is used
// as given, so zero is rejected.
type GenerateRequest struct {
	TeacherID  string
	SectionID  uuid.UUID
	GroupCount *int
	Weights    *WeightOverrides
	Force      bool
}

// WeightOverrides replaces individual default weights. Nil fields keep the
// configured default for that skill.
type WeightOverrides struct {
	Coding     *float64 `json:"coding,omitempty"`
	Design     *float64 `json:"design,omitempty"`
	Writing    *float64 `json:"writing,omitempty"`
	Presenting *float64 `json:"presenting,omitempty"`
}

// Apply returns base with every set field replaced.
func (o *WeightOverrides) Apply(base balance.SkillWeights) balance.SkillWeights {
	if o == nil {
		return base
	}
	if o.Coding != nil {
		base.Coding = *o.Coding
	}
	if o.Design != nil {
		base.Design = *o.Design
	}
	if o.Writing != nil {
		base.Writing = *o.Writing
	}
	if o.Presenting != nil {
		base.Presenting = *o.Presenting
	}
	return base
}

type GeneratedGroup struct {
	Group      *store.Group           `json:"group"`
	Members    []*store.Student       `json:"members"`
	TotalPower float64                `json:"total_power"`
	SkillSums  [balance.NumSkills]int `json:"skill_sums"`
}

type GenerateResult struct {
	SectionID   uuid.UUID            `json:"section_id"`
	GroupCount  int                  `json:"group_count"`
	Weights     balance.SkillWeights `json:"weights"`
	Forced      bool                 `json:"forced"`
	Students    int                  `json:"students"`
	PowerSpread float64              `json:"power_spread"`
	Groups      []GeneratedGroup     `json:"groups"`
}

// Section returns the section if it exists and belongs to teacherID.
func (s *Service) Section(ctx context.Context, teacherID string, sectionID uuid.UUID) (*store.Section, error) {
	sec, err := s.store.GetSection(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	if sec == nil || sec.TeacherID != teacherID {
		return nil, ErrSectionNotFound
	}
	return sec, nil
}

// Generate partitions the section's current roster into groups and
// replaces any existing groups with the result. Existing groups are only
// replaced when req.Force is set. Nothing is written unless balancing
// succeeds.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (res *GenerateResult, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordGeneration(outcomeOf(err), time.Since(start))
	}()

	groupCount := s.cfg.Grouping.DefaultGroupCount
	if req.GroupCount != nil {
		groupCount = *req.GroupCount
	}
	if groupCount < 1 {
		return nil, fmt.Errorf("%w: group count %d must be at least 1", balance.ErrInvalidArgument, groupCount)
	}
	if groupCount > s.cfg.Grouping.MaxGroupCount {
		return nil, fmt.Errorf("%w: group count %d exceeds maximum %d",
			balance.ErrInvalidArgument, groupCount, s.cfg.Grouping.MaxGroupCount)
	}
	weights := req.Weights.Apply(s.defaultWeights)
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(req.SectionID)
	defer unlock()

	sec, err := s.Section(ctx, req.TeacherID, req.SectionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.CountGroups(ctx, sec.ID)
	if err != nil {
		return nil, fmt.Errorf("count groups: %w", err)
	}
	if existing > 0 && !req.Force {
		return nil, ErrGroupsExist
	}

	students, err := s.store.ListStudents(ctx, sec.ID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if len(students) > s.cfg.Grouping.MaxRosterSize {
		return nil, fmt.Errorf("%w: %d students, limit %d", ErrRosterTooLarge, len(students), s.cfg.Grouping.MaxRosterSize)
	}

	assignment, err := balance.Balance(toRoster(students), groupCount, &weights)
	if err != nil {
		return nil, err
	}

	plan := store.GroupPlan{Groups: make([]store.PlannedGroup, len(assignment.Groups))}
	for i, g := range assignment.Groups {
		plan.Groups[i] = store.PlannedGroup{Name: g.Name, StudentIDs: g.Members}
	}
	groups, err := s.store.ReplaceGroups(ctx, sec.ID, plan)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("replace groups: %w", err)
	}

	byID := make(map[int64]*store.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}
	res = &GenerateResult{
		SectionID:   sec.ID,
		GroupCount:  groupCount,
		Weights:     weights,
		Forced:      existing > 0,
		Students:    len(students),
		PowerSpread: assignment.PowerSpread(),
		Groups:      make([]GeneratedGroup, len(groups)),
	}
	for i, g := range assignment.Groups {
		members := make([]*store.Student, 0, len(g.Members))
		for _, id := range g.Members {
			st := byID[id]
			gid := groups[i].ID
			st.GroupID = &gid
			members = append(members, st)
		}
		res.Groups[i] = GeneratedGroup{
			Group:      groups[i],
			Members:    members,
			TotalPower: g.TotalPower,
			SkillSums:  g.SkillSums,
		}
	}

	s.metrics.RecordPlacement(len(students), res.PowerSpread)
	s.publish(hermes.SubjectGroupsGenerated(sec.ID.String()), generatedEvent(sec, res))
	s.logger.Info("groups generated",
		"section_id", sec.ID,
		"group_count", groupCount,
		"students", len(students),
		"forced", res.Forced,
		"power_spread", res.PowerSpread,
	)
	return res, nil
}

// ClearSection removes every student and group from the section.
func (s *Service) ClearSection(ctx context.Context, teacherID string, sectionID uuid.UUID) error {
	unlock := s.locks.lock(sectionID)
	defer unlock()

	sec, err := s.Section(ctx, teacherID, sectionID)
	if err != nil {
		return err
	}
	if err := s.store.ClearSection(ctx, sec.ID); err != nil {
		return fmt.Errorf("clear section: %w", err)
	}
	s.publish(hermes.SubjectSectionCleared(sec.ID.String()), hermes.SectionEvent{
		SectionID: sec.ID.String(),
		TeacherID: sec.TeacherID,
		Name:      sec.Name,
	})
	s.logger.Info("section cleared", "section_id", sec.ID)
	return nil
}

// MoveStudent manually places a student in another group of the same
// section. Group aggregates are derived on read, so no rebalancing happens.
func (s *Service) MoveStudent(ctx context.Context, teacherID string, sectionID uuid.UUID, studentID int64, groupID uuid.UUID) (*store.Student, error) {
	unlock := s.locks.lock(sectionID)
	defer unlock()

	sec, err := s.Section(ctx, teacherID, sectionID)
	if err != nil {
		return nil, err
	}
	st, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if st == nil || st.SectionID != sec.ID {
		return nil, ErrStudentNotFound
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if g == nil || g.SectionID != sec.ID {
		return nil, ErrGroupNotFound
	}

	if err := s.store.MoveStudent(ctx, st.ID, g.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("move student: %w", err)
	}
	st.GroupID = &g.ID

	s.publish(hermes.SubjectStudentMoved(sec.ID.String()), hermes.StudentMovedEvent{
		SectionID: sec.ID.String(),
		StudentID: st.ID,
		GroupID:   g.ID.String(),
	})
	return st, nil
}

// DeleteStudents removes the given students from the section. Ids from
// other sections are ignored.
func (s *Service) DeleteStudents(ctx context.Context, teacherID string, sectionID uuid.UUID, ids []int64) (int, error) {
	unlock := s.locks.lock(sectionID)
	defer unlock()

	sec, err := s.Section(ctx, teacherID, sectionID)
	if err != nil {
		return 0, err
	}
	n, err := s.store.DeleteStudents(ctx, sec.ID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete students: %w", err)
	}
	if n > 0 {
		s.publish(hermes.SubjectStudentsDeleted(sec.ID.String()), hermes.StudentsDeletedEvent{
			SectionID:  sec.ID.String(),
			StudentIDs: ids,
			Deleted:    n,
		})
	}
	return n, nil
}

type DashboardGroup struct {
	Group   *store.Group         `json:"group"`
	Members []*store.Student     `json:"members"`
	Insight scoring.GroupInsight `json:"insight"`
}

type Dashboard struct {
	Section    *store.Section   `json:"section"`
	Groups     []DashboardGroup `json:"groups"`
	Students   []*store.Student `json:"students"`
	Unassigned []*store.Student `json:"unassigned"`
}

// Dashboard returns the section's groups with their insights and the
// whole roster sorted by name.
func (s *Service) Dashboard(ctx context.Context, teacherID string, sectionID uuid.UUID) (*Dashboard, error) {
	sec, err := s.Section(ctx, teacherID, sectionID)
	if err != nil {
		return nil, err
	}
	groups, err := s.store.ListGroups(ctx, sec.ID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	students, err := s.store.ListStudents(ctx, sec.ID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	members := make(map[uuid.UUID][]*store.Student, len(groups))
	for _, g := range groups {
		members[g.ID] = []*store.Student{}
	}
	d := &Dashboard{
		Section:    sec,
		Groups:     make([]DashboardGroup, 0, len(groups)),
		Unassigned: []*store.Student{},
	}
	for _, st := range students {
		if st.GroupID != nil {
			if _, ok := members[*st.GroupID]; ok {
				members[*st.GroupID] = append(members[*st.GroupID], st)
				continue
			}
		}
		d.Unassigned = append(d.Unassigned, st)
	}
	for _, g := range groups {
		d.Groups = append(d.Groups, DashboardGroup{
			Group:   g,
			Members: members[g.ID],
			Insight: s.analyzer.Analyze(toRoster(members[g.ID])),
		})
	}

	d.Students = append([]*store.Student{}, students...)
	sort.SliceStable(d.Students, func(i, j int) bool { return d.Students[i].Name < d.Students[j].Name })
	return d, nil
}

func (s *Service) publish(subject string, data interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func toRoster(students []*store.Student) []balance.Student {
	roster := make([]balance.Student, len(students))
	for i, st := range students {
		roster[i] = balance.Student{
			ID:         st.ID,
			Name:       st.Name,
			Coding:     st.Coding,
			Design:     st.Design,
			Writing:    st.Writing,
			Presenting: st.Presenting,
		}
	}
	return roster
}

func generatedEvent(sec *store.Section, res *GenerateResult) hermes.GroupsGeneratedEvent {
	ev := hermes.GroupsGeneratedEvent{
		SectionID:   sec.ID.String(),
		TeacherID:   sec.TeacherID,
		GroupCount:  res.GroupCount,
		Students:    res.Students,
		Forced:      res.Forced,
		PowerSpread: res.PowerSpread,
		Groups:      make([]hermes.GroupSummary, len(res.Groups)),
		Timestamp:   time.Now().UTC(),
	}
	for i, g := range res.Groups {
		ev.Groups[i] = hermes.GroupSummary{
			GroupID:     g.Group.ID.String(),
			Name:        g.Group.Name,
			MemberCount: len(g.Members),
			TotalPower:  g.TotalPower,
		}
	}
	return ev
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrGroupsExist):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrSectionNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, balance.ErrInvalidArgument), errors.Is(err, ErrRosterTooLarge):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
