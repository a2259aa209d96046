package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"clan-bingo/internal/model"
	"clan-bingo/internal/repository"
	pkgerrors "clan-bingo/pkg/errors"
)

// memStore 所有 mock repository 共享的内存存储，互斥锁模拟单行原子性
type memStore struct {
	mu        sync.Mutex
	seq       int
	clock     time.Time
	profiles  map[string]model.Profile
	admins    map[string]model.AppAdmin
	teams     map[string]model.Team
	members   map[string]model.TeamMember // key: team|user
	squares   map[string]model.Square
	claims    map[string]model.Claim
	interests map[string]model.SquareInterest // key: square|user

	// 故障注入
	adminErr error
	storeErr error
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		profiles:  make(map[string]model.Profile),
		admins:    make(map[string]model.AppAdmin),
		teams:     make(map[string]model.Team),
		members:   make(map[string]model.TeamMember),
		squares:   make(map[string]model.Square),
		claims:    make(map[string]model.Claim),
		interests: make(map[string]model.SquareInterest),
	}
}

// tick 单调递增的时间戳，保证排序稳定
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func pairKey(a, b string) string { return a + "|" + b }

// newMockRepository 组装指向同一 memStore 的 Repository
func newMockRepository(m *memStore) *repository.Repository {
	return &repository.Repository{
		Profile:  &mockProfileRepo{m},
		Admin:    &mockAdminRepo{m},
		Team:     &mockTeamRepo{m},
		Member:   &mockMemberRepo{m},
		Square:   &mockSquareRepo{m},
		Claim:    &mockClaimRepo{m},
		Interest: &mockInterestRepo{m},
	}
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct{ *memStore }

func (r *mockProfileRepo) Upsert(_ context.Context, p *model.Profile, refresh []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	existing, ok := r.profiles[p.UserID]
	if !ok {
		p.CreatedAt = r.tick()
		r.profiles[p.UserID] = *p
		return nil
	}
	for _, col := range refresh {
		switch col {
		case "display_name":
			existing.DisplayName = p.DisplayName
		case "avatar_url":
			existing.AvatarURL = p.AvatarURL
		}
	}
	r.profiles[p.UserID] = existing
	return nil
}

func (r *mockProfileRepo) GetByID(_ context.Context, userID string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *mockProfileRepo) ListByIDs(_ context.Context, userIDs []string) ([]model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Profile
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *mockProfileRepo) SetRSN(_ context.Context, userID string, rsn *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.RSN = rsn
	r.profiles[userID] = p
	return nil
}

// ── Mock AdminRepository ──

type mockAdminRepo struct{ *memStore }

func (r *mockAdminRepo) Exists(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adminErr != nil {
		return false, r.adminErr
	}
	_, ok := r.admins[userID]
	return ok, nil
}

func (r *mockAdminRepo) Add(_ context.Context, a *model.AppAdmin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[a.UserID]; !ok {
		a.CreatedAt = r.tick()
		r.admins[a.UserID] = *a
	}
	return nil
}

func (r *mockAdminRepo) Remove(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.admins[userID]
	delete(r.admins, userID)
	return ok, nil
}

func (r *mockAdminRepo) List(_ context.Context) ([]model.AppAdmin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AppAdmin, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ── Mock TeamRepository ──

type mockTeamRepo struct{ *memStore }

func (r *mockTeamRepo) Create(_ context.Context, t *model.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	for _, existing := range r.teams {
		if existing.JoinCode == t.JoinCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.TeamID == "" {
		t.TeamID = r.nextID("team")
	}
	t.CreatedAt = r.tick()
	r.teams[t.TeamID] = *t
	return nil
}

func (r *mockTeamRepo) GetByID(_ context.Context, teamID string) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	t, ok := r.teams[teamID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *mockTeamRepo) GetByJoinCode(_ context.Context, code string) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.JoinCode == code {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTeamRepo) ListAll(_ context.Context) ([]model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *mockTeamRepo) BatchStats(_ context.Context, teamIDs []string) (map[string]repository.TeamStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := make(map[string]repository.TeamStats)
	for _, id := range teamIDs {
		var s repository.TeamStats
		for _, m := range r.members {
			if m.TeamID == id {
				s.Members++
			}
		}
		for _, sq := range r.squares {
			if sq.TeamID == id {
				s.Squares++
			}
		}
		for _, c := range r.claims {
			if c.TeamID == id && c.Status == model.ClaimPending {
				s.PendingClaims++
			}
		}
		stats[id] = s
	}
	return stats, nil
}

func (r *mockTeamRepo) DeleteCascade(_ context.Context, teamID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[teamID]; !ok {
		return false, nil
	}
	for k, sq := range r.squares {
		if sq.TeamID != teamID {
			continue
		}
		for ik, in := range r.interests {
			if in.SquareID == sq.SquareID {
				delete(r.interests, ik)
			}
		}
		delete(r.squares, k)
	}
	for k, c := range r.claims {
		if c.TeamID == teamID {
			delete(r.claims, k)
		}
	}
	for k, m := range r.members {
		if m.TeamID == teamID {
			delete(r.members, k)
		}
	}
	delete(r.teams, teamID)
	return true, nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct{ *memStore }

func (r *mockMemberRepo) Add(_ context.Context, m *model.TeamMember) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(m.TeamID, m.UserID)
	if _, ok := r.members[key]; ok {
		return false, nil
	}
	m.CreatedAt = r.tick()
	r.members[key] = *m
	return true, nil
}

func (r *mockMemberRepo) Remove(_ context.Context, teamID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, pairKey(teamID, userID))
	return nil
}

func (r *mockMemberRepo) Exists(_ context.Context, teamID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return false, r.storeErr
	}
	_, ok := r.members[pairKey(teamID, userID)]
	return ok, nil
}

func (r *mockMemberRepo) ListByUser(_ context.Context, userID string) ([]model.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TeamMember
	for _, m := range r.members {
		if m.UserID != userID {
			continue
		}
		if t, ok := r.teams[m.TeamID]; ok {
			m.Team = &t
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *mockMemberRepo) ListByTeam(_ context.Context, teamID string) ([]model.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TeamMember
	for _, m := range r.members {
		if m.TeamID != teamID {
			continue
		}
		if p, ok := r.profiles[m.UserID]; ok {
			m.Profile = &p
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ── Mock SquareRepository ──

type mockSquareRepo struct{ *memStore }

func (r *mockSquareRepo) GetByID(_ context.Context, squareID string) (*model.Square, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	sq, ok := r.squares[squareID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sq.Rules = copyRules(sq.Rules)
	return &sq, nil
}

func (r *mockSquareRepo) ListByTeam(_ context.Context, teamID string) ([]model.Square, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Square
	for _, sq := range r.squares {
		if sq.TeamID == teamID {
			out = append(out, sq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *mockSquareRepo) CountByTeam(_ context.Context, teamID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sq := range r.squares {
		if sq.TeamID == teamID {
			n++
		}
	}
	return n, nil
}

func (r *mockSquareRepo) findCode(teamID, code string) (string, bool) {
	for id, sq := range r.squares {
		if sq.TeamID == teamID && sq.Code == code {
			return id, true
		}
	}
	return "", false
}

func (r *mockSquareRepo) BatchCreate(_ context.Context, squares []model.Square) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sq := range squares {
		if _, ok := r.findCode(sq.TeamID, sq.Code); ok {
			return gorm.ErrDuplicatedKey
		}
	}
	for i := range squares {
		if squares[i].SquareID == "" {
			squares[i].SquareID = r.nextID("sq")
		}
		r.squares[squares[i].SquareID] = squares[i]
	}
	return nil
}

func (r *mockSquareRepo) UpsertDefaults(_ context.Context, squares []model.Square) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sq := range squares {
		if id, ok := r.findCode(sq.TeamID, sq.Code); ok {
			existing := r.squares[id]
			existing.Title = sq.Title
			existing.Requirement = sq.Requirement
			existing.Description = sq.Description
			existing.ImageURL = sq.ImageURL
			existing.Rules = sq.Rules
			existing.Completed = false
			existing.CompletedBy = nil
			existing.CompletedAt = nil
			r.squares[id] = existing
			continue
		}
		sq.SquareID = r.nextID("sq")
		r.squares[sq.SquareID] = sq
	}
	return nil
}

func (r *mockSquareRepo) UpdateContent(_ context.Context, squareID string, p *repository.SquarePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.squares[squareID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Title != nil {
		existing.Title = *p.Title
	}
	if p.Requirement != nil {
		existing.Requirement = *p.Requirement
	}
	if p.Description != nil {
		existing.Description = *p.Description
	}
	if p.ClearImage {
		existing.ImageURL = nil
	} else if p.ImageURL != nil {
		u := *p.ImageURL
		existing.ImageURL = &u
	}
	if p.Rules != nil {
		existing.Rules = copyRules(p.Rules)
	}
	r.squares[squareID] = existing
	return nil
}

func (r *mockSquareRepo) MarkCompleted(_ context.Context, squareID, userID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sq, ok := r.squares[squareID]
	if !ok || sq.Completed {
		return false, nil
	}
	sq.Completed = true
	sq.CompletedBy = &userID
	sq.CompletedAt = &at
	r.squares[squareID] = sq
	return true, nil
}

func (r *mockSquareRepo) ClearCompleted(_ context.Context, squareID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sq, ok := r.squares[squareID]
	if !ok {
		return nil
	}
	sq.Completed = false
	sq.CompletedBy = nil
	sq.CompletedAt = nil
	r.squares[squareID] = sq
	return nil
}

func copyRules(in model.JSONMap) model.JSONMap {
	out := make(model.JSONMap, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ── Mock ClaimRepository ──

type mockClaimRepo struct{ *memStore }

func (r *mockClaimRepo) Create(_ context.Context, c *model.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	if c.ClaimID == "" {
		c.ClaimID = r.nextID("claim")
	}
	c.CreatedAt = r.tick()
	r.claims[c.ClaimID] = *c
	return nil
}

func (r *mockClaimRepo) GetByID(_ context.Context, claimID string) (*model.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[claimID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *mockClaimRepo) Review(_ context.Context, claimID string, status model.ClaimStatus, reviewerID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[claimID]
	if !ok || c.Status != model.ClaimPending {
		return pkgerrors.ErrOptimisticLock
	}
	c.Status = status
	c.ReviewedBy = &reviewerID
	c.ReviewedAt = &at
	r.claims[claimID] = c
	return nil
}

func (r *mockClaimRepo) sorted(match func(model.Claim) bool) []model.Claim {
	var out []model.Claim
	for _, c := range r.claims {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *mockClaimRepo) ListBySquare(_ context.Context, squareID string) ([]model.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(c model.Claim) bool { return c.SquareID == squareID }), nil
}

func (r *mockClaimRepo) LatestForUser(_ context.Context, squareID, userID string) (*model.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(c model.Claim) bool { return c.SquareID == squareID && c.UserID == userID })
	if len(out) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &out[0], nil
}

func (r *mockClaimRepo) ListPending(_ context.Context, teamID string, offset, limit int) ([]model.Claim, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(c model.Claim) bool {
		return c.Status == model.ClaimPending && (teamID == "" || c.TeamID == teamID)
	})
	total := int64(len(out))
	if offset >= len(out) {
		return []model.Claim{}, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *mockClaimRepo) ExistsByImagePath(_ context.Context, imagePath string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.ImagePath == imagePath {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock InterestRepository ──

type mockInterestRepo struct{ *memStore }

func (r *mockInterestRepo) Toggle(_ context.Context, squareID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(squareID, userID)
	if _, ok := r.interests[key]; ok {
		delete(r.interests, key)
		return false, nil
	}
	r.interests[key] = model.SquareInterest{SquareID: squareID, UserID: userID, CreatedAt: r.tick()}
	return true, nil
}

func (r *mockInterestRepo) list(match func(model.SquareInterest) bool) []model.SquareInterest {
	var out []model.SquareInterest
	for _, in := range r.interests {
		if match(in) {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *mockInterestRepo) ListBySquare(_ context.Context, squareID string) ([]model.SquareInterest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(in model.SquareInterest) bool { return in.SquareID == squareID }), nil
}

func (r *mockInterestRepo) ListByTeam(_ context.Context, teamID string) ([]model.SquareInterest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(in model.SquareInterest) bool {
		sq, ok := r.squares[in.SquareID]
		return ok && sq.TeamID == teamID
	}), nil
}
