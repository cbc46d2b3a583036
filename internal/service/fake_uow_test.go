package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/events"
	"gymflow-be/pkg/lifecycle"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeState is one committed version of the tables.
type fakeState struct {
	owners   map[uuid.UUID]*entity.Owner
	plans    map[uuid.UUID]*entity.Plan
	members  map[uuid.UUID]*entity.Member
	renewals []*entity.Renewal
	checkins []*entity.CheckinRecord
}

func newFakeState() *fakeState {
	return &fakeState{
		owners:  map[uuid.UUID]*entity.Owner{},
		plans:   map[uuid.UUID]*entity.Plan{},
		members: map[uuid.UUID]*entity.Member{},
	}
}

func (st *fakeState) clone() *fakeState {
	next := newFakeState()
	for id, o := range st.owners {
		c := *o
		next.owners[id] = &c
	}
	for id, p := range st.plans {
		next.plans[id] = copyPlan(p)
	}
	for id, m := range st.members {
		c := *m
		next.members[id] = &c
	}
	for _, r := range st.renewals {
		c := *r
		next.renewals = append(next.renewals, &c)
	}
	for _, r := range st.checkins {
		c := *r
		next.checkins = append(next.checkins, &c)
	}
	return next
}

// fakeStore is an in-memory stand-in for Postgres. A unit of work journals its writes and replays
// them on Commit; Rollback, a failed write or a cancelled context drops them. Reads inside a unit
// see the latest committed state plus the unit's own writes. Locked member reads hold a row lock
// until the unit ends.
type fakeStore struct {
	mu sync.Mutex
	*fakeState

	seq   int
	clock func() time.Time

	// lastLock records the lock mode of the latest locked member read.
	lastLock contract.LockMode
	rowLocks map[uuid.UUID]*sync.RWMutex

	// lostUpdates counts commits on a member whose pointer changed after the unit read it.
	lostUpdates int

	// failures makes the named write return the error, e.g. "checkin.create".
	failures map[string]error

	// beforeCommit runs at the start of every Commit.
	beforeCommit func()
}

var fakeEpoch = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

func newFakeStore() *fakeStore {
	return &fakeStore{
		fakeState: newFakeState(),
		rowLocks:  map[uuid.UUID]*sync.RWMutex{},
		failures:  map[string]error{},
	}
}

// stamp hands out strictly increasing creation times close to the store clock.
func (s *fakeStore) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	base := fakeEpoch
	if s.clock != nil {
		base = s.clock()
	}
	return base.Add(time.Duration(s.seq) * time.Millisecond)
}

func (s *fakeStore) rowLock(id uuid.UUID) *sync.RWMutex {
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.RWMutex{}
		s.rowLocks[id] = l
	}
	return l
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: s}
}

type fakeOp func(st *fakeState) error

type fakeUnitOfWork struct {
	store *fakeStore
	ctx   context.Context
	open  bool

	journal  []fakeOp
	held     []func()
	observed map[uuid.UUID]*uuid.UUID
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.ctx = ctx
	u.open = true
	u.observed = map[uuid.UUID]*uuid.UUID{}
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if !u.open {
		return errors.New("no transaction to commit")
	}
	defer u.end()

	if u.store.beforeCommit != nil {
		u.store.beforeCommit()
	}
	if err := u.ctx.Err(); err != nil {
		return err
	}

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, seen := range u.observed {
		if m, ok := s.members[id]; ok && !sameRenewal(m.CurrentRenewalId, seen) {
			s.lostUpdates++
		}
	}
	next := s.fakeState.clone()
	for _, op := range u.journal {
		if err := op(next); err != nil {
			return err
		}
	}
	s.fakeState = next
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.open {
		u.end()
	}
	return nil
}

func (u *fakeUnitOfWork) end() {
	u.open = false
	u.journal = nil
	u.observed = nil
	for i := len(u.held) - 1; i >= 0; i-- {
		u.held[i]()
	}
	u.held = nil
}

// view must be called with the store mutex held.
func (u *fakeUnitOfWork) view() *fakeState {
	if !u.open {
		return u.store.fakeState
	}
	st := u.store.fakeState.clone()
	for _, op := range u.journal {
		_ = op(st)
	}
	return st
}

func (u *fakeUnitOfWork) read(fn func(st *fakeState)) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	fn(u.view())
}

// write applies op at once outside a unit, like an auto-committed statement.
func (u *fakeUnitOfWork) write(name string, op fakeOp) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[name]; err != nil {
		return err
	}
	if !u.open {
		return op(s.fakeState)
	}
	if err := op(u.view()); err != nil {
		return err
	}
	u.journal = append(u.journal, op)
	return nil
}

func (u *fakeUnitOfWork) lockMember(id uuid.UUID, mode contract.LockMode) {
	s := u.store
	s.mu.Lock()
	s.lastLock = mode
	l := s.rowLock(id)
	s.mu.Unlock()

	if !u.open {
		return
	}
	if _, held := u.observed[id]; held {
		return
	}
	if mode == contract.LockShare {
		l.RLock()
		u.held = append(u.held, l.RUnlock)
	} else {
		l.Lock()
		u.held = append(u.held, l.Unlock)
	}
}

func sameRenewal(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (u *fakeUnitOfWork) OwnerRepository() contract.OwnerRepository     { return fakeOwnerRepo{u} }
func (u *fakeUnitOfWork) PlanRepository() contract.PlanRepository       { return fakePlanRepo{u} }
func (u *fakeUnitOfWork) MemberRepository() contract.MemberRepository   { return fakeMemberRepo{u} }
func (u *fakeUnitOfWork) RenewalRepository() contract.RenewalRepository { return fakeRenewalRepo{u} }
func (u *fakeUnitOfWork) CheckinRepository() contract.CheckinRepository { return fakeCheckinRepo{u} }

// Owners

type fakeOwnerRepo struct{ u *fakeUnitOfWork }

func (r fakeOwnerRepo) Create(ctx context.Context, owner *entity.Owner) error {
	if owner.CreatedAt.IsZero() {
		owner.CreatedAt = r.u.store.stamp()
	}
	row := *owner
	return r.u.write("owner.create", func(st *fakeState) error {
		for _, o := range st.owners {
			if strings.EqualFold(o.Email, row.Email) {
				return gorm.ErrDuplicatedKey
			}
		}
		c := row
		st.owners[c.Id] = &c
		return nil
	})
}

func (r fakeOwnerRepo) FindByID(ctx context.Context, id uuid.UUID) (found *entity.Owner, err error) {
	r.u.read(func(st *fakeState) {
		if o, ok := st.owners[id]; ok {
			c := *o
			found = &c
		}
	})
	return found, nil
}

func (r fakeOwnerRepo) FindByEmail(ctx context.Context, email string) (found *entity.Owner, err error) {
	r.u.read(func(st *fakeState) {
		for _, o := range st.owners {
			if strings.EqualFold(o.Email, email) {
				c := *o
				found = &c
				return
			}
		}
	})
	return found, nil
}

func (r fakeOwnerRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status lifecycle.OwnerStatus) error {
	return r.u.write("owner.update_status", func(st *fakeState) error {
		if o, ok := st.owners[id]; ok {
			o.SubscriptionStatus = status
		}
		return nil
	})
}

// Plans

type fakePlanRepo struct{ u *fakeUnitOfWork }

func copyPlan(p *entity.Plan) *entity.Plan {
	c := *p
	c.Features = append([]string(nil), p.Features...)
	return &c
}

func (r fakePlanRepo) Create(ctx context.Context, plan *entity.Plan) error {
	plan.CreatedAt = r.u.store.stamp()
	plan.UpdatedAt = plan.CreatedAt
	row := copyPlan(plan)
	return r.u.write("plan.create", func(st *fakeState) error {
		st.plans[row.Id] = copyPlan(row)
		return nil
	})
}

func (r fakePlanRepo) Update(ctx context.Context, plan *entity.Plan) error {
	updatedAt := r.u.store.stamp()
	row := copyPlan(plan)
	return r.u.write("plan.update", func(st *fakeState) error {
		existing, ok := st.plans[row.Id]
		if !ok || existing.OwnerId != row.OwnerId {
			return gorm.ErrRecordNotFound
		}
		c := copyPlan(row)
		c.IsActive = existing.IsActive
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = updatedAt
		st.plans[c.Id] = c
		return nil
	})
}

func (r fakePlanRepo) SetActive(ctx context.Context, ownerId, id uuid.UUID, active bool) error {
	return r.u.write("plan.set_active", func(st *fakeState) error {
		p, ok := st.plans[id]
		if !ok || p.OwnerId != ownerId {
			return gorm.ErrRecordNotFound
		}
		p.IsActive = active
		return nil
	})
}

func (r fakePlanRepo) Delete(ctx context.Context, ownerId, id uuid.UUID) error {
	return r.u.write("plan.delete", func(st *fakeState) error {
		p, ok := st.plans[id]
		if !ok || p.OwnerId != ownerId {
			return gorm.ErrRecordNotFound
		}
		delete(st.plans, id)
		return nil
	})
}

func (r fakePlanRepo) FindByID(ctx context.Context, ownerId, id uuid.UUID) (found *entity.Plan, err error) {
	r.u.read(func(st *fakeState) {
		if p, ok := st.plans[id]; ok && p.OwnerId == ownerId {
			found = copyPlan(p)
		}
	})
	return found, nil
}

func (r fakePlanRepo) FindByName(ctx context.Context, ownerId uuid.UUID, name string) (found *entity.Plan, err error) {
	r.u.read(func(st *fakeState) {
		for _, p := range st.plans {
			if p.OwnerId == ownerId && strings.EqualFold(p.Name, strings.TrimSpace(name)) {
				found = copyPlan(p)
				return
			}
		}
	})
	return found, nil
}

func (r fakePlanRepo) FindAllWithCounts(ctx context.Context, ownerId uuid.UUID) (result []*entity.PlanWithCount, err error) {
	r.u.read(func(st *fakeState) {
		for _, p := range st.plans {
			if p.OwnerId != ownerId {
				continue
			}
			var count int64
			for _, m := range st.members {
				if cr := st.currentRenewal(m); cr != nil && cr.PlanId != nil && *cr.PlanId == p.Id {
					count++
				}
			}
			result = append(result, &entity.PlanWithCount{Plan: *copyPlan(p), MemberCount: count})
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// Members

type fakeMemberRepo struct{ u *fakeUnitOfWork }

func (st *fakeState) currentRenewal(m *entity.Member) *entity.Renewal {
	if m.CurrentRenewalId == nil {
		return nil
	}
	for _, r := range st.renewals {
		if r.Id == *m.CurrentRenewalId {
			c := *r
			return &c
		}
	}
	return nil
}

func (st *fakeState) loadMember(m *entity.Member) *entity.Member {
	c := *m
	c.CurrentRenewal = st.currentRenewal(m)
	return &c
}

func (st *fakeState) derivedStatus(m *entity.Member, today time.Time) lifecycle.Status {
	if m.MembershipStatus == lifecycle.StatusSuspended {
		return lifecycle.StatusSuspended
	}
	cr := st.currentRenewal(m)
	if cr == nil || cr.ExpiryDate.Before(today) {
		return lifecycle.StatusExpired
	}
	return lifecycle.StatusActive
}

func (r fakeMemberRepo) Create(ctx context.Context, member *entity.Member) error {
	member.CreatedAt = r.u.store.stamp()
	member.UpdatedAt = member.CreatedAt
	row := *member
	row.CurrentRenewal = nil
	return r.u.write("member.create", func(st *fakeState) error {
		for _, m := range st.members {
			if strings.EqualFold(m.Email, row.Email) {
				return gorm.ErrDuplicatedKey
			}
		}
		c := row
		st.members[c.Id] = &c
		return nil
	})
}

func (r fakeMemberRepo) FindByID(ctx context.Context, ownerId, id uuid.UUID) (found *entity.Member, err error) {
	r.u.read(func(st *fakeState) {
		if m, ok := st.members[id]; ok && m.OwnerId == ownerId {
			found = st.loadMember(m)
		}
	})
	return found, nil
}

func (r fakeMemberRepo) FindByIDLocked(ctx context.Context, ownerId, id uuid.UUID, lock contract.LockMode) (*entity.Member, error) {
	r.u.lockMember(id, lock)
	found, err := r.FindByID(ctx, ownerId, id)
	if err == nil && r.u.open {
		if _, seen := r.u.observed[id]; !seen {
			var current *uuid.UUID
			if found != nil && found.CurrentRenewalId != nil {
				c := *found.CurrentRenewalId
				current = &c
			}
			r.u.observed[id] = current
		}
	}
	return found, err
}

func (r fakeMemberRepo) FindByEmail(ctx context.Context, email string) (found *entity.Member, err error) {
	r.u.read(func(st *fakeState) {
		for _, m := range st.members {
			if strings.EqualFold(m.Email, email) {
				found = st.loadMember(m)
				return
			}
		}
	})
	return found, nil
}

func (r fakeMemberRepo) MoveCurrentRenewal(ctx context.Context, memberId, renewalId uuid.UUID, membershipType string) error {
	return r.u.write("member.move_current_renewal", func(st *fakeState) error {
		m, ok := st.members[memberId]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		id := renewalId
		m.CurrentRenewalId = &id
		m.MembershipType = membershipType
		m.MembershipStatus = lifecycle.StatusActive
		return nil
	})
}

func (r fakeMemberRepo) UpdateStatus(ctx context.Context, memberId uuid.UUID, status lifecycle.Status) error {
	return r.u.write("member.update_status", func(st *fakeState) error {
		if m, ok := st.members[memberId]; ok {
			m.MembershipStatus = status
		}
		return nil
	})
}

func (r fakeMemberRepo) UpdateCredential(ctx context.Context, memberId uuid.UUID, hash string, mustRotate bool) error {
	return r.u.write("member.update_credential", func(st *fakeState) error {
		if m, ok := st.members[memberId]; ok {
			m.CredentialHash = hash
			m.MustRotateCredential = mustRotate
		}
		return nil
	})
}

func (r fakeMemberRepo) List(ctx context.Context, ownerId uuid.UUID, filter entity.MemberFilter, page entity.PageQuery) ([]*entity.Member, int64, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var matched []*entity.Member
	r.u.read(func(st *fakeState) {
		for _, m := range st.members {
			if m.OwnerId != ownerId {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(m.Name), search) &&
				!strings.Contains(strings.ToLower(m.Email), search) &&
				!strings.Contains(strings.ToLower(m.Phone), search) {
				continue
			}
			if filter.MembershipType != "" && !strings.EqualFold(m.MembershipType, filter.MembershipType) {
				continue
			}
			if filter.Gender != "" && m.Gender != filter.Gender {
				continue
			}
			if filter.MembershipStatus != "" && st.derivedStatus(m, filter.Today) != filter.MembershipStatus {
				continue
			}
			matched = append(matched, st.loadMember(m))
		}
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	return pageOf(matched, page), total, nil
}

func pageOf[T any](items []T, page entity.PageQuery) []T {
	start := page.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (r fakeMemberRepo) FindExpiring(ctx context.Context, ownerId uuid.UUID, from, to time.Time) (result []*entity.Member, err error) {
	r.u.read(func(st *fakeState) {
		for _, m := range st.members {
			if m.OwnerId != ownerId || m.MembershipStatus == lifecycle.StatusSuspended {
				continue
			}
			cr := st.currentRenewal(m)
			if cr == nil || cr.ExpiryDate.Before(from) || cr.ExpiryDate.After(to) {
				continue
			}
			result = append(result, st.loadMember(m))
		}
	})
	sort.Slice(result, func(i, j int) bool {
		return result[i].CurrentRenewal.ExpiryDate.Before(result[j].CurrentRenewal.ExpiryDate)
	})
	return result, nil
}

func (r fakeMemberRepo) CountByStatus(ctx context.Context, ownerId uuid.UUID, today time.Time) (counts entity.MemberStatusCounts, err error) {
	r.u.read(func(st *fakeState) {
		for _, m := range st.members {
			if m.OwnerId != ownerId {
				continue
			}
			switch st.derivedStatus(m, today) {
			case lifecycle.StatusActive:
				counts.Active++
			case lifecycle.StatusExpired:
				counts.Expired++
			case lifecycle.StatusSuspended:
				counts.Suspended++
			}
		}
	})
	return counts, nil
}

// Renewals

type fakeRenewalRepo struct{ u *fakeUnitOfWork }

func (r fakeRenewalRepo) Create(ctx context.Context, renewal *entity.Renewal) error {
	renewal.CreatedAt = r.u.store.stamp()
	row := *renewal
	return r.u.write("renewal.create", func(st *fakeState) error {
		c := row
		st.renewals = append(st.renewals, &c)
		return nil
	})
}

func (r fakeRenewalRepo) FindAllByMember(ctx context.Context, ownerId, memberId uuid.UUID) (result []*entity.Renewal, err error) {
	r.u.read(func(st *fakeState) {
		for i := len(st.renewals) - 1; i >= 0; i-- {
			rn := st.renewals[i]
			if rn.OwnerId == ownerId && rn.MemberId == memberId {
				c := *rn
				result = append(result, &c)
			}
		}
	})
	return result, nil
}

// Check-ins

type fakeCheckinRepo struct{ u *fakeUnitOfWork }

func (r fakeCheckinRepo) Create(ctx context.Context, record *entity.CheckinRecord) error {
	record.CreatedAt = r.u.store.stamp()
	row := *record
	return r.u.write("checkin.create", func(st *fakeState) error {
		c := row
		st.checkins = append(st.checkins, &c)
		return nil
	})
}

func (r fakeCheckinRepo) List(ctx context.Context, ownerId uuid.UUID, filter entity.CheckinFilter, page entity.PageQuery) ([]*entity.CheckinRecord, int64, error) {
	var matched []*entity.CheckinRecord
	r.u.read(func(st *fakeState) {
		for i := len(st.checkins) - 1; i >= 0; i-- {
			c := st.checkins[i]
			if c.OwnerId != ownerId {
				continue
			}
			if filter.MemberId != nil && c.MemberId != *filter.MemberId {
				continue
			}
			if filter.Status != "" && c.Status != filter.Status {
				continue
			}
			cp := *c
			matched = append(matched, &cp)
		}
	})
	return pageOf(matched, page), int64(len(matched)), nil
}

func (r fakeCheckinRepo) CountSince(ctx context.Context, ownerId uuid.UUID, since time.Time, status entity.CheckinStatus) (n int64, err error) {
	r.u.read(func(st *fakeState) {
		for _, c := range st.checkins {
			if c.OwnerId == ownerId && !c.CreatedAt.Before(since) && (status == "" || c.Status == status) {
				n++
			}
		}
	})
	return n, nil
}

// Collaborators

type sentMail struct {
	kind          string
	to            string
	credential    string
	gymName       string
	daysRemaining int
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendWelcome(toEmail, tempCredential, memberName, gymName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: "welcome", to: toEmail, credential: tempCredential, gymName: gymName})
	return nil
}

func (m *fakeMailer) SendExpiryReminder(toEmail, memberName, gymName string, expiryDate time.Time, daysRemaining int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: "reminder", to: toEmail, gymName: gymName, daysRemaining: daysRemaining})
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fakeFeed struct {
	mu       sync.Mutex
	messages []*message.Message
}

func (f *fakeFeed) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages...)
	return nil
}

func (f *fakeFeed) Close() error { return nil }
