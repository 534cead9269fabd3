// Package memstore is an in-memory repository.Store used by unit tests and
// benchmarks. It honours the same contract as the SQL backends and can inject
// failures into individual operations.
//
// A Tx holds the store-wide mutex from BeginTx until Commit or Rollback, so
// transactions are fully serialised. As with the SQLite backend, calling Store
// methods while holding a Tx from the same goroutine deadlocks.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/repository"
)

// Operation names accepted by InjectFault
const (
	OpBeginTx          = "BeginTx"
	OpCommit           = "Commit"
	OpGetOwnedSegments = "GetOwnedSegments"
	OpAddSegment       = "AddSegment"
	OpAddSegmentsBulk  = "AddSegmentsBulk"
	OpAdjustPoints     = "AdjustPoints"
	OpRecordCompletion = "RecordCompletion"
)

type memberKey struct {
	member, guild int64
}

type completion struct {
	at  time.Time
	seq int64
}

// state is everything a transaction may change
type state struct {
	nextProfileID int64
	nextTxID      int64
	nextSeq       int64
	profiles      map[int64]domain.Profile
	byMember      map[memberKey]int64
	segments      map[int64]map[int]time.Time
	completions   map[int64]completion
	transactions  []domain.Transaction
}

func newState() *state {
	return &state{
		profiles:    make(map[int64]domain.Profile),
		byMember:    make(map[memberKey]int64),
		segments:    make(map[int64]map[int]time.Time),
		completions: make(map[int64]completion),
	}
}

func (s *state) clone() *state {
	c := &state{
		nextProfileID: s.nextProfileID,
		nextTxID:      s.nextTxID,
		nextSeq:       s.nextSeq,
		profiles:      make(map[int64]domain.Profile, len(s.profiles)),
		byMember:      make(map[memberKey]int64, len(s.byMember)),
		segments:      make(map[int64]map[int]time.Time, len(s.segments)),
		completions:   make(map[int64]completion, len(s.completions)),
		transactions:  append([]domain.Transaction(nil), s.transactions...),
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.byMember {
		c.byMember[k] = v
	}
	for id, owned := range s.segments {
		m := make(map[int]time.Time, len(owned))
		for n, at := range owned {
			m[n] = at
		}
		c.segments[id] = m
	}
	for k, v := range s.completions {
		c.completions[k] = v
	}
	return c
}

// Store implements repository.Store in memory
type Store struct {
	mu     sync.Mutex
	state  *state
	faults sync.Map // op -> error
	closed bool
}

var _ repository.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{state: newState()}
}

// InjectFault makes every later call of op fail with err. A nil err clears it.
func (s *Store) InjectFault(op string, err error) {
	if err == nil {
		s.faults.Delete(op)
		return
	}
	s.faults.Store(op, err)
}

func (s *Store) fault(op string) error {
	if v, ok := s.faults.Load(op); ok {
		return v.(error)
	}
	return nil
}

// locked runs fn against the committed state under the store mutex
func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// atomic runs fn on a copy of the state and keeps it only when fn succeeds
func (s *Store) atomic(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) BeginTx(_ context.Context) (repository.Tx, error) {
	if err := s.fault(OpBeginTx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &memTx{store: s, work: s.state.clone()}, nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: store closed", domain.ErrStorageUnavailable)
	}
	return nil
}

func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store) GetOrCreateProfile(_ context.Context, memberID, guildID int64) (*domain.Profile, error) {
	var p domain.Profile
	err := s.locked(func(st *state) error {
		key := memberKey{memberID, guildID}
		if id, ok := st.byMember[key]; ok {
			p = st.profiles[id]
			return nil
		}
		st.nextProfileID++
		p = domain.Profile{ID: st.nextProfileID, MemberID: memberID, GuildID: guildID, CreatedAt: time.Now().UTC()}
		st.profiles[p.ID] = p
		st.byMember[key] = p.ID
		return nil
	})
	return &p, err
}

func (s *Store) GetProfile(_ context.Context, profileID int64) (*domain.Profile, error) {
	var p *domain.Profile
	err := s.locked(func(st *state) error {
		var err error
		p, err = st.getProfile(profileID)
		return err
	})
	return p, err
}

func (s *Store) AdjustPoints(_ context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	if err := s.fault(OpAdjustPoints); err != nil {
		return nil, err
	}
	var p *domain.Profile
	err := s.atomic(func(st *state) error {
		var err error
		p, err = st.adjustPoints(profileID, delta, reason)
		return err
	})
	return p, err
}

func (s *Store) ListTopByPoints(_ context.Context, guildID int64, page domain.Page) ([]domain.Profile, error) {
	var out []domain.Profile
	err := s.locked(func(st *state) error {
		out = st.listTopByPoints(guildID, page)
		return nil
	})
	return out, err
}

func (s *Store) ListTransactions(_ context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := s.locked(func(st *state) error {
		out = st.listTransactions(profileID, page)
		return nil
	})
	return out, err
}

func (s *Store) GetOwnedSegments(_ context.Context, profileID int64) ([]int, error) {
	if err := s.fault(OpGetOwnedSegments); err != nil {
		return nil, err
	}
	var out []int
	err := s.locked(func(st *state) error {
		out = st.ownedSegments(profileID)
		return nil
	})
	return out, err
}

func (s *Store) AddSegment(_ context.Context, profileID int64, number int) error {
	if err := s.fault(OpAddSegment); err != nil {
		return err
	}
	return s.atomic(func(st *state) error { return st.addSegments(profileID, []int{number}) })
}

func (s *Store) AddSegmentsBulk(_ context.Context, profileID int64, numbers []int) error {
	if err := s.fault(OpAddSegmentsBulk); err != nil {
		return err
	}
	return s.atomic(func(st *state) error { return st.addSegments(profileID, numbers) })
}

func (s *Store) RemoveSegment(_ context.Context, profileID int64, number int) (bool, error) {
	var removed bool
	err := s.locked(func(st *state) error {
		removed = st.removeSegment(profileID, number)
		return nil
	})
	return removed, err
}

func (s *Store) GetCompletion(_ context.Context, profileID int64) (*domain.CompletionRecord, error) {
	var c *domain.CompletionRecord
	err := s.locked(func(st *state) error {
		c = st.getCompletion(profileID)
		return nil
	})
	return c, err
}

func (s *Store) RecordCompletion(_ context.Context, profileID int64) (*domain.CompletionRecord, error) {
	if err := s.fault(OpRecordCompletion); err != nil {
		return nil, err
	}
	var c *domain.CompletionRecord
	err := s.atomic(func(st *state) error {
		var err error
		c, err = st.recordCompletion(profileID)
		return err
	})
	return c, err
}

func (s *Store) CountCompletions(_ context.Context, guildID int64) (int, error) {
	var n int
	err := s.locked(func(st *state) error {
		n = len(st.guildCompletions(guildID))
		return nil
	})
	return n, err
}

func (s *Store) ListCompletions(_ context.Context, guildID int64, page domain.Page) ([]domain.CompletionRecord, error) {
	var out []domain.CompletionRecord
	err := s.locked(func(st *state) error {
		all := st.guildCompletions(guildID)
		out = []domain.CompletionRecord{}
		for _, c := range window(all, page) {
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

func (s *Store) ListSegmentCounts(_ context.Context, guildID int64, page domain.Page) ([]domain.SegmentCount, error) {
	var out []domain.SegmentCount
	err := s.locked(func(st *state) error {
		out = st.segmentCounts(guildID, page)
		return nil
	})
	return out, err
}

// ---- state operations ----

func (st *state) getProfile(profileID int64) (*domain.Profile, error) {
	p, ok := st.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	}
	return &p, nil
}

func (st *state) adjustPoints(profileID int64, delta int, reason string) (*domain.Profile, error) {
	p, ok := st.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	}
	if p.Points+delta < 0 {
		return nil, fmt.Errorf("%w: profile %d cannot cover %d", domain.ErrInsufficientFunds, profileID, -delta)
	}
	p.Points += delta
	st.profiles[profileID] = p

	if reason != "" {
		st.nextTxID++
		st.transactions = append(st.transactions, domain.Transaction{
			ID:        st.nextTxID,
			ProfileID: profileID,
			Amount:    delta,
			Reason:    reason,
			Timestamp: time.Now().UTC(),
		})
	}
	return &p, nil
}

func (st *state) listTopByPoints(guildID int64, page domain.Page) []domain.Profile {
	var all []domain.Profile
	for _, p := range st.profiles {
		if p.GuildID == guildID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Points != all[j].Points {
			return all[i].Points > all[j].Points
		}
		return all[i].ID < all[j].ID
	})
	return append([]domain.Profile{}, window(all, page)...)
}

func (st *state) listTransactions(profileID int64, page domain.Page) []domain.Transaction {
	var all []domain.Transaction
	for i := len(st.transactions) - 1; i >= 0; i-- {
		if st.transactions[i].ProfileID == profileID {
			all = append(all, st.transactions[i])
		}
	}
	return append([]domain.Transaction{}, window(all, page)...)
}

func (st *state) ownedSegments(profileID int64) []int {
	owned := make([]int, 0, len(st.segments[profileID]))
	for n := range st.segments[profileID] {
		owned = append(owned, n)
	}
	sort.Ints(owned)
	return owned
}

// addSegments applies all numbers or none of them
func (st *state) addSegments(profileID int64, numbers []int) error {
	if _, ok := st.profiles[profileID]; !ok {
		return fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if n <= 0 {
			return fmt.Errorf("%w: %d", domain.ErrInvalidSegment, n)
		}
		if _, owned := st.segments[profileID][n]; owned || seen[n] {
			return fmt.Errorf("%w: profile %d", domain.ErrDuplicateSegment, profileID)
		}
		seen[n] = true
	}

	if st.segments[profileID] == nil {
		st.segments[profileID] = make(map[int]time.Time)
	}
	now := time.Now().UTC()
	for _, n := range numbers {
		st.segments[profileID][n] = now
	}
	return nil
}

func (st *state) removeSegment(profileID int64, number int) bool {
	if _, ok := st.segments[profileID][number]; !ok {
		return false
	}
	delete(st.segments[profileID], number)
	return true
}

// guildCompletions returns the guild's records in finishing order with positions set
func (st *state) guildCompletions(guildID int64) []domain.CompletionRecord {
	type entry struct {
		rec domain.CompletionRecord
		seq int64
	}
	var entries []entry
	for id, c := range st.completions {
		p := st.profiles[id]
		if p.GuildID != guildID {
			continue
		}
		entries = append(entries, entry{
			rec: domain.CompletionRecord{ProfileID: id, MemberID: p.MemberID, GuildID: p.GuildID, CompletedAt: c.at},
			seq: c.seq,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]domain.CompletionRecord, len(entries))
	for i, e := range entries {
		e.rec.Position = i + 1
		out[i] = e.rec
	}
	return out
}

func (st *state) getCompletion(profileID int64) *domain.CompletionRecord {
	if _, ok := st.completions[profileID]; !ok {
		return nil
	}
	for _, rec := range st.guildCompletions(st.profiles[profileID].GuildID) {
		if rec.ProfileID == profileID {
			r := rec
			return &r
		}
	}
	return nil
}

func (st *state) recordCompletion(profileID int64) (*domain.CompletionRecord, error) {
	if _, ok := st.profiles[profileID]; !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	}
	if _, ok := st.completions[profileID]; ok {
		return nil, fmt.Errorf("%w: profile %d", domain.ErrAlreadyCompleted, profileID)
	}
	st.nextSeq++
	st.completions[profileID] = completion{at: time.Now().UTC(), seq: st.nextSeq}
	return st.getCompletion(profileID), nil
}

func (st *state) segmentCounts(guildID int64, page domain.Page) []domain.SegmentCount {
	var all []domain.SegmentCount
	for id, owned := range st.segments {
		p := st.profiles[id]
		if p.GuildID != guildID || len(owned) == 0 {
			continue
		}
		all = append(all, domain.SegmentCount{ProfileID: id, MemberID: p.MemberID, Owned: len(owned)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Owned != all[j].Owned {
			return all[i].Owned > all[j].Owned
		}
		return all[i].MemberID < all[j].MemberID
	})
	return append([]domain.SegmentCount{}, window(all, page)...)
}

func window[T any](all []T, page domain.Page) []T {
	if page.Offset >= len(all) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[page.Offset:end]
}
