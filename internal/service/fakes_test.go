package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
)

type fakeEvents struct {
	mu     sync.Mutex
	events map[uint]domain.Event
}

func newFakeEvents(events ...domain.Event) *fakeEvents {
	f := &fakeEvents{events: map[uint]domain.Event{}}
	for _, e := range events {
		f.events[e.ID] = e
	}
	return f
}

func (f *fakeEvents) FindByID(_ context.Context, id uint) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEvents) FindActive(_ context.Context) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.events {
		if e.Active {
			return e, nil
		}
	}
	return domain.Event{}, repository.ErrNoActiveEvent
}

func (f *fakeEvents) Activate(_ context.Context, id uint) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	if target.Retired() {
		return domain.Event{}, repository.ErrEventRetired
	}

	for eid, e := range f.events {
		e.Active = false
		f.events[eid] = e
	}
	target.Active = true
	f.events[id] = target

	return target, nil
}

func (f *fakeEvents) activeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, e := range f.events {
		if e.Active {
			n++
		}
	}
	return n
}

type fakeStalls struct {
	mu     sync.Mutex
	stalls map[uint]domain.Stall
}

func newFakeStalls(stalls ...domain.Stall) *fakeStalls {
	f := &fakeStalls{stalls: map[uint]domain.Stall{}}
	for _, s := range stalls {
		f.stalls[s.ID] = s
	}
	return f
}

func (f *fakeStalls) FindByID(_ context.Context, id uint) (domain.Stall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.stalls[id]
	if !ok {
		return domain.Stall{}, repository.ErrStallNotFound
	}
	return s, nil
}

func (f *fakeStalls) UpdateToken(_ context.Context, id uint, token string, issuedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.stalls[id]
	if !ok {
		return repository.ErrStallNotFound
	}
	s.Token = token
	s.TokenIssuedAt = &issuedAt
	f.stalls[id] = s
	return nil
}

type fakeUsers struct {
	mu         sync.Mutex
	users      map[uint]domain.User
	volunteers map[uint]domain.Volunteer
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:      map[uint]domain.User{},
		volunteers: map[uint]domain.Volunteer{},
	}
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsers) CreateVolunteer(_ context.Context, volunteer domain.Volunteer) (domain.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	volunteer.ID = uint(len(f.volunteers) + 1)
	f.volunteers[volunteer.ID] = volunteer
	return volunteer, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUsers) FindVolunteerByID(_ context.Context, id uint) (domain.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.volunteers[id]
	if !ok {
		return domain.Volunteer{}, repository.ErrVolunteerNotFound
	}
	return v, nil
}

func (f *fakeUsers) FindVolunteerByEmail(_ context.Context, email string) (domain.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range f.volunteers {
		if v.Email == email {
			return v, nil
		}
	}
	return domain.Volunteer{}, repository.ErrVolunteerNotFound
}

// fakeLedger widens the read-then-insert window so unserialized callers
// would interleave.
type fakeLedger struct {
	mu      sync.Mutex
	records []domain.AttendanceRecord
	delay   time.Duration
}

func (f *fakeLedger) Append(_ context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record.ID = uint(len(f.records) + 1)
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeLedger) FindLatest(_ context.Context, eventID, studentID uint) (*domain.AttendanceRecord, error) {
	history := f.history(eventID, studentID)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if len(history) == 0 {
		return nil, nil
	}
	latest := history[len(history)-1]
	return &latest, nil
}

func (f *fakeLedger) FindHistory(_ context.Context, eventID, studentID uint) ([]domain.AttendanceRecord, error) {
	return f.history(eventID, studentID), nil
}

func (f *fakeLedger) HasCheckIn(_ context.Context, eventID, studentID uint) (bool, error) {
	return domain.EverCheckedIn(f.history(eventID, studentID)), nil
}

func (f *fakeLedger) history(eventID, studentID uint) []domain.AttendanceRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.AttendanceRecord
	for _, r := range f.records {
		if r.EventID == eventID && r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ScannedAt.Equal(out[j].ScannedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScannedAt.Before(out[j].ScannedAt)
	})
	return out
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.records)
}

type fakeSubmissions struct {
	mu       sync.Mutex
	feedback []domain.Feedback
	votes    []domain.Vote
}

func (f *fakeSubmissions) FeedbackExists(_ context.Context, eventID, studentID, stallID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fb := range f.feedback {
		if fb.EventID == eventID && fb.StudentID == studentID && fb.StallID == stallID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubmissions) VoteExists(_ context.Context, eventID, studentID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range f.votes {
		if v.EventID == eventID && v.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubmissions) CreateFeedback(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	if exists, _ := f.FeedbackExists(ctx, fb.EventID, fb.StudentID, fb.StallID); exists {
		return domain.Feedback{}, repository.ErrAlreadySubmitted
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fb.ID = uint(len(f.feedback) + 1)
	f.feedback = append(f.feedback, fb)
	return fb, nil
}

func (f *fakeSubmissions) CreateVote(ctx context.Context, v domain.Vote) (domain.Vote, error) {
	if exists, _ := f.VoteExists(ctx, v.EventID, v.StudentID); exists {
		return domain.Vote{}, repository.ErrAlreadySubmitted
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	v.ID = uint(len(f.votes) + 1)
	f.votes = append(f.votes, v)
	return v, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	notices []broadcast.Notice
}

func (p *recordingPublisher) Publish(_ context.Context, n broadcast.Notice) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.notices = append(p.notices, n)
	return nil
}

func (p *recordingPublisher) types() []broadcast.NoticeType {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]broadcast.NoticeType, len(p.notices))
	for i, n := range p.notices {
		out[i] = n.Type
	}
	return out
}
