package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Office-hours policy, compared as time-of-day only. The policy is the same
// every calendar day.
const (
	OfficeStart = 9 * time.Hour
	OnTimeLimit = 9*time.Hour + 15*time.Minute
	LastCheckIn = 9*time.Hour + 30*time.Minute
	OfficeEnd   = 17 * time.Hour
)

// Store is the persistence surface the state machine needs.
type Store interface {
	InsertRecord(ctx context.Context, rec Record) (Record, error)
	LatestRecord(ctx context.Context, empID string) (*Record, error)
	GetEmployee(ctx context.Context, empID string) (*Employee, error)
	ListRecordsInRange(ctx context.Context, empID string, start, end time.Time) ([]Record, error)
}

// Locker serializes submissions per employee so two concurrent uploads
// cannot both pass the latest-record check and double-insert a transition.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Decision is the outcome of a submission. Rejections are soft: Record is
// nil and Message explains why nothing was written.
type Decision struct {
	Accepted bool
	Message  string
	Record   *Record
}

// Service is the attendance state machine. Per employee, accepted records
// alternate strictly Check-in, Check-out, Check-in, ... starting with
// Check-in.
type Service struct {
	store  Store
	locker Locker
}

// NewService creates the state machine over a store and a per-employee
// locker.
func NewService(store Store, locker Locker) *Service {
	return &Service{store: store, locker: locker}
}

// Submit decides whether now is a valid Check-in or Check-out for the
// employee, and persists the accepted transition.
func (s *Service) Submit(ctx context.Context, empID string, now time.Time) (Decision, error) {
	if empID == "" {
		return Decision{}, errors.New("emp id required")
	}

	unlock, err := s.locker.Lock(ctx, empID)
	if err != nil {
		return Decision{}, fmt.Errorf("acquire submission lock: %w", err)
	}
	defer unlock()

	tod := sinceMidnight(now)
	if tod < OfficeStart {
		return Decision{Message: "Too early for attendance. Office starts at 9:00 AM"}, nil
	}

	last, err := s.store.LatestRecord(ctx, empID)
	if err != nil {
		return Decision{}, err
	}

	var status Status
	var timing TimingStatus
	if last == nil || last.Status == StatusCheckOut {
		if tod > LastCheckIn {
			return Decision{Message: "Check-in not allowed after 09:30 AM"}, nil
		}
		status = StatusCheckIn
		if tod <= OnTimeLimit {
			timing = TimingOnTime
		} else {
			timing = TimingLate
		}
	} else {
		if tod < OfficeEnd {
			return Decision{Message: "Early check-out not allowed. Office ends at 5:00 PM"}, nil
		}
		status = StatusCheckOut
		timing = TimingNA
	}

	name := "Unknown"
	if emp, err := s.store.GetEmployee(ctx, empID); err != nil {
		return Decision{}, err
	} else if emp != nil {
		name = emp.Name
	}

	rec, err := s.store.InsertRecord(ctx, Record{
		EmpID:        empID,
		EmpName:      name,
		Timestamp:    Timestamp{now},
		Status:       status,
		TimingStatus: timing,
		RecordedTime: now.Format("15:04:05"),
	})
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		Accepted: true,
		Message:  fmt.Sprintf("%s recorded for %s (%s)", status, name, empID),
		Record:   &rec,
	}, nil
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
