package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/scantoken"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
)

type TokenParser interface {
	Parse(raw string) (domain.Claims, error)
}

type SubjectStallRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Stall, error)
}

// ActorRepository resolves both subjects of kind student and scanning actors.
type ActorRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindVolunteerByID(ctx context.Context, id uint) (domain.Volunteer, error)
}

// ScanAuthority validates scanned tokens. It never writes: every rejection
// is a *domain.ScanRejection, every other error is an infrastructure failure.
type ScanAuthority struct {
	parser   TokenParser
	registry ActiveEventReader
	stalls   SubjectStallRepository
	actors   ActorRepository
}

func NewScanAuthority(parser TokenParser, registry ActiveEventReader, stalls SubjectStallRepository, actors ActorRepository) *ScanAuthority {
	return &ScanAuthority{
		parser:   parser,
		registry: registry,
		stalls:   stalls,
		actors:   actors,
	}
}

// Authorize turns a raw token and the scanning actor into an AuthorizedScan.
func (a *ScanAuthority) Authorize(ctx context.Context, raw string, actorID uint, actorKind domain.ActorKind) (domain.AuthorizedScan, error) {
	scope, err := a.ResolveScope(ctx, raw)
	if err != nil {
		return domain.AuthorizedScan{}, err
	}

	if _, err = a.ResolveActor(ctx, actorID, actorKind); err != nil {
		return domain.AuthorizedScan{}, err
	}

	return domain.AuthorizedScan{
		SubjectID:   scope.SubjectID,
		SubjectKind: scope.SubjectKind,
		EventID:     scope.EventID,
		ActorID:     actorID,
		ActorKind:   actorKind,
	}, nil
}

// ResolveScope checks the token, its subject and its event scope, without
// an actor.
func (a *ScanAuthority) ResolveScope(ctx context.Context, raw string) (domain.SubjectScope, error) {
	claims, err := a.parser.Parse(raw)
	if err != nil {
		var invalid *scantoken.InvalidError
		if errors.As(err, &invalid) && invalid.Reason == scantoken.ReasonExpired {
			return domain.SubjectScope{}, domain.Reject(domain.ReasonExpired)
		}

		return domain.SubjectScope{}, domain.Reject(domain.ReasonBadSignature)
	}

	subjectEventID, err := a.resolveSubject(ctx, claims)
	if err != nil {
		return domain.SubjectScope{}, err
	}

	active, err := a.registry.GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrNoActiveEvent) {
			return domain.SubjectScope{}, domain.Reject(domain.ReasonNoActiveEvent)
		}

		return domain.SubjectScope{}, fmt.Errorf("a.registry.GetActive -> %w", err)
	}

	if claims.EventID != active.ID {
		return domain.SubjectScope{}, domain.RejectStaleScope(claims.EventID, active.ID)
	}

	// A stall moved to another event keeps its old token scope.
	if claims.SubjectKind == domain.SubjectStall && subjectEventID != active.ID {
		return domain.SubjectScope{}, domain.RejectStaleScope(subjectEventID, active.ID)
	}

	return domain.SubjectScope{
		SubjectID:   claims.SubjectID,
		SubjectKind: claims.SubjectKind,
		EventID:     claims.EventID,
	}, nil
}

// resolveSubject returns the event a stall belongs to, zero for students.
func (a *ScanAuthority) resolveSubject(ctx context.Context, claims domain.Claims) (uint, error) {
	switch claims.SubjectKind {
	case domain.SubjectStall:
		stall, err := a.stalls.FindByID(ctx, claims.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrStallNotFound) {
				return 0, domain.Reject(domain.ReasonUnknownSubject)
			}

			return 0, fmt.Errorf("a.stalls.FindByID -> %w", err)
		}

		return stall.EventID, nil

	case domain.SubjectStudent:
		student, err := a.actors.FindByID(ctx, claims.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return 0, domain.Reject(domain.ReasonUnknownSubject)
			}

			return 0, fmt.Errorf("a.actors.FindByID -> %w", err)
		}

		if !student.IsStudent() || !student.Active {
			return 0, domain.Reject(domain.ReasonUnknownSubject)
		}

		return 0, nil
	}

	return 0, domain.Reject(domain.ReasonBadSignature)
}

// ResolveActor looks the actor up in the table its kind names. Only active
// volunteers and active admins may scan.
func (a *ScanAuthority) ResolveActor(ctx context.Context, id uint, kind domain.ActorKind) (domain.Actor, error) {
	switch kind {
	case domain.ActorVolunteer:
		volunteer, err := a.actors.FindVolunteerByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrVolunteerNotFound) {
				return domain.Actor{}, domain.Reject(domain.ReasonUnknownActor)
			}

			return domain.Actor{}, fmt.Errorf("a.actors.FindVolunteerByID -> %w", err)
		}

		if !volunteer.Active {
			return domain.Actor{}, domain.Reject(domain.ReasonUnknownActor)
		}

		return domain.Actor{ID: volunteer.ID, Kind: kind, Name: volunteer.Name}, nil

	case domain.ActorUser:
		user, err := a.actors.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domain.Actor{}, domain.Reject(domain.ReasonUnknownActor)
			}

			return domain.Actor{}, fmt.Errorf("a.actors.FindByID -> %w", err)
		}

		if !user.Active || !user.IsPrivileged() {
			return domain.Actor{}, domain.Reject(domain.ReasonUnknownActor)
		}

		return domain.Actor{ID: user.ID, Kind: kind, Name: user.Name, Role: user.Role}, nil
	}

	return domain.Actor{}, domain.Reject(domain.ReasonUnknownActor)
}
