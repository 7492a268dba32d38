package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/officetime"
)

type LeaveServiceImpl struct {
	leaveRepo leave.Repository
	userRepo  user.Repository

	today func() time.Time
}

func NewLeaveService(leaveRepo leave.Repository, userRepo user.Repository) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		today:     officetime.Today,
	}
}

func toResponse(l leave.Leave) leave.LeaveResponse {
	resp := leave.LeaveResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Type:         string(l.Type),
		Reason:       l.Reason,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		Status:       string(l.Status),
		AdminRemarks: l.AdminRemarks,
		CreatedAt:    l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if l.UserName != nil {
		resp.UserName = *l.UserName
	}
	return resp
}

// Apply implements leave.Service.
func (s *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	usr, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	if startDate.After(endDate) {
		return leave.LeaveResponse{}, leave.ErrInvalidDateRange
	}
	if startDate.Before(s.today()) {
		return leave.LeaveResponse{}, leave.ErrStartDateInPast
	}

	created, err := s.leaveRepo.Create(ctx, leave.Leave{
		UserID:    usr.ID,
		Type:      leave.Type(req.Type),
		Reason:    req.Reason,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave application: %w", err)
	}

	fullName := usr.FullName()
	created.UserName = &fullName

	return toResponse(created), nil
}

// ListByUser implements leave.Service.
func (s *LeaveServiceImpl) ListByUser(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	leaves, err := s.leaveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, toResponse(l))
	}
	return responses, nil
}

// ListPending implements leave.Service.
func (s *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveResponse, error) {
	leaves, err := s.leaveRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leaves: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, toResponse(l))
	}
	return responses, nil
}

// Review implements leave.Service. A leave application is reviewed exactly
// once; approved and declined are terminal states.
func (s *LeaveServiceImpl) Review(ctx context.Context, req leave.ReviewRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	status := leave.Status(req.Status)
	if status != leave.StatusApproved && status != leave.StatusDeclined {
		return leave.LeaveResponse{}, leave.ErrInvalidReviewStatus
	}

	l, err := s.leaveRepo.GetByID(ctx, req.LeaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if l.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrAlreadyProcessed
	}

	l.Status = status
	l.AdminRemarks = req.AdminRemarks

	// The repository re-checks the pending status; a review that raced past
	// the read above still fails here
	if err := s.leaveRepo.Update(ctx, l); err != nil {
		if errors.Is(err, leave.ErrAlreadyProcessed) {
			return leave.LeaveResponse{}, leave.ErrAlreadyProcessed
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to update leave application: %w", err)
	}

	return toResponse(l), nil
}
