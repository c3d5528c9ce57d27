package service

import (
	"context"
	"strings"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/logger"
	"nestio-backend/internal/repository"
	"nestio-backend/internal/utils"
)

type applicationService struct {
	appRepo  repository.ApplicationRepository
	propRepo repository.PropertyRepository
	userRepo repository.UserRepository
	emailSvc EmailService
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	propRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) ApplicationService {
	return &applicationService{
		appRepo:  appRepo,
		propRepo: propRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
	}
}

func (s *applicationService) Submit(ctx context.Context, caller domain.Caller, propertySlug string, in SubmitApplicationInput) (*domain.Application, error) {
	p, err := s.propRepo.GetBySlug(ctx, propertySlug, false)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrNotFound
	}

	var userID *int64
	if !caller.Anonymous() {
		uid := caller.UserID
		userID = &uid
		// Registered applicants get their contact fields denormalized from
		// the user record unless explicitly overridden.
		if u, err := s.userRepo.GetByID(ctx, uid); err == nil {
			if in.ApplicantName == "" {
				in.ApplicantName = u.Name
			}
			if in.ApplicantEmail == "" {
				in.ApplicantEmail = u.Email
			}
			if in.ApplicantPhone == "" {
				in.ApplicantPhone = u.PhoneNumber
			}
		}
	}

	verr := domain.NewValidationError()
	if strings.TrimSpace(in.ApplicantName) == "" {
		verr.Add("applicant_name", "is required")
	}
	if caller.Anonymous() && strings.TrimSpace(in.ApplicantEmail) == "" {
		verr.Add("applicant_email", "is required for public applications")
	}
	if !verr.Empty() {
		return nil, verr
	}
	identity := domain.ApplicantIdentity(userID, in.ApplicantEmail)

	// Advisory pre-check for a friendly error. The partial unique index in
	// the store is what actually holds under concurrent submissions.
	if pending, err := s.appRepo.HasPending(ctx, p.ID, identity); err != nil {
		return nil, err
	} else if pending {
		return nil, domain.ErrDuplicateApplication
	}

	app := &domain.Application{
		Slug:           utils.ApplicationSlug(in.ApplicantName, p.Slug),
		PropertyID:     p.ID,
		UserID:         userID,
		ApplicantName:  in.ApplicantName,
		ApplicantEmail: in.ApplicantEmail,
		ApplicantPhone: in.ApplicantPhone,
		Identity:       identity,
		Status:         domain.ApplicationStatusPending,
		ProposedRent:   in.ProposedRent,
		MoveInDate:     in.MoveInDate,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if owner, err := s.userRepo.GetByID(ctx, p.OwnerID); err == nil {
		if err := s.emailSvc.SendApplicationReceived(ctx, owner.Email, app.ApplicantName, p.Title); err != nil {
			logger.Warn("failed to notify landlord of new application", "application", app.Slug, "error", err)
		}
	}

	return app, nil
}

func (s *applicationService) Transition(ctx context.Context, caller domain.Caller, applicationSlug string, next domain.ApplicationStatus, notes *string) (*domain.Application, error) {
	app, err := s.appRepo.GetBySlug(ctx, applicationSlug)
	if err != nil {
		return nil, err
	}
	p, err := s.propRepo.GetByID(ctx, app.PropertyID)
	if err != nil {
		return nil, err
	}

	switch next {
	case domain.ApplicationStatusAccepted, domain.ApplicationStatusRejected:
		if p.OwnerID != caller.UserID && !caller.Admin() {
			return nil, domain.ErrForbidden
		}
	case domain.ApplicationStatusWithdrawn:
		if !s.isApplicant(caller, app) {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, &domain.InvalidTransitionError{From: app.Status, To: next}
	}

	if !app.Status.CanTransitionTo(next) {
		return nil, &domain.InvalidTransitionError{From: app.Status, To: next}
	}

	if next == domain.ApplicationStatusAccepted {
		// Both writes, one transaction: application status and the
		// property's availability flip.
		if err := s.appRepo.Accept(ctx, app.ID, p.ID, notes); err != nil {
			return nil, err
		}
	} else {
		if err := s.appRepo.UpdateStatus(ctx, app.ID, next, notes); err != nil {
			return nil, err
		}
	}

	app.Status = next
	if notes != nil {
		app.LandlordNotes = *notes
	}
	s.notifyApplicant(ctx, app, p, next)
	return app, nil
}

func (s *applicationService) Withdraw(ctx context.Context, caller domain.Caller, applicationSlug string) (*domain.Application, error) {
	return s.Transition(ctx, caller, applicationSlug, domain.ApplicationStatusWithdrawn, nil)
}

func (s *applicationService) UpdateDetails(ctx context.Context, caller domain.Caller, applicationSlug string, upd ApplicationUpdate) (*domain.Application, error) {
	app, err := s.appRepo.GetBySlug(ctx, applicationSlug)
	if err != nil {
		return nil, err
	}
	p, err := s.propRepo.GetByID(ctx, app.PropertyID)
	if err != nil {
		return nil, err
	}

	isOwner := p.OwnerID == caller.UserID || caller.Admin()
	if upd.LandlordNotes != nil {
		// Notes stay editable even after a terminal state, owner side only.
		if !isOwner {
			return nil, domain.ErrForbidden
		}
		app.LandlordNotes = *upd.LandlordNotes
	}

	if upd.ProposedRent != nil || upd.MoveInDate != nil {
		if !s.isApplicant(caller, app) && !isOwner {
			return nil, domain.ErrForbidden
		}
		if app.Status != domain.ApplicationStatusPending {
			verr := domain.NewValidationError()
			if upd.ProposedRent != nil {
				verr.Add("proposed_rent", "not editable after the application is resolved")
			}
			if upd.MoveInDate != nil {
				verr.Add("move_in_date", "not editable after the application is resolved")
			}
			return nil, verr
		}
		if upd.ProposedRent != nil {
			app.ProposedRent = upd.ProposedRent
		}
		if upd.MoveInDate != nil {
			app.MoveInDate = upd.MoveInDate
		}
	}

	if err := s.appRepo.UpdateDetails(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ListForProperty(ctx context.Context, caller domain.Caller, propertySlug string, page, pageSize int64) ([]domain.Application, *domain.PageMeta, error) {
	p, err := s.propRepo.GetBySlug(ctx, propertySlug, caller.Admin())
	if err != nil {
		return nil, nil, err
	}
	if p.OwnerID != caller.UserID && !caller.Admin() {
		return nil, nil, domain.ErrForbidden
	}
	page, pageSize = clampPage(page, pageSize)
	apps, total, err := s.appRepo.ListByProperty(ctx, p.ID, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return apps, domain.NewPageMeta(total, page, pageSize), nil
}

func (s *applicationService) ListMine(ctx context.Context, caller domain.Caller, page, pageSize int64) ([]domain.Application, *domain.PageMeta, error) {
	if caller.Anonymous() {
		return nil, nil, domain.ErrForbidden
	}
	uid := caller.UserID
	identity := domain.ApplicantIdentity(&uid, "")
	page, pageSize = clampPage(page, pageSize)
	apps, total, err := s.appRepo.ListByApplicant(ctx, identity, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return apps, domain.NewPageMeta(total, page, pageSize), nil
}

func (s *applicationService) isApplicant(caller domain.Caller, app *domain.Application) bool {
	return app.UserID != nil && !caller.Anonymous() && *app.UserID == caller.UserID
}

func (s *applicationService) notifyApplicant(ctx context.Context, app *domain.Application, p *domain.Property, status domain.ApplicationStatus) {
	if app.ApplicantEmail == "" {
		return
	}
	var err error
	switch status {
	case domain.ApplicationStatusAccepted:
		err = s.emailSvc.SendApplicationAccepted(ctx, app.ApplicantEmail, p.Title)
	case domain.ApplicationStatusRejected:
		err = s.emailSvc.SendApplicationRejected(ctx, app.ApplicantEmail, p.Title)
	default:
		return
	}
	if err != nil {
		logger.Warn("failed to notify applicant", "application", app.Slug, "status", status, "error", err)
	}
}

func clampPage(page, pageSize int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPrivatePageSize {
		pageSize = maxPrivatePageSize
	}
	return page, pageSize
}
