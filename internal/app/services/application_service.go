package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/certificate"
	"github.com/sesi/membership/internal/pkg/email"
	"github.com/sesi/membership/internal/pkg/filestorage"
	"github.com/sesi/membership/internal/pkg/helpers"
	"github.com/sesi/membership/internal/pkg/metrics"
	"github.com/sesi/membership/internal/pkg/notify"
	"github.com/sesi/membership/internal/pkg/validation"
)

// maxAllocationAttempts bounds re-allocation when a number collides with one
// that was stored outside the allocator
const maxAllocationAttempts = 3

// ApplicationService runs the membership application lifecycle
type ApplicationService interface {
	// Submit validates and stores the documents, then records a new application.
	// files is keyed by multipart field name.
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest, files map[string]*multipart.FileHeader) (*dto.SubmitApplicationResponse, error)
	GetPublic(ctx context.Context, id string) (*dto.PublicApplicationView, error)
	Get(ctx context.Context, id string) (*dto.ApplicationDetail, error)
	List(ctx context.Context, status string) ([]dto.ApplicationDetail, error)
	// UpdateStatus applies a review. The first move into approved also
	// allocates a number, issues the certificate and creates the member.
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, reviewer string) (*dto.UpdateStatusResponse, error)
}

type applicationServiceImpl struct {
	applications repositories.ApplicationStore
	allocator    repositories.NumberAllocator
	members      repositories.MemberStore
	reference    repositories.ReferenceStore
	storage      filestorage.Storage
	renderer     certificate.Renderer
	notifier     notify.Notifier
	templates    email.Templates
	metrics      *metrics.Metrics
	logger       zerolog.Logger

	publicBaseURL string
	now           func() time.Time
}

// NewApplicationService creates a new ApplicationService. publicBaseURL
// prefixes stored paths in links sent by email.
func NewApplicationService(
	repos *repositories.Repositories,
	storage filestorage.Storage,
	renderer certificate.Renderer,
	notifier notify.Notifier,
	templates email.Templates,
	publicBaseURL string,
	m *metrics.Metrics,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationServiceImpl{
		applications:  repos.Applications,
		allocator:     repos.Allocator,
		members:       repos.Members,
		reference:     repos.Reference,
		storage:       storage,
		renderer:      renderer,
		notifier:      notifier,
		templates:     templates,
		metrics:       m,
		logger:        logger.With().Str("component", "applications").Logger(),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// validateDocuments checks every supplied file before anything is written.
// The first violation is reported.
func validateDocuments(files map[string]*multipart.FileHeader) error {
	for _, slot := range models.DocumentSlots {
		fh := files[slot.Field]
		if fh == nil {
			if slot.Required {
				return apperrors.NewFieldValidationError(apperrors.ErrMissingDocument, slot.Field, slot.Field+" is required").
					WithDetails(map[string]interface{}{"required": models.RequiredDocumentFields()})
			}
			continue
		}
		if err := validation.ValidateUpload(slot.Field, fh.Filename, fh.Size); err != nil {
			return err
		}
	}
	return nil
}

// Submit implements ApplicationService
func (s *applicationServiceImpl) Submit(ctx context.Context, req *dto.SubmitApplicationRequest, files map[string]*multipart.FileHeader) (*dto.SubmitApplicationResponse, error) {
	if err := validateDocuments(files); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	subfolder := filestorage.ApplicationsFolder + "/" + id

	docs, err := s.storeDocuments(ctx, subfolder, files)
	if err != nil {
		return nil, err
	}

	app := s.buildApplication(ctx, id, req, docs)
	if err := s.applications.Create(ctx, app); err != nil {
		s.removeFiles(ctx, docs)
		return nil, fmt.Errorf("error saving application: %w", err)
	}

	s.metrics.IncSubmitted()
	s.logger.Info().Str("applicationID", id).Int("documents", len(docs)).Msg("Membership application submitted")

	summary := email.ApplicationSummary{
		ID:             app.ID,
		FullName:       app.FullName,
		Email:          app.Email,
		Mobile:         app.Mobile,
		MembershipType: app.MembershipType,
		Region:         app.RegionMembership,
		SubmittedAt:    app.SubmittedAt,
	}
	s.send(ctx, app.ID, func() (notify.Message, error) { return s.templates.ApplicationReceived(summary) })
	s.send(ctx, app.ID, func() (notify.Message, error) { return s.templates.ApplicationAlert(summary) })

	return &dto.SubmitApplicationResponse{
		Success:       true,
		Message:       "Application submitted successfully",
		ApplicationID: app.ID,
		Email:         app.Email,
	}, nil
}

// storeDocuments writes the uploads in slot order. On failure everything
// already written for this submission is removed again.
func (s *applicationServiceImpl) storeDocuments(ctx context.Context, subfolder string, files map[string]*multipart.FileHeader) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(models.DocumentSlots))
	for _, slot := range models.DocumentSlots {
		fh := files[slot.Field]
		if fh == nil {
			continue
		}
		path, err := filestorage.SaveFileHeader(ctx, s.storage, fh, subfolder)
		if err != nil {
			s.removeFiles(ctx, docs)
			if errors.Is(err, filestorage.ErrUnreadableUpload) {
				return nil, apperrors.NewFieldValidationError(apperrors.ErrInvalidFile, slot.Field, slot.Field+": "+filestorage.ErrUnreadableUpload.Error())
			}
			return nil, fmt.Errorf("error storing %s: %w", slot.Field, err)
		}
		docs = append(docs, models.Document{
			Kind:         slot.Kind,
			Path:         path,
			OriginalName: fh.Filename,
			Size:         fh.Size,
		})
	}
	return docs, nil
}

func (s *applicationServiceImpl) removeFiles(ctx context.Context, docs []models.Document) {
	// The request may already be cancelled; cleanup must still run.
	ctx = context.WithoutCancel(ctx)
	for _, d := range docs {
		if err := s.storage.Delete(ctx, d.Path); err != nil {
			s.logger.Error().Err(err).Str("path", d.Path).Msg("Failed to remove orphaned upload")
		}
	}
}

func (s *applicationServiceImpl) buildApplication(ctx context.Context, id string, req *dto.SubmitApplicationRequest, docs []models.Document) *models.MembershipApplication {
	middle := helpers.NilIfEmpty(helpers.Deref(req.MiddleName))
	title := strings.TrimSpace(req.Title)
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)

	return &models.MembershipApplication{
		ID:                  id,
		RegionMembership:    strings.TrimSpace(req.RegionMembership),
		MembershipType:      strings.TrimSpace(req.MembershipType),
		Title:               title,
		FirstName:           first,
		MiddleName:          middle,
		LastName:            last,
		FullName:            models.BuildFullName(title, first, middle, last),
		Mobile:              strings.TrimSpace(req.Mobile),
		Email:               strings.TrimSpace(req.Email),
		Gender:              strings.TrimSpace(req.Gender),
		MedicalCouncilRegNo: strings.TrimSpace(req.MedicalCouncilRegNo),
		Qualification:       strings.TrimSpace(req.Qualification),
		CurrentAppointments: helpers.NilIfEmpty(helpers.Deref(req.CurrentAppointments)),
		SpecialisedPractice: helpers.NilIfEmpty(helpers.Deref(req.SpecialisedPractice)),
		YearsExperience:     req.YearsExperience,
		ProposalName1:       strings.TrimSpace(req.ProposalName1),
		ProposalName2:       strings.TrimSpace(req.ProposalName2),
		CommAddress:         s.snapshotAddress(ctx, req.CommAddress, req.CommStateID, req.CommDistrictID, req.CommPincode),
		WorkAddress:         s.snapshotAddress(ctx, req.WorkAddress, req.WorkStateID, req.WorkDistrictID, req.WorkPincode),
		WorkHospital:        helpers.NilIfEmpty(helpers.Deref(req.WorkHospital)),
		Documents:           docs,
		Status:              models.StatusSubmitted,
		SubmittedAt:         s.now().UTC(),
		SchemaVersion:       models.SchemaVersion,
	}
}

// snapshotAddress copies the current state and district names into the
// address. Unknown ids leave the names empty.
func (s *applicationServiceImpl) snapshotAddress(ctx context.Context, line, stateID, districtID, pincode string) models.Address {
	addr := models.Address{
		Line:       strings.TrimSpace(line),
		Country:    models.DefaultCountry,
		StateID:    strings.TrimSpace(stateID),
		DistrictID: strings.TrimSpace(districtID),
		Pincode:    strings.TrimSpace(pincode),
	}

	if st, err := s.reference.GetState(ctx, addr.StateID); err == nil {
		addr.StateName = st.Name
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		s.logger.Warn().Err(err).Str("stateID", addr.StateID).Msg("Could not resolve state name")
	}

	if d, err := s.reference.GetDistrict(ctx, addr.DistrictID); err == nil {
		addr.DistrictName = d.Name
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		s.logger.Warn().Err(err).Str("districtID", addr.DistrictID).Msg("Could not resolve district name")
	}

	return addr
}

// GetPublic implements ApplicationService
func (s *applicationServiceImpl) GetPublic(ctx context.Context, id string) (*dto.PublicApplicationView, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := dto.NewPublicApplicationView(app)
	return &view, nil
}

// Get implements ApplicationService
func (s *applicationServiceImpl) Get(ctx context.Context, id string) (*dto.ApplicationDetail, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := dto.NewApplicationDetail(app)
	return &detail, nil
}

// List implements ApplicationService. An empty status lists everything.
func (s *applicationServiceImpl) List(ctx context.Context, status string) ([]dto.ApplicationDetail, error) {
	var filter models.ApplicationFilter
	if status != "" {
		st, ok := models.ParseApplicationStatus(status)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		filter.Status = &st
	}

	apps, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return dto.NewApplicationDetails(apps), nil
}

// UpdateStatus implements ApplicationService
func (s *applicationServiceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, reviewer string) (*dto.UpdateStatusResponse, error) {
	target, ok := models.ParseApplicationStatus(strings.TrimSpace(req.Status))
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(app.Status, target); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	review := models.Review{
		Status:     target,
		AdminNotes: req.AdminNotes,
		ReviewedAt: now,
		ReviewedBy: reviewer,
	}

	if materializes(app.Status, target) {
		resp, err := s.approve(ctx, id, review, now)
		if !errors.Is(err, apperrors.ErrAlreadyApproved) {
			return resp, err
		}
		// A concurrent request approved it first; this one only stamps the review.
		s.logger.Info().Str("applicationID", id).Msg("Application approved concurrently, recording review only")
	}

	if err := s.applications.UpdateReview(ctx, id, review); err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(target), false)
	s.logger.Info().Str("applicationID", id).Str("status", string(target)).Str("reviewer", reviewer).Msg("Application status updated")

	return &dto.UpdateStatusResponse{
		Success: true,
		Message: fmt.Sprintf("Application status updated to %s", target),
	}, nil
}

// approve runs the materialization steps strictly in order: allocate and
// persist the number, issue the certificate, create the member, notify.
func (s *applicationServiceImpl) approve(ctx context.Context, id string, review models.Review, now time.Time) (*dto.UpdateStatusResponse, error) {
	number, err := s.allocateAndMark(ctx, id, review, now)
	if err != nil {
		return nil, err
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	certPath, pdf, err := s.issueCertificate(ctx, app, number, now)
	if err != nil {
		s.logger.Error().Err(err).Str("applicationID", id).Str("membershipNumber", number).Msg("Certificate generation failed")
		return nil, err
	}

	member, err := s.materializeMember(ctx, app, certPath, now)
	if err != nil {
		s.logger.Error().Err(err).Str("applicationID", id).Str("membershipNumber", number).Msg("Member creation failed")
		return nil, err
	}

	s.metrics.IncTransition(string(models.StatusApproved), true)
	s.logger.Info().
		Str("applicationID", id).
		Str("membershipNumber", number).
		Str("memberID", member.ID).
		Str("reviewer", review.ReviewedBy).
		Msg("Application approved")

	summary := email.ApprovalSummary{
		ApplicationID:    app.ID,
		FullName:         app.FullName,
		Email:            app.Email,
		MembershipType:   app.MembershipType,
		MembershipNumber: number,
		CertificateURL:   s.publicBaseURL + certPath,
		ApprovedAt:       now,
	}
	s.send(ctx, id, func() (notify.Message, error) {
		return s.templates.Approval(summary, certificate.FileName(number), pdf)
	})
	s.send(ctx, id, func() (notify.Message, error) { return s.templates.ApprovalAdmin(summary) })

	return &dto.UpdateStatusResponse{
		Success:          true,
		Message:          fmt.Sprintf("Application approved! Membership number %s generated. Member profile created.", number),
		MembershipNumber: number,
		CertificatePath:  certPath,
		MemberID:         member.ID,
	}, nil
}

// allocateAndMark allocates a number and compare-and-sets the approval. A
// number that is already stored elsewhere is skipped and a fresh one drawn.
func (s *applicationServiceImpl) allocateAndMark(ctx context.Context, id string, review models.Review, now time.Time) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		number, err := s.allocator.Allocate(ctx, now.Year())
		if err != nil {
			return "", err
		}
		s.metrics.IncAllocated()

		err = s.applications.MarkApproved(ctx, id, models.Approval{
			Review:           review,
			MembershipNumber: number,
			ApprovedAt:       now,
		})
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, apperrors.ErrMembershipNumberTaken) {
			return "", err
		}

		s.metrics.IncAllocationRetry()
		s.logger.Warn().Str("applicationID", id).Str("membershipNumber", number).Int("attempt", attempt).
			Msg("Membership number already in use, allocating another")
		lastErr = err
	}
	return "", fmt.Errorf("could not allocate a free membership number after %d attempts: %w", maxAllocationAttempts, lastErr)
}

func (s *applicationServiceImpl) issueCertificate(ctx context.Context, app *models.MembershipApplication, number string, now time.Time) (string, []byte, error) {
	pdf, err := s.renderer.Render(ctx, certificate.Data{
		FullName:         app.FullName,
		Qualification:    app.Qualification,
		Hospital:         helpers.Deref(app.WorkHospital),
		MembershipType:   app.MembershipType,
		MembershipNumber: number,
		ApprovalDate:     helpers.FormatApprovalDate(now),
		IssuedAt:         now,
	})
	if err != nil {
		return "", nil, fmt.Errorf("error rendering certificate: %w", err)
	}

	path, err := s.storage.SaveAs(ctx, filestorage.CertificatesFolder, certificate.FileName(number), bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		return "", nil, fmt.Errorf("error storing certificate: %w", err)
	}
	if err := s.applications.SetCertificatePath(ctx, app.ID, path); err != nil {
		return "", nil, err
	}

	s.metrics.IncCertificate()
	return path, pdf, nil
}

// materializeMember creates the member for an approved application. The
// unique application_id makes a repeated call return the existing member.
func (s *applicationServiceImpl) materializeMember(ctx context.Context, app *models.MembershipApplication, certPath string, now time.Time) (*models.Member, error) {
	member := models.MemberFromApplication(uuid.NewString(), app, certPath, now)
	err := s.members.Create(ctx, member)
	if err == nil {
		return member, nil
	}
	if errors.Is(err, apperrors.ErrMemberAlreadyExists) {
		if existing, getErr := s.members.GetByApplicationID(ctx, app.ID); getErr == nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("error creating member: %w", err)
}

// send builds a message and hands it to the notifier. Template failures are
// logged; they never fail the calling operation.
func (s *applicationServiceImpl) send(ctx context.Context, applicationID string, build func() (notify.Message, error)) {
	msg, err := build()
	if err != nil {
		s.logger.Error().Err(err).Str("applicationID", applicationID).Msg("Failed to build notification")
		return
	}
	s.notifier.Notify(ctx, msg)
}
