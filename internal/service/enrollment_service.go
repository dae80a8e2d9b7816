package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"bailemos/internal/middleware"
	"bailemos/internal/models"
	"bailemos/internal/notifications"
	"bailemos/internal/observability"
	"bailemos/internal/repository"
	"bailemos/internal/storage"
	"bailemos/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// EnrollmentNotifier is the notification surface the enrollment workflow needs.
type EnrollmentNotifier interface {
	NotifyNewEnrollment(ctx context.Context, academy models.Contact, a notifications.Applicant, voucher storage.Ref) notifications.Delivery
	NotifyDecision(ctx context.Context, applicant models.Contact, academyName string, approved bool) notifications.Delivery
}

// ArtifactStore persists and resolves enrollment vouchers.
type ArtifactStore interface {
	Decode(payload string) (*storage.Inline, error)
	Write(ctx context.Context, id string, in *storage.Inline) (storage.Ref, error)
	ResolveURL(ref storage.Ref) *string
	Remove(ref string) error
}

// EnrollInput is an applicant's submission.
type EnrollInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IDNumber string `json:"idNumber"`
	// Voucher is a data:image/...;base64 URL or an http(s) link.
	Voucher string `json:"voucherImage,omitempty"`
}

// EnrollmentView is the projection returned to academies and admins.
type EnrollmentView struct {
	ID         string                  `json:"id"`
	AcademyID  string                  `json:"academyId"`
	UserID     *string                 `json:"userId"`
	FullName   string                  `json:"fullName"`
	Phone      string                  `json:"phone"`
	Email      string                  `json:"email"`
	IDNumber   string                  `json:"idNumber"`
	VoucherURL *string                 `json:"voucherUrl"`
	Status     models.EnrollmentStatus `json:"status"`
	ReviewedAt *time.Time              `json:"reviewedAt"`
	ReviewedBy *string                 `json:"reviewedBy"`
	Applicant  *models.Profile         `json:"applicant,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// MyEnrollmentStatus answers "am I enrolled at this academy?".
type MyEnrollmentStatus struct {
	Enrolled bool                     `json:"enrolled"`
	Status   *models.EnrollmentStatus `json:"status"`
}

// EnrollmentService runs the pending -> approved|rejected workflow.
type EnrollmentService struct {
	enrollments   repository.EnrollmentRepository
	users         repository.UserRepository
	artifacts     ArtifactStore
	notifier      EnrollmentNotifier
	notifyTimeout time.Duration
	now           func() time.Time

	inflight sync.WaitGroup
}

// NewEnrollmentService returns a new EnrollmentService. A nil notifier disables
// notifications.
func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	users repository.UserRepository,
	artifacts ArtifactStore,
	notifier EnrollmentNotifier,
	notifyTimeout time.Duration,
) *EnrollmentService {
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &EnrollmentService{
		enrollments:   enrollments,
		users:         users,
		artifacts:     artifacts,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Enroll submits an application to academyID on behalf of caller.
func (s *EnrollmentService) Enroll(ctx context.Context, academyID string, caller Caller, in EnrollInput) (*models.Enrollment, error) {
	ctx, span := observability.StartServiceSpan(ctx, "enrollment", "Enroll",
		attribute.String("academy.id", academyID))
	defer span.End()

	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.Voucher = strings.TrimSpace(in.Voucher)

	if err := validation.Required(
		"fullName", in.FullName,
		"phone", in.Phone,
		"email", in.Email,
		"idNumber", in.IDNumber,
	); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	academy, err := loadAcademy(ctx, s.users, academyID)
	if err != nil {
		return nil, err
	}

	if caller.ID != "" {
		active, err := s.enrollments.FindActive(ctx, academyID, caller.ID)
		if err != nil {
			return nil, err
		}
		if active != nil {
			observability.EnrollmentSubmissions.WithLabelValues("conflict").Inc()
			return nil, models.NewConflictError("Already enrolled or enrollment pending for this academy")
		}
	}

	enrollment := &models.Enrollment{
		AcademyID: academyID,
		FullName:  in.FullName,
		Phone:     in.Phone,
		Email:     in.Email,
		IDNumber:  in.IDNumber,
		Status:    models.EnrollmentStatusPending,
	}
	if caller.ID != "" {
		uid := caller.ID
		enrollment.UserID = &uid
	}

	var inline *storage.Inline
	switch {
	case in.Voucher == "":
	case storage.IsExternalURL(in.Voucher):
		enrollment.VoucherURL = in.Voucher
	default:
		if inline, err = s.artifacts.Decode(in.Voucher); err != nil {
			return nil, err
		}
	}

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if hasCode(err, models.CodeConflict) {
			observability.EnrollmentSubmissions.WithLabelValues("conflict").Inc()
		}
		span.SetError(err)
		return nil, err
	}

	if inline != nil {
		if err := s.attachVoucher(ctx, enrollment, inline); err != nil {
			span.SetError(err)
			return nil, err
		}
	}

	observability.EnrollmentSubmissions.WithLabelValues("created").Inc()
	middleware.Logger.InfoContext(ctx, "enrollment submitted",
		"enrollment_id", enrollment.ID, "academy_id", academyID, "user_id", caller.ID)

	applicant := notifications.Applicant{
		EnrollmentID: enrollment.ID,
		FullName:     enrollment.FullName,
		Email:        enrollment.Email,
		Phone:        enrollment.Phone,
		IDNumber:     enrollment.IDNumber,
	}
	ref := voucherRef(enrollment)
	contact := academy.Contact()
	s.dispatch(ctx, "notify_new_enrollment", enrollment.ID, func(nctx context.Context) notifications.Delivery {
		return s.notifier.NotifyNewEnrollment(nctx, contact, applicant, ref)
	})

	return enrollment, nil
}

// attachVoucher is the second write of an inline submission: the file is named
// by the new enrollment id. On failure the half-created enrollment is removed
// so the applicant can retry.
func (s *EnrollmentService) attachVoucher(ctx context.Context, e *models.Enrollment, inline *storage.Inline) error {
	ref, err := s.artifacts.Write(ctx, e.ID, inline)
	if err == nil {
		if err = s.enrollments.SetVoucherPath(ctx, e.ID, ref.Path); err != nil {
			_ = s.artifacts.Remove(ref.Path)
		}
	}
	if err != nil {
		if delErr := s.enrollments.Delete(ctx, e.ID); delErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to roll back enrollment", "enrollment_id", e.ID, "error", delErr)
		}
		return err
	}
	e.VoucherPath = ref.Path
	return nil
}

// Decide moves a pending enrollment to approved or rejected. Only the academy
// itself may decide.
func (s *EnrollmentService) Decide(ctx context.Context, academyID, enrollmentID string, caller Caller, decision models.EnrollmentStatus) (*models.Enrollment, error) {
	ctx, span := observability.StartServiceSpan(ctx, "enrollment", "Decide",
		attribute.String("academy.id", academyID),
		attribute.String("enrollment.id", enrollmentID),
		attribute.String("enrollment.decision", string(decision)))
	defer span.End()

	if !caller.Is(academyID) {
		return nil, models.NewForbiddenError("Not authorized to review enrollments for this academy")
	}
	if !decision.Valid() {
		return nil, models.NewValidationError("status must be one of approved, rejected")
	}

	current, err := s.enrollments.GetForAcademy(ctx, academyID, enrollmentID)
	if err != nil {
		return nil, err
	}
	// Only pending -> approved and pending -> rejected are transitions.
	if current.Status != models.EnrollmentStatusPending || !decision.IsDecision() {
		return nil, models.NewInvalidStateError("Enrollment is not pending")
	}

	academy, err := loadAcademy(ctx, s.users, academyID)
	if err != nil {
		return nil, err
	}

	updated, err := s.enrollments.Review(ctx, repository.ReviewInput{
		EnrollmentID: enrollmentID,
		AcademyID:    academyID,
		Status:       decision,
		ReviewerID:   caller.ID,
		ReviewedAt:   s.now(),
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	observability.EnrollmentTransitions.WithLabelValues(string(decision)).Inc()
	middleware.Logger.InfoContext(ctx, "enrollment reviewed",
		"enrollment_id", enrollmentID, "academy_id", academyID, "status", decision)

	contact := applicantContact(updated)
	academyName := academy.Name
	approved := decision == models.EnrollmentStatusApproved
	s.dispatch(ctx, "notify_enrollment_decision", enrollmentID, func(nctx context.Context) notifications.Delivery {
		return s.notifier.NotifyDecision(nctx, contact, academyName, approved)
	})

	return updated, nil
}

// List returns an academy's enrollments, newest first, optionally filtered by
// status. statusFilter may be empty.
func (s *EnrollmentService) List(ctx context.Context, academyID string, caller Caller, statusFilter string) ([]EnrollmentView, error) {
	if !caller.Is(academyID) && !caller.IsAdmin() {
		return nil, models.NewForbiddenError("Not authorized to view enrollments for this academy")
	}

	var status *models.EnrollmentStatus
	if statusFilter != "" {
		st := models.EnrollmentStatus(strings.ToLower(strings.TrimSpace(statusFilter)))
		if !st.Valid() {
			return nil, models.NewValidationError("status must be one of pending, approved, rejected")
		}
		status = &st
	}

	rows, err := s.enrollments.ListByAcademy(ctx, academyID, status)
	if err != nil {
		return nil, err
	}
	out := make([]EnrollmentView, 0, len(rows))
	for i := range rows {
		out = append(out, s.view(&rows[i]))
	}
	return out, nil
}

// ListOwn lists the enrollments of the calling academy.
func (s *EnrollmentService) ListOwn(ctx context.Context, caller Caller, statusFilter string) ([]EnrollmentView, error) {
	if caller.Role != models.RoleAcademy {
		return nil, models.NewForbiddenError("Only academies have enrollments")
	}
	return s.List(ctx, caller.ID, caller, statusFilter)
}

// Get returns one enrollment of the academy.
func (s *EnrollmentService) Get(ctx context.Context, academyID, enrollmentID string, caller Caller) (*EnrollmentView, error) {
	if !caller.Is(academyID) && !caller.IsAdmin() {
		return nil, models.NewForbiddenError("Not authorized to view enrollments for this academy")
	}
	e, err := s.enrollments.GetForAcademy(ctx, academyID, enrollmentID)
	if err != nil {
		return nil, err
	}
	v := s.view(e)
	return &v, nil
}

// MyStatus reports the caller's most recently updated enrollment at academyID.
func (s *EnrollmentService) MyStatus(ctx context.Context, academyID string, caller Caller) (*MyEnrollmentStatus, error) {
	latest, err := s.enrollments.LatestForApplicant(ctx, academyID, caller.ID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &MyEnrollmentStatus{}, nil
	}
	status := latest.Status
	return &MyEnrollmentStatus{
		Enrolled: status == models.EnrollmentStatusApproved,
		Status:   &status,
	}, nil
}

// Wait blocks until every notification dispatched so far has finished.
func (s *EnrollmentService) Wait() {
	s.inflight.Wait()
}

func (s *EnrollmentService) view(e *models.Enrollment) EnrollmentView {
	v := EnrollmentView{
		ID:         e.ID,
		AcademyID:  e.AcademyID,
		UserID:     e.UserID,
		FullName:   e.FullName,
		Phone:      e.Phone,
		Email:      e.Email,
		IDNumber:   e.IDNumber,
		VoucherURL: s.artifacts.ResolveURL(voucherRef(e)),
		Status:     e.Status,
		ReviewedAt: e.ReviewedAt,
		ReviewedBy: e.ReviewedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.User != nil {
		p := e.User.Account().Profile()
		v.Applicant = &p
	}
	return v
}

// dispatch runs a notification in the background, detached from the request
// but bounded by the notify timeout.
func (s *EnrollmentService) dispatch(ctx context.Context, operation, enrollmentID string, send func(context.Context) notifications.Delivery) {
	if s.notifier == nil {
		return
	}
	fields := map[string]interface{}{"enrollment_id": enrollmentID}
	bg := observability.WithCorrelationID(context.Background(), observability.ExtractCorrelationID(ctx))

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		nctx, cancel := context.WithTimeout(bg, s.notifyTimeout)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				observability.LogAsyncOperationError(nctx, operation, fmt.Errorf("panic: %v", r), fields)
				middleware.Logger.ErrorContext(nctx, "notification dispatch panicked",
					"operation", operation, "enrollment_id", enrollmentID, "stack", string(debug.Stack()))
			}
		}()

		observability.LogAsyncOperationStart(nctx, operation, fields)
		d := send(nctx)
		fields["push"] = d.Push
		fields["email"] = d.Email
		fields["realtime"] = d.Realtime
		observability.LogAsyncOperationEnd(nctx, operation, fields)
	}()
}

func voucherRef(e *models.Enrollment) storage.Ref {
	if e.VoucherPath != "" {
		return storage.Ref{Path: e.VoucherPath}
	}
	return storage.Ref{URL: e.VoucherURL}
}

// applicantContact routes the decision to the address typed on the form and
// the device of the linked account, if any.
func applicantContact(e *models.Enrollment) models.Contact {
	c := models.Contact{Name: e.FullName, Email: e.Email}
	if e.User != nil {
		c.UserID = e.User.ID
		c.DeviceToken = e.User.DeviceToken
	} else if e.UserID != nil {
		c.UserID = *e.UserID
	}
	return c
}
