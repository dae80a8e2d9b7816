package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bailemos/internal/geo"
	"bailemos/internal/models"
	"bailemos/internal/notifications"
	"bailemos/internal/repository"
	"bailemos/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enrollmentRepoStub struct {
	createFn                func(context.Context, *models.Enrollment) error
	setVoucherPathFn        func(context.Context, string, string) error
	deleteFn                func(context.Context, string) error
	findActiveFn            func(context.Context, string, string) (*models.Enrollment, error)
	getForAcademyFn         func(context.Context, string, string) (*models.Enrollment, error)
	listByAcademyFn         func(context.Context, string, *models.EnrollmentStatus) ([]models.Enrollment, error)
	latestForApplicantFn    func(context.Context, string, string) (*models.Enrollment, error)
	latestApprovedForUserFn func(context.Context, string) (*models.Enrollment, error)
	reviewFn                func(context.Context, repository.ReviewInput) (*models.Enrollment, error)
}

func (s *enrollmentRepoStub) Create(ctx context.Context, e *models.Enrollment) error {
	return s.createFn(ctx, e)
}
func (s *enrollmentRepoStub) SetVoucherPath(ctx context.Context, id, path string) error {
	return s.setVoucherPathFn(ctx, id, path)
}
func (s *enrollmentRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *enrollmentRepoStub) FindActive(ctx context.Context, academyID, userID string) (*models.Enrollment, error) {
	return s.findActiveFn(ctx, academyID, userID)
}
func (s *enrollmentRepoStub) GetForAcademy(ctx context.Context, academyID, id string) (*models.Enrollment, error) {
	return s.getForAcademyFn(ctx, academyID, id)
}
func (s *enrollmentRepoStub) ListByAcademy(ctx context.Context, academyID string, status *models.EnrollmentStatus) ([]models.Enrollment, error) {
	return s.listByAcademyFn(ctx, academyID, status)
}
func (s *enrollmentRepoStub) LatestForApplicant(ctx context.Context, academyID, userID string) (*models.Enrollment, error) {
	return s.latestForApplicantFn(ctx, academyID, userID)
}
func (s *enrollmentRepoStub) LatestApprovedForUser(ctx context.Context, userID string) (*models.Enrollment, error) {
	return s.latestApprovedForUserFn(ctx, userID)
}
func (s *enrollmentRepoStub) Review(ctx context.Context, in repository.ReviewInput) (*models.Enrollment, error) {
	return s.reviewFn(ctx, in)
}

func noopEnrollmentRepo() *enrollmentRepoStub {
	return &enrollmentRepoStub{
		createFn:         func(context.Context, *models.Enrollment) error { return nil },
		setVoucherPathFn: func(context.Context, string, string) error { return nil },
		deleteFn:         func(context.Context, string) error { return nil },
		findActiveFn: func(context.Context, string, string) (*models.Enrollment, error) {
			return nil, nil
		},
		getForAcademyFn: func(_ context.Context, _, id string) (*models.Enrollment, error) {
			return nil, models.NewNotFoundError("Enrollment", id)
		},
		listByAcademyFn: func(context.Context, string, *models.EnrollmentStatus) ([]models.Enrollment, error) {
			return nil, nil
		},
		latestForApplicantFn: func(context.Context, string, string) (*models.Enrollment, error) {
			return nil, nil
		},
		latestApprovedForUserFn: func(context.Context, string) (*models.Enrollment, error) {
			return nil, nil
		},
		reviewFn: func(context.Context, repository.ReviewInput) (*models.Enrollment, error) {
			return nil, errors.New("unexpected review")
		},
	}
}

type userRepoStub struct {
	getByIDFn          func(context.Context, string) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFieldsFn     func(context.Context, string, map[string]interface{}) (*models.User, error)
	updateScheduleFn   func(context.Context, string, models.WeeklySchedule) error
	updatePricesFn     func(context.Context, string, []models.PriceOption) error
	listByRoleFn       func(context.Context, models.Role) ([]models.User, error)
	listByRoleWithinFn func(context.Context, models.Role, geo.Box) ([]models.User, error)
	addStudentFn       func(context.Context, string, string) error
	listStudentsFn     func(context.Context, string) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *userRepoStub) UpdateSchedule(ctx context.Context, id string, schedule models.WeeklySchedule) error {
	return s.updateScheduleFn(ctx, id, schedule)
}
func (s *userRepoStub) UpdatePrices(ctx context.Context, id string, prices []models.PriceOption) error {
	return s.updatePricesFn(ctx, id, prices)
}
func (s *userRepoStub) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.listByRoleFn(ctx, role)
}
func (s *userRepoStub) ListByRoleWithin(ctx context.Context, role models.Role, box geo.Box) ([]models.User, error) {
	return s.listByRoleWithinFn(ctx, role, box)
}
func (s *userRepoStub) AddStudent(ctx context.Context, academyID, userID string) error {
	return s.addStudentFn(ctx, academyID, userID)
}
func (s *userRepoStub) ListStudents(ctx context.Context, academyID string) ([]models.User, error) {
	return s.listStudentsFn(ctx, academyID)
}

// noopUserRepo knows exactly the given users.
func noopUserRepo(users ...*models.User) *userRepoStub {
	byID := map[string]*models.User{}
	for _, u := range users {
		byID[u.ID] = u
	}
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			if u, ok := byID[id]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, models.NewNotFoundError("User", id)
		},
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
		updateFieldsFn: func(_ context.Context, id string, _ map[string]interface{}) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		},
		updateScheduleFn: func(context.Context, string, models.WeeklySchedule) error { return nil },
		updatePricesFn:   func(context.Context, string, []models.PriceOption) error { return nil },
		listByRoleFn: func(context.Context, models.Role) ([]models.User, error) {
			return nil, nil
		},
		listByRoleWithinFn: func(context.Context, models.Role, geo.Box) ([]models.User, error) {
			return nil, nil
		},
		addStudentFn: func(context.Context, string, string) error { return nil },
		listStudentsFn: func(context.Context, string) ([]models.User, error) {
			return nil, nil
		},
	}
}

type fakeArtifacts struct {
	mu       sync.Mutex
	decodeFn func(string) (*storage.Inline, error)
	writeFn  func(context.Context, string, *storage.Inline) (storage.Ref, error)
	removed  []string
}

func newFakeArtifacts() *fakeArtifacts {
	return &fakeArtifacts{
		decodeFn: func(string) (*storage.Inline, error) {
			return &storage.Inline{Ext: "png", Content: []byte("png")}, nil
		},
		writeFn: func(_ context.Context, id string, in *storage.Inline) (storage.Ref, error) {
			return storage.Ref{Path: "uploads/enrollments/" + id + "." + in.Ext}, nil
		},
	}
}

func (f *fakeArtifacts) Decode(payload string) (*storage.Inline, error) {
	return f.decodeFn(payload)
}
func (f *fakeArtifacts) Write(ctx context.Context, id string, in *storage.Inline) (storage.Ref, error) {
	return f.writeFn(ctx, id, in)
}
func (f *fakeArtifacts) ResolveURL(ref storage.Ref) *string {
	switch {
	case ref.URL != "":
		return &ref.URL
	case ref.Path != "":
		u := "http://localhost:5000/" + ref.Path
		return &u
	}
	return nil
}
func (f *fakeArtifacts) Remove(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	return nil
}

type newEnrollmentCall struct {
	Academy   models.Contact
	Applicant notifications.Applicant
	Voucher   storage.Ref
}

type decisionCall struct {
	Applicant   models.Contact
	AcademyName string
	Approved    bool
}

type recordingNotifier struct {
	mu        sync.Mutex
	created   []newEnrollmentCall
	decisions []decisionCall
	block     chan struct{}
}

func (n *recordingNotifier) NotifyNewEnrollment(ctx context.Context, academy models.Contact, a notifications.Applicant, voucher storage.Ref) notifications.Delivery {
	n.wait(ctx)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, newEnrollmentCall{Academy: academy, Applicant: a, Voucher: voucher})
	return notifications.Delivery{}
}

func (n *recordingNotifier) NotifyDecision(ctx context.Context, applicant models.Contact, academyName string, approved bool) notifications.Delivery {
	n.wait(ctx)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, decisionCall{Applicant: applicant, AcademyName: academyName, Approved: approved})
	return notifications.Delivery{}
}

func (n *recordingNotifier) wait(ctx context.Context) {
	if n.block == nil {
		return
	}
	select {
	case <-n.block:
	case <-ctx.Done():
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeForbidden)
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}
