package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrApplicationNotFound is returned when an application id does not resolve
var ErrApplicationNotFound = errors.New("application not found")

// ValidationError carries per-field validation failures for a request
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Fields))
}

const genericSubmitMessage = "Your application has been submitted. A counsellor will contact you within 6 working hours."

// ApplicationService validates and persists study-abroad applications
// and emits the notifications tied to their lifecycle.
type ApplicationService struct {
	db            *gorm.DB
	notifications *NotificationService
	validator     *validation.Validator
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB, notifications *NotificationService) *ApplicationService {
	return &ApplicationService{
		db:            db,
		notifications: notifications,
		validator:     validation.NewValidator(),
	}
}

// SubmitApplicationRequest is the submission payload. Any caller-supplied
// status is ignored; the persisted status is always the initial constant.
type SubmitApplicationRequest struct {
	FullName        string `json:"full_name" validate:"required,min=2,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,min=5,max=50"`
	SelectedCourses []uint `json:"selected_courses" validate:"required,min=1,dive,gt=0"`
	Notes           string `json:"notes" validate:"omitempty,max=5000"`
	Status          string `json:"status"`
}

// Submit validates and persists a new application, then emits a
// best-effort submission notification for the owning user.
func (s *ApplicationService) Submit(ctx context.Context, userID string, req SubmitApplicationRequest) (*model.Application, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Fields: validation.FormatValidationErrors(err)}
	}

	selectedJSON, err := json.Marshal(req.SelectedCourses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal selected courses: %w", err)
	}

	application := &model.Application{
		UserID:          userID,
		FullName:        validation.SanitizeString(req.FullName),
		Email:           validation.SanitizeString(req.Email),
		Phone:           validation.SanitizeString(req.Phone),
		SelectedCourses: datatypes.JSON(selectedJSON),
		Notes:           req.Notes,
		Status:          model.ApplicationStatusSubmitted,
	}

	if err := s.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create application %s/%s: %w", userID, req.FullName, err)
	}

	// Submission notification is a best-effort side effect: its failure
	// is logged and must never fail the submission itself.
	message := genericSubmitMessage
	if course, err := s.lookupCourse(ctx, req.SelectedCourses[0]); err == nil {
		message = fmt.Sprintf(
			"Your application to %q for %s has been submitted. A counsellor will contact you within 6 working hours.",
			course.University.Name, course.Name,
		)
	} else {
		log.Printf("submit application %d: course lookup failed, using generic message: %v", application.ID, err)
	}

	if _, err := s.notifications.Create(ctx, CreateNotificationRequest{
		UserID:  userID,
		Type:    model.NotificationTypeApplication,
		Title:   "Application received",
		Message: message,
	}); err != nil {
		log.Printf("submit application %d: notification failed: %v", application.ID, err)
	}

	return application, nil
}

// UpdateStatus sets a new status on an application and notifies the
// owning user. The notification is part of the operation's contract:
// its failure fails the call.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID uint, newStatus string) (*model.Application, error) {
	var application model.Application
	if err := s.db.WithContext(ctx).First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application %d: %w", applicationID, err)
	}

	if err := s.db.WithContext(ctx).Model(&application).Update("status", newStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to update status of application %d: %w", applicationID, err)
	}
	application.Status = newStatus

	// Resolve a human-readable descriptor for the notification;
	// falls back when the course or university no longer resolves.
	descriptor := "your application"
	if ids := application.CourseIDs(); len(ids) > 0 {
		if course, err := s.lookupCourse(ctx, ids[0]); err == nil {
			descriptor = fmt.Sprintf("%s at %s", course.Name, course.University.Name)
		}
	}

	_, err := s.notifications.Create(ctx, CreateNotificationRequest{
		UserID:  application.UserID,
		Type:    model.NotificationTypeStatus,
		Title:   "Application status updated",
		Message: fmt.Sprintf("Your application status for %s has been updated to: %s", descriptor, newStatus),
	})
	if err != nil {
		return nil, fmt.Errorf("status updated but notification failed for application %d: %w", applicationID, err)
	}

	return &application, nil
}

// ListForUser returns a user's applications, newest first, with every
// still-existing selected course resolved to its name and university.
// Missing course ids are omitted from the enrichment, not errors.
func (s *ApplicationService) ListForUser(ctx context.Context, userID string) ([]model.ApplicationResponse, error) {
	var applications []model.Application
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for user %s: %w", userID, err)
	}

	// Collect every referenced course id across all applications and
	// resolve them in a single query.
	idSet := make(map[uint]struct{})
	for i := range applications {
		for _, id := range applications[i].CourseIDs() {
			idSet[id] = struct{}{}
		}
	}

	courseByID := make(map[uint]model.Course, len(idSet))
	if len(idSet) > 0 {
		ids := make([]uint, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}

		var courses []model.Course
		if err := s.db.WithContext(ctx).Preload("University").Where("id IN ?", ids).Find(&courses).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve courses for user %s: %w", userID, err)
		}
		for _, course := range courses {
			courseByID[course.ID] = course
		}
	}

	responses := make([]model.ApplicationResponse, 0, len(applications))
	for i := range applications {
		app := &applications[i]

		resolved := make([]model.ApplicationCourse, 0)
		for _, id := range app.CourseIDs() {
			course, ok := courseByID[id]
			if !ok {
				continue
			}
			resolved = append(resolved, model.ApplicationCourse{
				CourseID:       course.ID,
				CourseName:     course.Name,
				UniversityName: course.University.Name,
			})
		}

		responses = append(responses, model.ApplicationResponse{
			ID:              app.ID,
			FullName:        app.FullName,
			Email:           app.Email,
			Phone:           app.Phone,
			SelectedCourses: resolved,
			Notes:           app.Notes,
			Status:          app.Status,
			CreatedAt:       app.CreatedAt,
			UpdatedAt:       app.UpdatedAt,
		})
	}

	return responses, nil
}

// lookupCourse loads a course with its university joined in
func (s *ApplicationService) lookupCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).Preload("University").First(&course, courseID).Error; err != nil {
		return nil, err
	}
	if course.University.ID == 0 {
		return nil, fmt.Errorf("course %d references missing university %d", course.ID, course.UniversityID)
	}
	return &course, nil
}
