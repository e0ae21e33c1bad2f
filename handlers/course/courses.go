package course

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/response"
	"github.com/gradglobe/counsel-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseHandler handles catalog course requests
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	UniversityID  uint     `json:"university_id" validate:"required,min=1"`
	Name          string   `json:"name" validate:"required,min=3,max=255"`
	Level         string   `json:"level" validate:"required,min=2,max=50"`
	Faculty       string   `json:"faculty" validate:"required,min=2,max=255"`
	DurationYears int      `json:"duration_years" validate:"required,min=1,max=10"`
	TuitionFee    float64  `json:"tuition_fee" validate:"gte=0"`
	IELTSOverall  float64  `json:"ielts_overall" validate:"gte=0,lte=9"`
	IELTSMinBand  float64  `json:"ielts_min_band" validate:"gte=0,lte=9"`
	Scholarships  []string `json:"scholarships" validate:"omitempty,dive,min=1"`
}

// ListCourses handles GET /api/courses with search/faculty/level/ieltsScore filters
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	page, limit = response.ClampPageLimit(page, limit)
	search := c.Query("search", "")
	faculty := c.Query("faculty", "")
	level := c.Query("level", "")
	ieltsScore := c.Query("ieltsScore", "")

	query := h.db.Model(&model.Course{})

	if search != "" {
		query = query.Where("name ILIKE ? OR faculty ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if faculty != "" {
		query = query.Where("faculty = ?", faculty)
	}

	if level != "" {
		query = query.Where("level = ?", level)
	}

	if ieltsScore != "" {
		// Exact numeric match on the overall band, e.g. "6.5" matches
		// 6.5 and nothing else.
		score, err := strconv.ParseFloat(ieltsScore, 64)
		if err != nil {
			return response.BadRequest(c, "ieltsScore must be a number")
		}
		query = query.Where("ielts_overall = ?", score)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count courses")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var courses []model.Course
	if err := query.Preload("University").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	// A course whose university no longer resolves is a data error,
	// not something to silently drop from the catalog.
	for i := range courses {
		if courses[i].University.ID == 0 {
			return response.InternalServerError(c, "Catalog data inconsistent")
		}
	}

	return response.Paginated(c, courses, pagination)
}

// GetCourse handles GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.Preload("University").First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if course.University.ID == 0 {
		return response.InternalServerError(c, "Catalog data inconsistent")
	}

	return response.Success(c, course)
}

// CreateCourse handles POST /api/courses (admin only)
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	// The owning university must exist before the course is created
	var university model.University
	if err := h.db.First(&university, req.UniversityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "University not found")
		}
		return response.InternalServerError(c, "Failed to verify university")
	}

	course := model.Course{
		UniversityID:  req.UniversityID,
		Name:          req.Name,
		Level:         req.Level,
		Faculty:       req.Faculty,
		DurationYears: req.DurationYears,
		TuitionFee:    req.TuitionFee,
		IELTSOverall:  req.IELTSOverall,
		IELTSMinBand:  req.IELTSMinBand,
	}

	if len(req.Scholarships) > 0 {
		data, err := json.Marshal(req.Scholarships)
		if err != nil {
			return response.BadRequest(c, "Invalid scholarships list")
		}
		course.Scholarships = datatypes.JSON(data)
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	course.University = university
	return response.Created(c, course)
}
