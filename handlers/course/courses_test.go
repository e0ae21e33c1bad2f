package course

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/response"
)

type courseListBody struct {
	Success    bool                    `json:"success"`
	Data       []model.Course          `json:"data"`
	Pagination response.PaginationMeta `json:"pagination"`
}

func newCourseTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.University{},
		&model.Course{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler := NewCourseHandler(db)
	app := fiber.New()
	app.Get("/api/courses", handler.ListCourses)
	app.Get("/api/courses/:id", handler.GetCourse)

	return app, db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	university := model.University{Name: "Harborview University", City: "Harborview", Country: "Testland"}
	require.NoError(t, db.Create(&university).Error)

	courses := []model.Course{
		{UniversityID: university.ID, Name: "Data Science", Level: "Master", Faculty: "Science", IELTSOverall: 6.5},
		{UniversityID: university.ID, Name: "Law", Level: "Bachelor", Faculty: "Law", IELTSOverall: 7.0},
		{UniversityID: university.ID, Name: "Nursing", Level: "Bachelor", Faculty: "Medicine", IELTSOverall: 6.0},
	}
	require.NoError(t, db.Create(&courses).Error)
}

func getCourses(t *testing.T, app *fiber.App, target string) (int, courseListBody) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body courseListBody
	if resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestListCoursesIELTSExactMatch(t *testing.T) {
	app, db := newCourseTestApp(t)
	seedCatalog(t, db)

	status, body := getCourses(t, app, "/api/courses?ieltsScore=6.5")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body.Data, 1)
	require.Equal(t, "Data Science", body.Data[0].Name)
	require.Equal(t, 6.5, body.Data[0].IELTSOverall)

	// A band nobody requires matches nothing, not the nearest value
	status, body = getCourses(t, app, "/api/courses?ieltsScore=6.4")
	require.Equal(t, fiber.StatusOK, status)
	require.Empty(t, body.Data)
}

func TestListCoursesRejectsNonNumericIELTS(t *testing.T) {
	app, db := newCourseTestApp(t)
	seedCatalog(t, db)

	status, _ := getCourses(t, app, "/api/courses?ieltsScore=six")
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestListCoursesLevelAndFacultyFilters(t *testing.T) {
	app, db := newCourseTestApp(t)
	seedCatalog(t, db)

	status, body := getCourses(t, app, "/api/courses?level=Bachelor")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body.Data, 2)

	status, body = getCourses(t, app, "/api/courses?level=Bachelor&faculty=Medicine")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body.Data, 1)
	require.Equal(t, "Nursing", body.Data[0].Name)
}

func TestListCoursesClampsPagination(t *testing.T) {
	app, db := newCourseTestApp(t)
	seedCatalog(t, db)

	// Out-of-range paging values are clamped for the query and the
	// metadata alike: page=0 still returns the first page, and the
	// reported per_page matches what was fetched.
	status, body := getCourses(t, app, "/api/courses?page=0&limit=500")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body.Data, 3)
	require.Equal(t, 1, body.Pagination.CurrentPage)
	require.Equal(t, 100, body.Pagination.PerPage)
	require.EqualValues(t, 3, body.Pagination.Total)
}

func TestGetCourseJoinsUniversity(t *testing.T) {
	app, db := newCourseTestApp(t)
	seedCatalog(t, db)

	var course model.Course
	require.NoError(t, db.First(&course, "name = ?", "Law").Error)

	req := httptest.NewRequest(fiber.MethodGet, "/api/courses/"+strconv.FormatUint(uint64(course.ID), 10), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data model.Course `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Law", body.Data.Name)
	require.Equal(t, "Harborview University", body.Data.University.Name)

	req = httptest.NewRequest(fiber.MethodGet, "/api/courses/9999", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
