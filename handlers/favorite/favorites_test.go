package favorite

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradglobe/counsel-api/model"
)

const favoriteTestUserID = "favorite-test-user"

func newFavoriteTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	// TranslateError surfaces the (user, course) unique-index violation
	// as gorm.ErrDuplicatedKey, same as the Postgres path
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.University{},
		&model.Course{},
		&model.Favorite{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler := NewFavoriteHandler(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", favoriteTestUserID)
		return c.Next()
	})
	app.Get("/api/favorites", handler.ListFavorites)
	app.Post("/api/favorites", handler.AddFavorite)
	app.Delete("/api/favorites/:courseId", handler.RemoveFavorite)

	return app, db
}

func seedFavoriteFixtures(t *testing.T, db *gorm.DB) model.Course {
	t.Helper()

	user := model.User{ID: favoriteTestUserID, Email: "fav@example.com"}
	require.NoError(t, db.Create(&user).Error)

	university := model.University{Name: "Riverbend University", City: "Riverbend", Country: "Testland"}
	require.NoError(t, db.Create(&university).Error)

	course := model.Course{UniversityID: university.ID, Name: "Architecture", Level: "Bachelor", Faculty: "Design"}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func postFavorite(t *testing.T, app *fiber.App, body string) int {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, "/api/favorites", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAddFavoriteDuplicateConflict(t *testing.T) {
	app, db := newFavoriteTestApp(t)
	course := seedFavoriteFixtures(t, db)

	body, err := json.Marshal(fiber.Map{"course_id": course.ID})
	require.NoError(t, err)

	require.Equal(t, fiber.StatusCreated, postFavorite(t, app, string(body)))

	// Saving the same course again violates the (user, course)
	// uniqueness invariant
	require.Equal(t, fiber.StatusConflict, postFavorite(t, app, string(body)))

	var count int64
	require.NoError(t, db.Model(&model.Favorite{}).
		Where("user_id = ? AND course_id = ?", favoriteTestUserID, course.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddFavoriteScopedPerUser(t *testing.T) {
	app, db := newFavoriteTestApp(t)
	course := seedFavoriteFixtures(t, db)

	other := model.User{ID: "someone-else", Email: "else@example.com"}
	require.NoError(t, db.Create(&other).Error)

	body, err := json.Marshal(fiber.Map{"course_id": course.ID})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, postFavorite(t, app, string(body)))

	// The uniqueness is per user: another user saving the same course
	// is not a conflict
	require.NoError(t, db.Create(&model.Favorite{UserID: other.ID, CourseID: course.ID}).Error)
}

func TestAddFavoriteUnknownCourse(t *testing.T) {
	app, db := newFavoriteTestApp(t)
	seedFavoriteFixtures(t, db)

	require.Equal(t, fiber.StatusNotFound, postFavorite(t, app, `{"course_id": 9999}`))
	require.Equal(t, fiber.StatusBadRequest, postFavorite(t, app, `{}`))
}

func TestRemoveFavorite(t *testing.T) {
	app, db := newFavoriteTestApp(t)
	course := seedFavoriteFixtures(t, db)

	require.NoError(t, db.Create(&model.Favorite{UserID: favoriteTestUserID, CourseID: course.ID}).Error)

	req := httptest.NewRequest(fiber.MethodDelete, "/api/favorites/"+strconv.FormatUint(uint64(course.ID), 10), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// Removing an absent favorite is 404
	req = httptest.NewRequest(fiber.MethodDelete, "/api/favorites/"+strconv.FormatUint(uint64(course.ID), 10), nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
