package routers

import (
	"bytes"
	"edhub/config"
	"edhub/database"
	"edhub/logger"
	"edhub/middleware"
	"edhub/models"
	"edhub/utils"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newClient(t *testing.T) *client {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	cfg := &config.Config{JWTKey: "test-secret", JWTTTL: time.Hour, SaltRound: 4, CorsOrigins: "*"}
	log := logger.Nop()
	app := NewApp(cfg, Deps{
		DB:     db,
		Log:    log,
		Mailer: utils.NewMailer("", "EdHub", "noreply@example.com", log),
		Runner: utils.NewCodeRunner("", time.Second),
	}, false)
	return &client{t: t, app: app, db: db, cfg: cfg}
}

func (c *client) do(method, path, token string, body interface{}) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (c *client) register(name, role string) string {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": name + "@example.com", "password": "secret123", "role": role,
	})
	require.Equal(c.t, http.StatusCreated, code, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func lesson(title, kind string, order int) map[string]interface{} {
	l := map[string]interface{}{"title": title, "content": "Lesson content", "type": kind, "order": order}
	if kind == "quiz" {
		l["quiz"] = map[string]interface{}{
			"title":     "Check",
			"questions": []map[string]interface{}{{"question": "1+1?", "options": []string{"1", "2"}, "correctAnswer": 1}},
		}
	}
	return l
}

func (c *client) createCourse(token string, body map[string]interface{}) uint {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/courses", token, body)
	require.Equal(c.t, http.StatusCreated, code, env.Message)
	var data struct {
		ID uint `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &data))
	return data.ID
}

func courseBody(title, category, level string, published bool) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "A thorough course description for testing.",
		"category":    category,
		"level":       level,
		"language":    "English",
		"isPublished": published,
		"lessons":     []interface{}{lesson("A", "text", 1), lesson("B", "video", 2), lesson("C", "quiz", 3)},
	}
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	code, env := c.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Status)

	code, env = c.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Status)
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)
	token := c.register("ada", "student")

	code, env := c.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ada@example.com", me["email"])
	assert.NotContains(t, me, "password")

	code, _ = c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "ada", "email": "ada@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Status)

	code, env = c.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": "x", "email": "bad", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "name")
}

func TestCourseValidationAndRoles(t *testing.T) {
	c := newClient(t)
	student := c.register("stu", "student")
	author := c.register("teach", "instructor")

	code, _ := c.do(http.MethodPost, "/api/courses", "", courseBody("Intro Course", "devops", "beginner", true))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/api/courses", student, courseBody("Intro Course", "devops", "beginner", true))
	assert.Equal(t, http.StatusForbidden, code)

	bad := courseBody("Go", "cooking", "expert", true)
	bad["description"] = "short"
	bad["shortDescription"] = string(bytes.Repeat([]byte("x"), 201))
	bad["lessons"] = []interface{}{
		map[string]interface{}{"title": "", "content": "c", "type": "podcast", "order": -1},
		map[string]interface{}{"title": "Q", "content": "c", "type": "quiz", "order": 1, "quiz": map[string]interface{}{
			"questions": []map[string]interface{}{{"question": "?", "options": []string{"a", "b"}, "correctAnswer": 5}},
		}},
	}
	code, env := c.do(http.MethodPost, "/api/courses", author, bad)
	require.Equal(t, http.StatusBadRequest, code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	for _, key := range []string{
		"title", "description", "shortDescription", "category", "level",
		"lessons[0].title", "lessons[0].type", "lessons[0].order",
		"lessons[1].quiz.questions[0].correctAnswer",
	} {
		assert.Contains(t, fields, key)
	}

	id := c.createCourse(author, courseBody("Intro Course", "devops", "beginner", true))
	other := c.register("other", "instructor")
	code, _ = c.do(http.MethodPut, fmt.Sprintf("/api/courses/%d", id), other, map[string]interface{}{"title": "Taken over"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = c.do(http.MethodPut, fmt.Sprintf("/api/courses/%d", id), author, map[string]interface{}{"featured": true})
	require.Equal(t, http.StatusOK, code)
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, true, updated["featured"])
	assert.Equal(t, "Intro Course", updated["title"])

	code, _ = c.do(http.MethodGet, "/api/courses/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/courses/%d", id), author, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, fmt.Sprintf("/api/courses/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCatalogFilters(t *testing.T) {
	c := newClient(t)
	author := c.register("teach", "instructor")
	c.createCourse(author, courseBody("HTML Basics", "web-development", "beginner", true))
	c.createCourse(author, courseBody("Advanced React", "web-development", "advanced", true))
	c.createCourse(author, courseBody("Draft Beginner Web", "web-development", "beginner", false))
	c.createCourse(author, courseBody("Python for Data Science", "data-science", "beginner", true))
	c.createCourse(author, courseBody("React Native Mobile Development", "mobile-development", "intermediate", true))

	type page struct {
		Courses []struct {
			Title      string                 `json:"title"`
			Lessons    interface{}            `json:"lessons"`
			Instructor map[string]interface{} `json:"instructor"`
		} `json:"courses"`
		Total       int `json:"total"`
		TotalPages  int `json:"totalPages"`
		CurrentPage int `json:"currentPage"`
	}
	list := func(query string) page {
		code, env := c.do(http.MethodGet, "/api/courses"+query, "", nil)
		require.Equal(t, http.StatusOK, code, env.Message)
		var p page
		require.NoError(t, json.Unmarshal(env.Data, &p))
		return p
	}

	p := list("?category=web-development&level=beginner")
	require.Len(t, p.Courses, 1)
	assert.Equal(t, "HTML Basics", p.Courses[0].Title)
	assert.Nil(t, p.Courses[0].Lessons)
	assert.Equal(t, "teach", p.Courses[0].Instructor["name"])

	p = list("?search=python")
	require.Len(t, p.Courses, 1)
	assert.Equal(t, "Python for Data Science", p.Courses[0].Title)

	p = list("?limit=2&page=2")
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Len(t, p.Courses, 2)

	code, _ := c.do(http.MethodGet, "/api/courses?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLearningFlow(t *testing.T) {
	c := newClient(t)
	author := c.register("teach", "instructor")
	student := c.register("stu", "student")
	courseID := c.createCourse(author, courseBody("Complete Me", "devops", "beginner", true))

	code, _ := c.do(http.MethodGet, fmt.Sprintf("/api/courses/%d/lessons", courseID), student, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var progress struct {
		TotalLessons    int `json:"totalLessons"`
		OverallProgress int `json:"overallProgress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	assert.Equal(t, 3, progress.TotalLessons)
	assert.Equal(t, 0, progress.OverallProgress)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	assert.Equal(t, http.StatusConflict, code)
	code, _ = c.do(http.MethodPost, "/api/courses/9999/enroll", student, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/courses/%d/lessons", courseID), student, nil)
	require.Equal(t, http.StatusOK, code)
	var lessons []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &lessons))
	require.Len(t, lessons, 3)

	code, env = c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/lessons/%s/quiz", courseID, lessons[2].ID), student, map[string]interface{}{"answers": []int{1}})
	require.Equal(t, http.StatusOK, code, env.Message)
	var quiz struct {
		Score int `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quiz))
	assert.Equal(t, 100, quiz.Score)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/lessons/%s/run", courseID, lessons[0].ID), student, map[string]interface{}{"code": "print(1)"})
	assert.Equal(t, http.StatusBadRequest, code, "text lessons cannot run code")

	code, _ = c.do(http.MethodPut, fmt.Sprintf("/api/progress/%d/lesson/%s", courseID, lessons[0].ID), student, map[string]interface{}{"timeSpent": -1})
	assert.Equal(t, http.StatusBadRequest, code)

	want := []int{33, 67, 100}
	for i, l := range lessons {
		code, env := c.do(http.MethodPut, fmt.Sprintf("/api/progress/%d/lesson/%s", courseID, l.ID), student, map[string]interface{}{"completed": true, "timeSpent": 10})
		require.Equal(t, http.StatusOK, code, env.Message)
		var res struct {
			Progress struct {
				OverallProgress   int  `json:"overallProgress"`
				CertificateEarned bool `json:"certificateEarned"`
			} `json:"progress"`
			Certificate *struct {
				CertificateNumber string `json:"certificateNumber"`
			} `json:"certificate"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, want[i], res.Progress.OverallProgress)
		assert.Equal(t, i == 2, res.Progress.CertificateEarned)
		assert.Equal(t, i == 2, res.Certificate != nil)
	}

	code, _ = c.do(http.MethodPut, fmt.Sprintf("/api/progress/%d/lesson/%s", courseID, lessons[0].ID), student, map[string]interface{}{"score": 90})
	require.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, "/api/progress/certificates", student, nil)
	require.Equal(t, http.StatusOK, code)
	var certs []struct {
		Course struct {
			Title string `json:"title"`
		} `json:"course"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &certs))
	require.Len(t, certs, 1)
	assert.Equal(t, "Complete Me", certs[0].Course.Title)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/progress/%d", courseID), student, nil)
	require.Equal(t, http.StatusOK, code)
	var one struct {
		CompletedLessons int `json:"completedLessons"`
		Course           struct {
			Lessons []interface{} `json:"lessons"`
		} `json:"course"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &one))
	assert.Equal(t, 3, one.CompletedLessons)
	assert.Len(t, one.Course.Lessons, 3)

	code, _ = c.do(http.MethodGet, fmt.Sprintf("/api/progress/%d", courseID), author, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = c.do(http.MethodGet, "/api/users/stats", student, nil)
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		TotalEnrolled      int            `json:"totalEnrolled"`
		CompletedCourses   int            `json:"completedCourses"`
		CertificatesEarned int            `json:"certificatesEarned"`
		CoursesByCategory  map[string]int `json:"coursesByCategory"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalEnrolled)
	assert.Equal(t, 1, stats.CompletedCourses)
	assert.Equal(t, 1, stats.CertificatesEarned)
	assert.Equal(t, 1, stats.CoursesByCategory["devops"])

	code, env = c.do(http.MethodGet, "/api/users/enrolled-courses", student, nil)
	require.Equal(t, http.StatusOK, code)
	var enrolled []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &enrolled))
	assert.Len(t, enrolled, 1)
}

func TestRunCodeWithoutRunner(t *testing.T) {
	c := newClient(t)
	author := c.register("teach", "instructor")
	student := c.register("stu", "student")
	body := courseBody("Coding Course", "devops", "beginner", true)
	body["lessons"] = []interface{}{map[string]interface{}{"title": "Hello", "content": "Print hello", "type": "coding", "order": 1, "language": "python"}}
	courseID := c.createCourse(author, body)

	code, _ := c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	require.Equal(t, http.StatusCreated, code)
	code, env := c.do(http.MethodGet, fmt.Sprintf("/api/courses/%d/lessons", courseID), student, nil)
	require.Equal(t, http.StatusOK, code)
	var lessons []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &lessons))

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/lessons/%s/run", courseID, lessons[0].ID), student, map[string]interface{}{"code": "print('hello')"})
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestCourseReviews(t *testing.T) {
	c := newClient(t)
	author := c.register("author", "instructor")
	ann := c.register("ann", "student")
	bob := c.register("bob", "student")
	courseID := c.createCourse(author, courseBody("Reviewed Course", "web-development", "beginner", true))
	reviewsPath := fmt.Sprintf("/api/courses/%d/reviews", courseID)

	code, _ := c.do(http.MethodPost, reviewsPath, ann, map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusForbidden, code, "must be enrolled to review")

	for _, token := range []string{ann, bob} {
		code, _ = c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), token, nil)
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := c.do(http.MethodPost, reviewsPath, ann, map[string]interface{}{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, env.Status)

	code, _ = c.do(http.MethodPost, reviewsPath, ann, map[string]interface{}{"rating": 5, "comment": "Great"})
	assert.Equal(t, http.StatusCreated, code)
	code, _ = c.do(http.MethodPost, reviewsPath, ann, map[string]interface{}{"rating": 3, "comment": "Good"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodPost, reviewsPath, bob, map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusCreated, code)

	code, env = c.do(http.MethodGet, reviewsPath, "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Reviews []struct {
			Rating int `json:"rating"`
		} `json:"reviews"`
		Rating struct {
			Average float64 `json:"average"`
			Count   int     `json:"count"`
		} `json:"rating"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Reviews, 2)
	assert.Equal(t, 3.5, page.Rating.Average)
	assert.Equal(t, 2, page.Rating.Count)

	code, _ = c.do(http.MethodGet, "/api/courses/9999/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminReconcileCourseStats(t *testing.T) {
	c := newClient(t)
	author := c.register("prof", "instructor")
	student := c.register("learner", "student")
	courseID := c.createCourse(author, courseBody("Counted Course", "data-science", "advanced", true))
	code, _ := c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	require.Equal(t, http.StatusCreated, code)

	admin := &models.User{Name: "root", Email: "root@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, c.db.Create(admin).Error)
	adminToken, err := middleware.GenerateJWT(c.cfg, admin)
	require.NoError(t, err)

	code, _ = c.do(http.MethodPost, "/api/admin/course-stats/reconcile", author, nil)
	assert.Equal(t, http.StatusForbidden, code)

	require.NoError(t, c.db.Table("courses").Where("id = ?", courseID).Update("enrollment_count", 42).Error)
	code, env := c.do(http.MethodPost, "/api/admin/course-stats/reconcile", adminToken, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var data struct {
		Changed int `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Changed)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/courses/%d", courseID), "", nil)
	require.Equal(t, http.StatusOK, code)
	var course struct {
		EnrollmentCount int `json:"enrollmentCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.Equal(t, 1, course.EnrollmentCount)
}
