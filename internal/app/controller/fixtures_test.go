package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/internal/app/service"
	"github.com/ikkim/consultation-backend/internal/db"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
	"github.com/ikkim/consultation-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type fakeArchive struct {
	uploads int
}

func (a *fakeArchive) Upload(ctx context.Context, folder, filename, contentType string, body []byte) (*storage.StoredObject, error) {
	a.uploads++
	key := storage.ObjectKey(folder, filename)
	return &storage.StoredObject{
		Key:       key,
		URL:       "https://signed.example.com/" + key,
		ExpiresAt: time.Now().Add(storage.DownloadURLExpiry),
	}, nil
}

type controllerTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService service.AuthService
	token       string
}

// setupControllerTest wires every controller against a fresh sqlite database.
// archive may be nil to run with archiving disabled.
func setupControllerTest(t *testing.T, archive service.ArchiveStorage) *controllerTestEnv {
	gin.SetMode(gin.TestMode)
	apperrors.RegisterValidator()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.SeedMediums(testDB))

	mediumRepo := repository.NewMediumRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	clientRepo := repository.NewClientRepository(testDB)
	consultationRepo := repository.NewConsultationRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	consultationService := service.NewConsultationService(consultationRepo, mediumRepo, clientRepo, nil)
	importService := service.NewBulkImportService(consultationRepo, mediumRepo, clientRepo, tagRepo, categoryRepo, nil)
	spreadsheetService := service.NewSpreadsheetService()
	exportService := service.NewExportService(consultationService, spreadsheetService, archive, "exports", 10000)
	authService := service.NewAuthService(userRepo, nil, testJWTSecret, time.Hour)

	consultationController := NewConsultationController(consultationService)
	bulkImportController := NewBulkImportController(importService, spreadsheetService)
	exportController := NewExportController(exportService)
	clientController := NewClientController(service.NewClientService(clientRepo))
	mediumController := NewMediumController(service.NewMediumService(mediumRepo))
	categoryController := NewCategoryController(service.NewCategoryService(categoryRepo))
	tagController := NewTagController(service.NewTagService(tagRepo))
	authController := NewAuthController(authService, false)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	router.POST("/auth/signup", authController.SignUp)
	router.POST("/auth/login", authController.Login)
	router.POST("/auth/logout", authController.Logout)
	router.GET("/auth/me", authMiddleware.Authenticate(), authController.Me)

	api := router.Group("", authMiddleware.Authenticate())
	api.GET("/consultations", consultationController.ListConsultations)
	api.POST("/consultations", consultationController.CreateConsultation)
	api.POST("/consultations/bulk", bulkImportController.BulkImport)
	api.POST("/consultations/bulk/upload", bulkImportController.UploadSpreadsheet)
	api.POST("/consultations/bulk-delete", consultationController.BulkDeleteConsultations)
	api.GET("/consultations/export", exportController.Export)
	api.POST("/consultations/export/archive", exportController.Archive)
	api.GET("/consultations/template", bulkImportController.DownloadTemplate)
	api.GET("/consultations/:id", consultationController.GetConsultation)
	api.PATCH("/consultations/:id", consultationController.UpdateConsultation)
	api.DELETE("/consultations/:id", consultationController.DeleteConsultation)
	api.GET("/clients", clientController.ListClients)
	api.POST("/clients", clientController.CreateClient)
	api.PATCH("/clients/:id", clientController.UpdateClient)
	api.GET("/mediums", mediumController.ListMediums)
	api.POST("/mediums", mediumController.CreateMedium)
	api.DELETE("/mediums/:id", mediumController.DeactivateMedium)
	api.GET("/categories", categoryController.ListCategories)
	api.POST("/categories", categoryController.CreateCategory)
	api.DELETE("/categories/:id", categoryController.DeactivateCategory)
	api.GET("/tags", tagController.ListTags)
	api.POST("/tags", tagController.CreateTag)
	api.DELETE("/tags/:id", tagController.DeleteTag)

	session, err := authService.SignUp("staff@example.com", "password123", "password123")
	require.NoError(t, err)

	return &controllerTestEnv{
		db:          testDB,
		router:      router,
		authService: authService,
		token:       session.AccessToken,
	}
}

// do sends an authenticated request; body is JSON-encoded unless it is an io.Reader
func (e *controllerTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (e *controllerTestEnv) medium(t *testing.T, name string) model.Medium {
	var medium model.Medium
	require.NoError(t, e.db.Where("name = ?", name).First(&medium).Error)
	return medium
}

func (e *controllerTestEnv) createClient(t *testing.T, name string) model.Client {
	client := model.Client{Name: name}
	require.NoError(t, e.db.Create(&client).Error)
	return client
}

func (e *controllerTestEnv) createTag(t *testing.T, name string) model.Tag {
	tag := model.Tag{Name: name}
	require.NoError(t, e.db.Create(&tag).Error)
	return tag
}

func (e *controllerTestEnv) createConsultation(t *testing.T, content string, consultedAt time.Time) model.Consultation {
	client := e.createClient(t, "업체-"+content)
	consultation := model.Consultation{
		ConsultedAt: consultedAt,
		MediumID:    e.medium(t, "전화").ID,
		ClientID:    client.ID,
		Content:     content,
		Status:      model.StatusReceived,
	}
	require.NoError(t, e.db.Create(&consultation).Error)
	return consultation
}
