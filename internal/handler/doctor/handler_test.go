package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helioscare/clinic-api/internal/handler"
	"github.com/helioscare/clinic-api/internal/model"
	doctorService "github.com/helioscare/clinic-api/internal/service/doctor"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

type stubService struct {
	upsertResult *model.Doctor
	upsertErr    error
	deleteErr    error
	listResult   []*model.Doctor
	gotInput     *doctorService.UpsertDoctorInput
	gotSession   *model.Session
}

func (s *stubService) UpsertDoctor(_ context.Context, session *model.Session, input *doctorService.UpsertDoctorInput) (*model.Doctor, error) {
	s.gotSession = session
	s.gotInput = input
	return s.upsertResult, s.upsertErr
}

func (s *stubService) DeleteDoctor(_ context.Context, session *model.Session, _ uuid.UUID) error {
	s.gotSession = session
	return s.deleteErr
}

func (s *stubService) GetDoctor(_ context.Context, _ *model.Session, _ uuid.UUID) (*model.Doctor, error) {
	return s.upsertResult, s.upsertErr
}

func (s *stubService) ListDoctors(_ context.Context, _ *model.Session) ([]*model.Doctor, error) {
	return s.listResult, nil
}

func newTestRouter(svc doctorService.DoctorServicer, session *model.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/v1")
	if session != nil {
		group.Use(func(c *gin.Context) {
			c.Set(handler.SessionKey, session)
			c.Next()
		})
	}
	NewHandler(svc).RegisterRoutes(group)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func clinicSession() *model.Session {
	clinicID := uuid.New()
	return &model.Session{UserID: uuid.New(), ClinicID: &clinicID}
}

func TestUpsertDoctorCreated(t *testing.T) {
	svc := &stubService{
		upsertResult: &model.Doctor{
			Name:              "Dr. Ana",
			Specialty:         "cardiologia",
			AvailableFromTime: "11:00:00",
			AvailableToTime:   "21:00:00",
		},
	}
	session := clinicSession()
	engine := newTestRouter(svc, session)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/doctors", map[string]interface{}{
		"name":                   "Dr. Ana",
		"specialty":              "cardiologia",
		"appointment_price":      150.00,
		"available_from_weekday": 1,
		"available_to_weekday":   5,
		"available_from_time":    "08:00:00",
		"available_to_time":      "18:00:00",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.gotInput)
	assert.Nil(t, svc.gotInput.ID)
	assert.Equal(t, 150.00, svc.gotInput.AppointmentPrice)
	assert.Equal(t, session, svc.gotSession)
}

func TestUpsertDoctorWithIDReturnsOK(t *testing.T) {
	svc := &stubService{upsertResult: &model.Doctor{Name: "Dr. Ana"}}
	engine := newTestRouter(svc, clinicSession())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/doctors", map[string]interface{}{
		"id":                     uuid.New().String(),
		"name":                   "Dr. Ana",
		"specialty":              "cardiologia",
		"appointment_price":      150.00,
		"available_from_weekday": 1,
		"available_to_weekday":   5,
		"available_from_time":    "08:00:00",
		"available_to_time":      "18:00:00",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotInput.ID)
}

func TestUpsertDoctorValidationFailure(t *testing.T) {
	svc := &stubService{
		upsertErr: apperrors.Validation(map[string]string{
			"available_to_time": "end time must be after start time",
		}),
	}
	engine := newTestRouter(svc, clinicSession())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/doctors", map[string]interface{}{
		"name":                   "Dr. Ana",
		"specialty":              "cardiologia",
		"appointment_price":      150.00,
		"available_from_weekday": 1,
		"available_to_weekday":   5,
		"available_from_time":    "18:00:00",
		"available_to_time":      "08:00:00",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Fields, "available_to_time")
}

func TestUpsertDoctorForbiddenReadsAsNotFound(t *testing.T) {
	svc := &stubService{upsertErr: apperrors.Forbidden("doctor not found")}
	engine := newTestRouter(svc, clinicSession())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/doctors", map[string]interface{}{
		"id":                     uuid.New().String(),
		"name":                   "Dr. Ana",
		"specialty":              "cardiologia",
		"appointment_price":      150.00,
		"available_from_weekday": 1,
		"available_to_weekday":   5,
		"available_from_time":    "08:00:00",
		"available_to_time":      "18:00:00",
	})

	// Cross-clinic denial must be indistinguishable from a missing row.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertDoctorRejectsMalformedID(t *testing.T) {
	svc := &stubService{}
	engine := newTestRouter(svc, clinicSession())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/doctors", map[string]interface{}{
		"id":   "not-a-uuid",
		"name": "Dr. Ana",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotInput)
}

func TestDeleteDoctor(t *testing.T) {
	svc := &stubService{}
	engine := newTestRouter(svc, clinicSession())

	w := doRequest(t, engine, http.MethodDelete, "/api/v1/doctors/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodDelete, "/api/v1/doctors/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSpecialtiesServesCatalog(t *testing.T) {
	engine := newTestRouter(&stubService{}, clinicSession())

	w := doRequest(t, engine, http.MethodGet, "/api/v1/specialties", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.Specialty `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(model.Specialties), len(resp.Data))
}
