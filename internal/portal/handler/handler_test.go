package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	appmodels "onegov/internal/application/models"
	"onegov/internal/portal/handler/mocks"
	"onegov/internal/portal/service"
	schemes "onegov/internal/scheme/models"
	"onegov/internal/vault/matcher"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/testutil"
)

type PortalHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestPortalHandlerSuite(t *testing.T) {
	suite.Run(t, new(PortalHandlerSuite))
}

func (s *PortalHandlerSuite) SetupTest() {
	s.service = mocks.NewMockService(gomock.NewController(s.T()))
	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func (s *PortalHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	}
	req := testutil.AsCitizen(httptest.NewRequest(method, path, rdr), id.NewCitizenID())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *PortalHandlerSuite) TestEligibility() {
	s.service.EXPECT().Eligibility(gomock.Any(), "ayushman-bharat").Return(schemes.Result{
		SchemeID: "ayushman-bharat",
		Status:   schemes.StatusNearlyEligible,
		Unmet:    []string{"BPL card required"},
	}, nil)

	w := s.do(http.MethodGet, "/v1/schemes/ayushman-bharat/eligibility", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"unmet_criteria":["BPL card required"]`)
}

func (s *PortalHandlerSuite) TestSubmitScheme() {
	app := &appmodels.Application{TrackingID: "APP1767225600000000001", Status: appmodels.StatusSubmitted}
	s.service.EXPECT().SubmitScheme(gomock.Any(), "pm-kisan").
		Return(&service.Submitted{Application: app, Missing: []string{"land-records"}}, nil)

	w := s.do(http.MethodPost, "/v1/applications", `{"scheme_id":" PM-Kisan "}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Contains(w.Body.String(), `"tracking_id":"APP1767225600000000001"`)
	s.Contains(w.Body.String(), `"missing":["land-records"]`)
}

func (s *PortalHandlerSuite) TestSubmitSchemeValidation() {
	w := s.do(http.MethodPost, "/v1/applications", `{}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/v1/applications", ``)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *PortalHandlerSuite) TestPreviewScheme() {
	s.service.EXPECT().PreviewScheme(gomock.Any(), "pm-kisan").Return(&service.Draft{
		Family:   appmodels.FamilyScheme,
		Attached: []matcher.Attachment{},
		Missing:  []string{"aadhaar"},
	}, nil)

	w := s.do(http.MethodPost, "/v1/applications/preview", `{"scheme_id":"pm-kisan"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"missing":["aadhaar"]`)
}

func (s *PortalHandlerSuite) TestServiceRequest() {
	s.service.EXPECT().SubmitService(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req service.ServiceRequest) (*service.Submitted, error) {
			s.Equal(appmodels.FamilyDeathCertificate, req.Family)
			s.Equal("Ram Lal", req.Details["deceased_name"])
			return &service.Submitted{Application: &appmodels.Application{TrackingID: "DEATH1767225600000000001"}}, nil
		})

	w := s.do(http.MethodPost, "/v1/service-requests", `{"family":"death_certificate","details":{"deceased_name":"Ram Lal"}}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/v1/service-requests", `{"family":"passport"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *PortalHandlerSuite) TestProfileMissing() {
	s.service.EXPECT().Recommendations(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeValidation, "complete your profile first"))

	w := s.do(http.MethodGet, "/v1/recommendations", "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "complete your profile first")
}
