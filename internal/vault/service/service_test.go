package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"onegov/internal/vault/models"
	"onegov/internal/vault/service/mocks"
	"onegov/internal/vault/store"
	id "onegov/pkg/domain"
	dErrors "onegov/pkg/domain-errors"
	"onegov/pkg/platform/audit"
	"onegov/pkg/requestcontext"
)

type VaultServiceSuite struct {
	suite.Suite
	store     *store.InMemoryStore
	publisher *mocks.MockAuditPublisher
	service   *Service
	citizenID id.CitizenID
	now       time.Time
}

func TestVaultServiceSuite(t *testing.T) {
	suite.Run(t, new(VaultServiceSuite))
}

func (s *VaultServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.store = store.NewInMemoryStore()
	s.publisher = mocks.NewMockAuditPublisher(ctrl)
	s.service = New(s.store, WithAuditPublisher(s.publisher))
	s.citizenID = id.NewCitizenID()
	s.now = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
}

func (s *VaultServiceSuite) ctxAs(citizenID id.CitizenID, role id.ActorRole) context.Context {
	ctx := requestcontext.WithSession(context.Background(), requestcontext.Session{CitizenID: citizenID, Role: role})
	return requestcontext.WithTime(ctx, s.now)
}

func (s *VaultServiceSuite) citizenCtx() context.Context {
	return s.ctxAs(s.citizenID, id.RoleCitizen)
}

func (s *VaultServiceSuite) officerCtx() context.Context {
	return s.ctxAs(id.NewCitizenID(), id.RoleOfficer)
}

func (s *VaultServiceSuite) upload(kind string) *models.VaultDocument {
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	d, err := s.service.Upload(s.citizenCtx(), UploadInput{Kind: kind, FileName: kind + ".pdf", SizeBytes: 100})
	s.Require().NoError(err)
	return d
}

func (s *VaultServiceSuite) TestUpload() {
	s.Run("valid kind", func() {
		d := s.upload("Aadhaar")
		s.Equal(id.KindAadhaar, d.Kind)
		s.Equal(s.citizenID, d.CitizenID)
		s.Equal(s.now, d.UploadedAt)
		s.Equal(models.VerificationPending, d.Status)
	})

	s.Run("unknown kind", func() {
		_, err := s.service.Upload(s.citizenCtx(), UploadInput{Kind: "passport", FileName: "p.pdf"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("anonymous", func() {
		_, err := s.service.Upload(context.Background(), UploadInput{Kind: "pan", FileName: "p.pdf"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("upload survives audit failure", func() {
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("down"))
		_, err := s.service.Upload(s.citizenCtx(), UploadInput{Kind: "pan", FileName: "p.pdf"})
		s.NoError(err)
	})
}

func (s *VaultServiceSuite) TestMissingAndMatch() {
	s.upload("aadhaar")
	s.upload("bank-passbook")

	missing, err := s.service.Missing(s.citizenCtx())
	s.Require().NoError(err)
	s.Equal([]id.DocumentKind{id.KindPAN, id.KindIncomeCertificate, id.KindPhoto}, missing)

	res, err := s.service.Match(s.citizenCtx(), s.citizenID, []string{"aadhaar", "bank", "land-records"})
	s.Require().NoError(err)
	s.Len(res.Attached, 2)
	s.Equal([]string{"land-records"}, res.Missing)
}

func (s *VaultServiceSuite) TestListForOtherCitizen() {
	_, err := s.service.ListFor(s.ctxAs(id.NewCitizenID(), id.RoleCitizen), s.citizenID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.service.ListFor(s.officerCtx(), s.citizenID)
	s.NoError(err)
}

func (s *VaultServiceSuite) TestDelete() {
	d := s.upload("photo")

	s.Run("other citizens see not found", func() {
		err := s.service.Delete(s.ctxAs(id.NewCitizenID(), id.RoleCitizen), d.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("owner deletes", func() {
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(audit.EventDocumentDeleted, e.Action)
				return nil
			})
		s.Require().NoError(s.service.Delete(s.citizenCtx(), d.ID))
		docs, err := s.service.List(s.citizenCtx())
		s.Require().NoError(err)
		s.Empty(docs)
	})
}

func (s *VaultServiceSuite) TestVerify() {
	d := s.upload("income-certificate")

	s.Run("citizens cannot verify", func() {
		_, err := s.service.Verify(s.citizenCtx(), d.ID, models.VerificationVerified, "")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("audit failure aborts verification", func() {
		svc := New(s.store, WithAuditPublisher(s.publisher), WithTxRunner(inlineRunner{}))
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))
		_, err := svc.Verify(s.officerCtx(), d.ID, models.VerificationVerified, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		stored, err := s.store.FindByID(context.Background(), d.ID)
		s.Require().NoError(err)
		s.Equal(models.VerificationPending, stored.Status)
	})

	s.Run("officer verifies", func() {
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		out, err := s.service.Verify(s.officerCtx(), d.ID, models.VerificationVerified, "")
		s.Require().NoError(err)
		s.Equal(models.VerificationVerified, out.Status)
		s.Equal(id.RoleOfficer, out.VerifiedBy)
	})

	s.Run("second decision conflicts without an audit record", func() {
		_, err := s.service.Verify(s.officerCtx(), d.ID, models.VerificationRejected, "late")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown document", func() {
		_, err := s.service.Verify(s.officerCtx(), id.NewDocumentID(), models.VerificationVerified, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// inlineRunner is not a NopRunner, so tx.Ordered treats it as atomic.
type inlineRunner struct{}

func (inlineRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
