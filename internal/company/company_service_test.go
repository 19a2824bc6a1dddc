package company_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/company"
	companyerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/company/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeCompanyRepository struct {
	CreateFunc                      func(ctx context.Context, comp *company.Company) error
	GetByIDFunc                     func(ctx context.Context, id uuid.UUID) (*company.Company, error)
	GetByEmailFunc                  func(ctx context.Context, email string) (*company.Company, error)
	UpdateFunc                      func(ctx context.Context, comp *company.Company) error
	UpsertRegistrationFunc          func(ctx context.Context, reg *company.CompanyRegistration) error
	GetRegistrationsByCompanyIDFunc func(ctx context.Context, companyID uuid.UUID) ([]company.CompanyRegistration, error)
	DeleteRegistrationFunc          func(ctx context.Context, companyID uuid.UUID, regType company.RegistrationType) error
}

func (f *fakeCompanyRepository) Create(ctx context.Context, comp *company.Company) error {
	return f.CreateFunc(ctx, comp)
}

func (f *fakeCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeCompanyRepository) GetByEmail(ctx context.Context, email string) (*company.Company, error) {
	return f.GetByEmailFunc(ctx, email)
}

func (f *fakeCompanyRepository) Update(ctx context.Context, comp *company.Company) error {
	return f.UpdateFunc(ctx, comp)
}

func (f *fakeCompanyRepository) UpsertRegistration(ctx context.Context, reg *company.CompanyRegistration) error {
	return f.UpsertRegistrationFunc(ctx, reg)
}

func (f *fakeCompanyRepository) GetRegistrationsByCompanyID(ctx context.Context, companyID uuid.UUID) ([]company.CompanyRegistration, error) {
	return f.GetRegistrationsByCompanyIDFunc(ctx, companyID)
}

func (f *fakeCompanyRepository) DeleteRegistration(ctx context.Context, companyID uuid.UUID, regType company.RegistrationType) error {
	return f.DeleteRegistrationFunc(ctx, companyID, regType)
}

func (f *fakeCompanyRepository) WithTx(tx *gorm.DB) company.Repository { return f }

func TestCompanyService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeCompanyRepository{
			GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*company.Company, error) {
				assert.Equal(t, id, gotID)
				return &company.Company{
					ID:                 id,
					Name:               "Acme Corp",
					Email:              "ops@acme.test",
					RegistrationNumber: "REG123",
					IsActive:           true,
				}, nil
			},
		}
		svc := company.NewService(repo)

		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Acme Corp", resp.Name)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, "REG123", resp.RegistrationNumber)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := company.NewService(&fakeCompanyRepository{})

		_, err := svc.GetByID(ctx, "not-a-uuid")

		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakeCompanyRepository{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*company.Company, error) {
				return nil, errors.New("not found")
			},
		}
		svc := company.NewService(repo)

		_, err := svc.GetByID(ctx, uuid.New().String())

		assert.Error(t, err)
	})
}

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates name only", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeCompanyRepository{
			GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*company.Company, error) {
				return &company.Company{ID: id, Name: "Old Name", Email: "ops@acme.test", IsActive: true}, nil
			},
			UpdateFunc: func(ctx context.Context, c *company.Company) error {
				assert.Equal(t, "New Name", c.Name)
				assert.True(t, c.IsActive)
				return nil
			},
		}
		svc := company.NewService(repo)

		resp, err := svc.Update(ctx, id.String(), company.UpdateCompanyRequest{Name: "New Name"})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", resp.Name)
	})

	t.Run("deactivates via pointer flag", func(t *testing.T) {
		id := uuid.New()
		inactive := false
		repo := &fakeCompanyRepository{
			GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*company.Company, error) {
				return &company.Company{ID: id, Name: "Acme Corp", IsActive: true}, nil
			},
			UpdateFunc: func(ctx context.Context, c *company.Company) error {
				assert.False(t, c.IsActive)
				return nil
			},
		}
		svc := company.NewService(repo)

		resp, err := svc.Update(ctx, id.String(), company.UpdateCompanyRequest{IsActive: &inactive})

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("update error", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeCompanyRepository{
			GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*company.Company, error) {
				return &company.Company{ID: id}, nil
			},
			UpdateFunc: func(ctx context.Context, c *company.Company) error {
				return errors.New("db error")
			},
		}
		svc := company.NewService(repo)

		_, err := svc.Update(ctx, id.String(), company.UpdateCompanyRequest{Name: "X"})

		assert.Error(t, err)
	})
}

func TestCompanyService_UpsertRegistration(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("success", func(t *testing.T) {
		issued := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		repo := &fakeCompanyRepository{
			UpsertRegistrationFunc: func(ctx context.Context, reg *company.CompanyRegistration) error {
				assert.Equal(t, companyID, reg.CompanyID)
				assert.Equal(t, company.RegistrationTypeEIN, reg.Type)
				assert.Equal(t, "12-3456789", reg.Number)
				return nil
			},
		}
		svc := company.NewService(repo)

		err := svc.UpsertRegistration(ctx, companyID.String(), company.UpsertCompanyRegistrationRequest{
			Type:     company.RegistrationTypeEIN,
			Number:   "12-3456789",
			IssuedAt: &issued,
		})

		assert.NoError(t, err)
	})

	t.Run("invalid company id", func(t *testing.T) {
		svc := company.NewService(&fakeCompanyRepository{})

		err := svc.UpsertRegistration(ctx, "nope", company.UpsertCompanyRegistrationRequest{
			Type:   company.RegistrationTypeEIN,
			Number: "12-3456789",
		})

		assert.ErrorIs(t, err, companyerrors.ErrInvalidCompanyID)
	})

	t.Run("blank number rejected", func(t *testing.T) {
		svc := company.NewService(&fakeCompanyRepository{})

		err := svc.UpsertRegistration(ctx, companyID.String(), company.UpsertCompanyRegistrationRequest{
			Type:   company.RegistrationTypeEIN,
			Number: "   ",
		})

		assert.ErrorIs(t, err, companyerrors.ErrMissingRequiredFields)
	})
}

func TestCompanyService_ListRegistrations(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakeCompanyRepository{
			GetRegistrationsByCompanyIDFunc: func(ctx context.Context, gotID uuid.UUID) ([]company.CompanyRegistration, error) {
				assert.Equal(t, companyID, gotID)
				return []company.CompanyRegistration{
					{ID: uuid.New(), CompanyID: companyID, Type: company.RegistrationTypeEIN, Number: "12-3456789"},
					{ID: uuid.New(), CompanyID: companyID, Type: company.RegistrationTypeUEN, Number: "201912345A"},
				}, nil
			},
		}
		svc := company.NewService(repo)

		regs, err := svc.ListRegistrations(ctx, companyID.String())

		assert.NoError(t, err)
		assert.Len(t, regs, 2)
		assert.Equal(t, company.RegistrationTypeEIN, regs[0].Type)
	})

	t.Run("invalid company id", func(t *testing.T) {
		svc := company.NewService(&fakeCompanyRepository{})

		_, err := svc.ListRegistrations(ctx, "nope")

		assert.ErrorIs(t, err, companyerrors.ErrInvalidCompanyID)
	})
}

func TestCompanyService_DeleteRegistration(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("success", func(t *testing.T) {
		called := false
		repo := &fakeCompanyRepository{
			DeleteRegistrationFunc: func(ctx context.Context, gotID uuid.UUID, regType company.RegistrationType) error {
				called = true
				assert.Equal(t, companyID, gotID)
				assert.Equal(t, company.RegistrationTypeGSTIN, regType)
				return nil
			},
		}
		svc := company.NewService(repo)

		err := svc.DeleteRegistration(ctx, companyID.String(), company.RegistrationTypeGSTIN)

		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("empty type rejected", func(t *testing.T) {
		svc := company.NewService(&fakeCompanyRepository{})

		err := svc.DeleteRegistration(ctx, companyID.String(), "")

		assert.ErrorIs(t, err, companyerrors.ErrInvalidRegistrationType)
	})
}
