package company

import (
	"context"
	"errors"
	"strings"

	companyerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/company/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	GetByEmail(ctx context.Context, email string) (*CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error)

	UpsertRegistration(ctx context.Context, companyID string, req UpsertCompanyRegistrationRequest) error
	ListRegistrations(ctx context.Context, companyID string) ([]CompanyRegistrationResponse, error)
	DeleteRegistration(ctx context.Context, companyID string, regType RegistrationType) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	return mapCompanyToResponse(comp), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*CompanyResponse, error) {
	comp, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	return mapCompanyToResponse(comp), nil
}

// Update patches only the fields the request carries. IsActive is a pointer
// so an explicit false still applies.
func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		comp.Name = name
	}
	if number := strings.TrimSpace(req.RegistrationNumber); number != "" {
		comp.RegistrationNumber = number
	}
	if req.IsActive != nil {
		comp.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		s.logger.Error("company update failed",
			zap.String("company_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("company updated", zap.String("company_id", id))
	return mapCompanyToResponse(comp), nil
}

func (s *service) UpsertRegistration(ctx context.Context, companyID string, req UpsertCompanyRegistrationRequest) error {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return companyerrors.ErrInvalidCompanyID
	}

	if req.Type == "" {
		return companyerrors.ErrInvalidRegistrationType
	}
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return companyerrors.ErrMissingRequiredFields
	}

	reg := &CompanyRegistration{
		CompanyID: id,
		Type:      req.Type,
		Number:    number,
		IssuedAt:  req.IssuedAt,
	}

	if err := s.repo.UpsertRegistration(ctx, reg); err != nil {
		s.logger.Error("registration upsert failed",
			zap.String("company_id", companyID),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("registration upserted",
		zap.String("company_id", companyID),
		zap.String("type", string(req.Type)),
	)
	return nil
}

func (s *service) ListRegistrations(ctx context.Context, companyID string) ([]CompanyRegistrationResponse, error) {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	regs, err := s.repo.GetRegistrationsByCompanyID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := make([]CompanyRegistrationResponse, 0, len(regs))
	for _, r := range regs {
		result = append(result, CompanyRegistrationResponse{
			ID:        r.ID.String(),
			Type:      r.Type,
			Number:    r.Number,
			IssuedAt:  r.IssuedAt,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}

	return result, nil
}

func (s *service) DeleteRegistration(ctx context.Context, companyID string, regType RegistrationType) error {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return companyerrors.ErrInvalidCompanyID
	}
	if regType == "" {
		return companyerrors.ErrInvalidRegistrationType
	}

	if err := s.repo.DeleteRegistration(ctx, id, regType); err != nil {
		return err
	}

	s.logger.Info("registration deleted",
		zap.String("company_id", companyID),
		zap.String("type", string(regType)),
	)
	return nil
}

func mapCompanyToResponse(c *Company) *CompanyResponse {
	return &CompanyResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		Email:              c.Email,
		RegistrationNumber: c.RegistrationNumber,
		IsActive:           c.IsActive,
	}
}
