package services

import (
	"context"
	"errors"
	"fmt"

	"invoice_manager/internal/logger"
	"invoice_manager/internal/models"
	"invoice_manager/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Identity is what the identity provider asserts about a caller.
type Identity struct {
	Subject   string
	CompanyID uuid.UUID
	Role      models.UserRole
	Email     string
	Name      string
}

type UserService interface {
	ResolveActor(ctx context.Context, identity Identity) (Actor, error)
}

type userService struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	log         zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		log:         logger.WithComponent("user_service"),
	}
}

// ResolveActor maps an identity onto its local user, creating the user on
// first sight and keeping role and contact details in sync afterwards.
func (s *userService) ResolveActor(ctx context.Context, identity Identity) (Actor, error) {
	if identity.Subject == "" {
		return Actor{}, invalid("identity has no subject")
	}
	if identity.Role != models.RoleAdmin {
		identity.Role = models.RoleUser
	}

	user, err := s.userRepo.GetByExternalID(ctx, identity.Subject)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.provision(ctx, identity)
		if err != nil {
			return Actor{}, err
		}
	case err != nil:
		return Actor{}, err
	default:
		if user.CompanyID != identity.CompanyID {
			return Actor{}, fmt.Errorf("%w: user belongs to another company", ErrForbidden)
		}
		if !user.IsActive {
			return Actor{}, fmt.Errorf("%w: user is deactivated", ErrForbidden)
		}
		if user.Role != string(identity.Role) || (identity.Email != "" && user.Email != identity.Email) {
			user.Role = string(identity.Role)
			if identity.Email != "" {
				user.Email = identity.Email
			}
			if err := s.userRepo.Update(ctx, user); err != nil {
				return Actor{}, err
			}
		}
	}

	return Actor{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      models.UserRole(user.Role),
	}, nil
}

func (s *userService) provision(ctx context.Context, identity Identity) (*models.User, error) {
	if _, err := s.companyRepo.GetByID(ctx, identity.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown company", ErrForbidden)
		}
		return nil, err
	}

	user := &models.User{
		CompanyID:  identity.CompanyID,
		ExternalID: identity.Subject,
		Email:      identity.Email,
		Name:       identity.Name,
		Role:       string(identity.Role),
		IsActive:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("company_id", user.CompanyID.String()).
		Str("role", user.Role).
		Msg("user provisioned")
	return user, nil
}
