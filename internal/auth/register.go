package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/internal/users"
	"github.com/sureshop/sureshop-backend/pkg/config"
	"github.com/sureshop/sureshop-backend/pkg/db"
	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/security"
)

// RegisterRequest contains the payload required for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminRegisterRequest additionally carries the deployment setup code.
type AdminRegisterRequest struct {
	RegisterRequest
	SetupCode string `json:"setup_code" validate:"required"`
}

// RegisterService handles account creation.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	RegisterAdmin(ctx context.Context, req AdminRegisterRequest) (*users.UserDTO, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner        TxRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	PasswordConfig  config.PasswordConfig
	AdminConfig     config.AdminConfig
	AppConfig       config.AppConfig
}

type registerService struct {
	tx          TxRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	passwordCfg config.PasswordConfig
	adminCfg    config.AdminConfig
	appCfg      config.AppConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	userRepo := params.UserRepoFactory
	if userRepo == nil {
		userRepo = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    userRepo,
		passwordCfg: params.PasswordConfig,
		adminCfg:    params.AdminConfig,
		appCfg:      params.AppConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	return s.create(ctx, req, enums.UserRoleUser)
}

// RegisterAdmin bootstraps an admin account. Disabled in production; the
// setup code must match the deployment's configured value.
func (s *registerService) RegisterAdmin(ctx context.Context, req AdminRegisterRequest) (*users.UserDTO, error) {
	if s.appCfg.IsProd() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin registration disabled")
	}
	if s.adminCfg.SetupCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin registration disabled")
	}
	if subtle.ConstantTimeCompare([]byte(req.SetupCode), []byte(s.adminCfg.SetupCode)) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid setup code")
	}
	return s.create(ctx, req.RegisterRequest, enums.UserRoleAdmin)
}

func (s *registerService) create(ctx context.Context, req RegisterRequest, role enums.UserRole) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         role,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		created = users.FromModel(user)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}
