package service

import (
	"context"
	"os"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	now        NowFunc
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, now NowFunc) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		now:        now,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.OperatorRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.BadRequest("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	operator := &entity.Operator{
		Id:             uuid.New(),
		Email:          req.Email,
		PasswordHash:   string(hash),
		FullName:       req.FullName,
		OrganizationId: req.OrganizationId,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uow.OperatorRepository().Create(ctx, operator); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Id: operator.Id}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	operator, err := uow.OperatorRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if operator == nil {
		// Same failure for unknown email and wrong password.
		return nil, apperror.Unauthorized("Identity not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Identity not found")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"operator_id":     operator.Id.String(),
		"organization_id": operator.OrganizationId,
		"iat":             now.Unix(),
		"exp":             now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:          signed,
		OperatorId:     operator.Id,
		FullName:       operator.FullName,
		OrganizationId: operator.OrganizationId,
	}, nil
}
