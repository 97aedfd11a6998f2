package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FullName       string `json:"full_name" validate:"required"`
	OrganizationId string `json:"organization_id" validate:"required"`
}

type RegisterResponse struct {
	Id uuid.UUID `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token          string    `json:"token"`
	OperatorId     uuid.UUID `json:"operator_id"`
	FullName       string    `json:"full_name"`
	OrganizationId string    `json:"organization_id"`
}
