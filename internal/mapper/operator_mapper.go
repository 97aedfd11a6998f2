package mapper

import (
	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"
)

type OperatorMapper struct{}

func NewOperatorMapper() *OperatorMapper {
	return &OperatorMapper{}
}

func (m *OperatorMapper) ToEntity(o *model.Operator) *entity.Operator {
	if o == nil {
		return nil
	}

	return &entity.Operator{
		Id:             o.Id,
		Email:          o.Email,
		PasswordHash:   o.PasswordHash,
		FullName:       o.FullName,
		OrganizationId: o.OrganizationId,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (m *OperatorMapper) ToModel(o *entity.Operator) *model.Operator {
	if o == nil {
		return nil
	}

	return &model.Operator{
		Id:             o.Id,
		Email:          o.Email,
		PasswordHash:   o.PasswordHash,
		FullName:       o.FullName,
		OrganizationId: o.OrganizationId,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
