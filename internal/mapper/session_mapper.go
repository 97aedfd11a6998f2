package mapper

import (
	"encoding/json"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.ContactSession) *entity.ContactSession {
	if s == nil {
		return nil
	}

	var metadata entity.ContactSessionMetadata
	if len(s.Metadata) > 0 {
		// Corrupt metadata is tolerated; the session stays usable.
		_ = json.Unmarshal(s.Metadata, &metadata)
	}

	return &entity.ContactSession{
		Id:             s.Id,
		OrganizationId: s.OrganizationId,
		Name:           s.Name,
		Email:          s.Email,
		Metadata:       metadata,
		ExpiresAt:      s.ExpiresAt,
		CreatedAt:      s.CreatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.ContactSession) *model.ContactSession {
	if s == nil {
		return nil
	}

	metadata, _ := json.Marshal(s.Metadata)

	return &model.ContactSession{
		Id:             s.Id,
		OrganizationId: s.OrganizationId,
		Name:           s.Name,
		Email:          s.Email,
		Metadata:       datatypes.JSON(metadata),
		ExpiresAt:      s.ExpiresAt,
		CreatedAt:      s.CreatedAt,
	}
}
