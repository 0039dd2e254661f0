package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/model"
)

type DreamMapper struct{}

func NewDreamMapper() *DreamMapper {
	return &DreamMapper{}
}

func (m *DreamMapper) ToEntity(d *model.Dream) *entity.Dream {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	tags := make([]entity.DreamTag, len(d.Tags))
	for i, tag := range d.Tags {
		tags[i] = entity.DreamTag{
			Id:      tag.Id,
			DreamId: tag.DreamId,
			Name:    tag.Name,
		}
	}

	return &entity.Dream{
		Id:             d.Id,
		UserId:         d.UserId,
		Text:           d.Text,
		Source:         entity.DreamSource(d.Source),
		Language:       d.Language,
		DreamDate:      d.DreamDate,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      d.DeletedAt.Valid,
		Interpretation: m.InterpretationToEntity(d.Interpretation),
		Tags:           tags,
	}
}

func (m *DreamMapper) ToModel(d *entity.Dream) *model.Dream {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	tags := make([]model.DreamTag, len(d.Tags))
	for i, tag := range d.Tags {
		tags[i] = model.DreamTag{
			Id:      tag.Id,
			DreamId: tag.DreamId,
			Name:    tag.Name,
		}
	}

	return &model.Dream{
		Id:        d.Id,
		UserId:    d.UserId,
		Text:      d.Text,
		Source:    string(d.Source),
		Language:  d.Language,
		DreamDate: d.DreamDate,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		Tags:      tags,
	}
}

func (m *DreamMapper) InterpretationToEntity(i *model.DreamInterpretation) *entity.DreamInterpretation {
	if i == nil {
		return nil
	}

	var emotions []entity.DreamEmotion
	if len(i.Emotions) > 0 {
		// Malformed rows degrade to an empty emotion list instead of failing the read.
		_ = json.Unmarshal(i.Emotions, &emotions)
	}

	return &entity.DreamInterpretation{
		Id:              i.Id,
		DreamId:         i.DreamId,
		MainSymbol:      i.MainSymbol,
		MainSymbolEmoji: i.MainSymbolEmoji,
		Interpretation:  i.Interpretation,
		Emotions:        emotions,
		Advice:          i.Advice,
		Model:           i.Model,
		PromptVersion:   i.PromptVersion,
		IsFallback:       i.IsFallback,
		FromCache:        i.FromCache,
		ProcessingTimeMs: i.ProcessingTimeMs,
		CreatedAt:        i.CreatedAt,
	}
}

func (m *DreamMapper) InterpretationToModel(i *entity.DreamInterpretation) (*model.DreamInterpretation, error) {
	if i == nil {
		return nil, nil
	}

	emotions, err := json.Marshal(i.Emotions)
	if err != nil {
		return nil, err
	}

	return &model.DreamInterpretation{
		Id:              i.Id,
		DreamId:         i.DreamId,
		MainSymbol:      i.MainSymbol,
		MainSymbolEmoji: i.MainSymbolEmoji,
		Interpretation:  i.Interpretation,
		Emotions:        emotions,
		Advice:          i.Advice,
		Model:           i.Model,
		PromptVersion:   i.PromptVersion,
		IsFallback:       i.IsFallback,
		FromCache:        i.FromCache,
		ProcessingTimeMs: i.ProcessingTimeMs,
		CreatedAt:        i.CreatedAt,
	}, nil
}

func (m *DreamMapper) ToEntities(dreams []*model.Dream) []*entity.Dream {
	entities := make([]*entity.Dream, len(dreams))
	for i, d := range dreams {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *DreamMapper) ToModels(dreams []*entity.Dream) []*model.Dream {
	models := make([]*model.Dream, len(dreams))
	for i, d := range dreams {
		models[i] = m.ToModel(d)
	}
	return models
}
