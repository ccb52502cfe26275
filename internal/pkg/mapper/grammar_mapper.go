package mapper

import (
	"encoding/json"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	dbEntity "github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"gorm.io/datatypes"
)

// ConvertToGrammarRecord - Convert DB entity to domain entity
func ConvertToGrammarRecord(g *dbEntity.Grammar) (entity.GrammarRecord, error) {
	var examples []entity.GrammarExample
	if err := unmarshalJSON(g.Examples, &examples); err != nil {
		return entity.GrammarRecord{}, err
	}
	var tags []string
	if err := unmarshalJSON(g.Tags, &tags); err != nil {
		return entity.GrammarRecord{}, err
	}

	return entity.GrammarRecord{
		ID:          g.GrammarID,
		Korean:      g.Korean,
		English:     g.English,
		Vietnamese:  g.Vietnamese,
		Structure:   g.Structure,
		Usage:       g.Usage,
		Explanation: g.Explanation,
		Examples:    examples,
		Level:       entity.GrammarLevel(g.Level),
		TopikLevel:  g.TopikLevel,
		Category:    g.Category,
		Difficulty:  g.Difficulty,
		Tags:        tags,
	}, nil
}

// ConvertToGrammarRecords skips nothing: one bad row fails the batch.
func ConvertToGrammarRecords(rows []dbEntity.Grammar) ([]entity.GrammarRecord, error) {
	records := make([]entity.GrammarRecord, 0, len(rows))
	for i := range rows {
		record, err := ConvertToGrammarRecord(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// ConvertToGrammarEntity - Convert domain record to DB entity (active)
func ConvertToGrammarEntity(r entity.GrammarRecord) (dbEntity.Grammar, error) {
	examples := r.Examples
	if examples == nil {
		examples = []entity.GrammarExample{}
	}
	examplesJSON, err := json.Marshal(examples)
	if err != nil {
		return dbEntity.Grammar{}, err
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return dbEntity.Grammar{}, err
	}

	return dbEntity.Grammar{
		GrammarID:   r.ID,
		Korean:      r.Korean,
		English:     r.English,
		Vietnamese:  r.Vietnamese,
		Structure:   r.Structure,
		Usage:       r.Usage,
		Explanation: r.Explanation,
		Examples:    datatypes.JSON(examplesJSON),
		Level:       string(r.Level),
		TopikLevel:  r.TopikLevel,
		Category:    r.Category,
		Difficulty:  r.Difficulty,
		Tags:        datatypes.JSON(tagsJSON),
		IsActive:    true,
	}, nil
}

func unmarshalJSON(raw datatypes.JSON, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func marshalJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
