package entity

import (
	"encoding/json"
	"fmt"
)

type versioned struct {
	SchemaVersion int `json:"schema_version"`
}

func checkVersion(data []byte) error {
	var v versioned
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	// 0 = linha antiga, gravada antes do versionamento
	if v.SchemaVersion > PayloadSchemaVersion || v.SchemaVersion < 0 {
		return fmt.Errorf("%w: schema_version %d", ErrSchemaMismatch, v.SchemaVersion)
	}
	return nil
}

func EncodeAnalysis(a AnalysisResult) ([]byte, error) {
	return json.Marshal(struct {
		versioned
		AnalysisResult
	}{versioned{PayloadSchemaVersion}, a})
}

func DecodeAnalysis(data []byte) (AnalysisResult, error) {
	var a AnalysisResult
	if err := checkVersion(data); err != nil {
		return a, err
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if err := a.Validate(); err != nil {
		return a, err
	}
	return a, nil
}

func EncodeInput(in DiagnosticInput) ([]byte, error) {
	return json.Marshal(struct {
		versioned
		DiagnosticInput
	}{versioned{PayloadSchemaVersion}, in})
}

func DecodeInput(data []byte) (DiagnosticInput, error) {
	var in DiagnosticInput
	if err := checkVersion(data); err != nil {
		return in, err
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return in, nil
}

type itemsDocument struct {
	versioned
	Items []Opportunity `json:"items"`
}

func EncodeItems(items []Opportunity) ([]byte, error) {
	if items == nil {
		items = []Opportunity{}
	}
	return json.Marshal(itemsDocument{versioned{PayloadSchemaVersion}, items})
}

// DecodeItems aceita o documento versionado e também o array cru das linhas antigas.
func DecodeItems(data []byte) ([]Opportunity, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	if data[0] == '[' {
		var items []Opportunity
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return items, nil
	}
	if err := checkVersion(data); err != nil {
		return nil, err
	}
	var doc itemsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return doc.Items, nil
}
