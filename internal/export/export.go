// Package export builds the YAML documents used to move a property, with its
// computed analysis, between accounts.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/internal/property"
	"gopkg.in/yaml.v3"
)

// Document is an exported property. Property holds the record merged with
// the analysis fields under their stored names.
type Document struct {
	ID          string            `yaml:"id"`
	ExportedAt  time.Time         `yaml:"exportedAt"`
	ExpenseMode string            `yaml:"expenseMode"`
	Property    property.Property `yaml:"property"`
}

// leadingFields are written first, in this order, so exports read naturally.
var leadingFields = append(append([]string(nil), property.IdentityFields...),
	property.PurchasePrice,
	property.NumberOfUnits,
)

// Build merges result into a copy of p the way stored records hold it.
func Build(p property.Property, mode analysis.ExpenseMode, result analysis.Result, now time.Time) (Document, error) {
	fields, err := ResultFields(result)
	if err != nil {
		return Document{}, err
	}
	merged := p.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	return Document{
		ID:          uuid.NewString(),
		ExportedAt:  now.UTC(),
		ExpenseMode: mode.String(),
		Property:    merged,
	}, nil
}

// ResultFields flattens result into field values keyed by their durable names.
func ResultFields(result analysis.Result) (map[string]interface{}, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return fields, nil
}

// Marshal renders the document as YAML with identity and acquisition fields
// first and the remaining property fields sorted.
func Marshal(doc Document) ([]byte, error) {
	items := make([]orderedItem, 0, len(doc.Property))
	seen := make(map[string]struct{})
	for _, key := range leadingFields {
		if value, ok := doc.Property[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(doc.Property))
	for key := range doc.Property {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: doc.Property[key]})
	}

	out := orderedDocument{
		items: []orderedItem{
			{key: "id", value: doc.ID},
			{key: "exportedAt", value: doc.ExportedAt.Format(time.RFC3339)},
			{key: "expenseMode", value: doc.ExpenseMode},
			{key: "property", value: orderedDocument{items: items}},
		},
	}
	return yaml.Marshal(out)
}

// Parse reads an exported document. Analysis fields are dropped from the
// property so the importer recomputes them.
func Parse(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, fmt.Errorf("empty document")
	}

	var raw struct {
		ID          string                 `yaml:"id"`
		ExportedAt  string                 `yaml:"exportedAt"`
		ExpenseMode string                 `yaml:"expenseMode"`
		Property    map[string]interface{} `yaml:"property"`
	}
	if err := yaml.Unmarshal(trimmed, &raw); err != nil {
		return Document{}, fmt.Errorf("failed to parse document: %w", err)
	}
	if raw.Property == nil {
		return Document{}, fmt.Errorf("document has no property")
	}

	doc := Document{
		ID:          raw.ID,
		ExpenseMode: raw.ExpenseMode,
		Property:    property.Property(raw.Property),
	}
	if raw.ExportedAt != "" {
		ts, err := time.Parse(time.RFC3339, raw.ExportedAt)
		if err != nil {
			return Document{}, fmt.Errorf("invalid exportedAt %q: %w", raw.ExportedAt, err)
		}
		doc.ExportedAt = ts
	}
	for _, key := range analysis.ResultFields {
		delete(doc.Property, key)
	}
	return doc, nil
}

type orderedDocument struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedDocument) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}
