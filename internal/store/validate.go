package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"rest-api/internal/registry"
)

var allowedPrivilegeMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// validateDocument checks body against the schema's field definitions and
// collects every violation, not just the first one.
func (a *adapter) validateDocument(body map[string]interface{}) []string {
	rules := make(map[string]interface{})
	for _, field := range a.schema.Fields {
		if field.Required {
			rules[field.Name] = "required"
		}
	}
	failures := a.validate.ValidateMap(body, rules)

	var messages []string
	for _, field := range a.schema.Fields {
		if _, failed := failures[field.Name]; failed {
			messages = append(messages, fmt.Sprintf("Path `%s` is required.", field.Name))
			continue
		}

		value, present := body[field.Name]
		if present && value != nil && !matchesFieldType(value, field.Type) {
			messages = append(messages, fmt.Sprintf("Cast to %s failed for path `%s`.", field.Type, field.Name))
		}
	}

	if a.schema.Name == registry.UserCollection {
		messages = append(messages, validatePrivileges(body["privileges"])...)
	}

	return messages
}

func matchesFieldType(value interface{}, fieldType registry.FieldType) bool {
	switch fieldType {
	case registry.FieldTypeString:
		_, ok := value.(string)
		return ok
	case registry.FieldTypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	case registry.FieldTypeBool:
		_, ok := value.(bool)
		return ok
	case registry.FieldTypeList:
		switch value.(type) {
		case []interface{}, bson.A:
			return true
		}
		return false
	}

	return true
}

func validatePrivileges(value interface{}) []string {
	if value == nil {
		return nil
	}

	entries, ok := asList(value)
	if !ok {
		return nil
	}

	var messages []string
	for _, rawEntry := range entries {
		entry, ok := rawEntry.(map[string]interface{})
		if !ok {
			messages = append(messages, "Cast to privilege failed for path `privileges`.")
			continue
		}

		model, _ := entry["model"].(string)
		if model == "" {
			messages = append(messages, "Path `privileges.model` is required.")
		}

		methods, _ := asList(entry["methods"])
		for _, rawMethod := range methods {
			method, _ := rawMethod.(string)
			if !allowedPrivilegeMethods[method] {
				messages = append(
					messages,
					fmt.Sprintf("`%v` is not a valid enum value for path `privileges.methods`.", rawMethod),
				)
			}
		}
	}

	return messages
}

func asList(value interface{}) ([]interface{}, bool) {
	switch typedValue := value.(type) {
	case []interface{}:
		return typedValue, true
	case bson.A:
		return typedValue, true
	}

	return nil, false
}
