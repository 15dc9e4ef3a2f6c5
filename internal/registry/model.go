package registry

type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
	FieldTypeBool   FieldType = "boolean"
	FieldTypeList   FieldType = "list"
)

type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

type Schema struct {
	Name   string
	Fields []Field
}

// UserCollection is the collection carrying login identities and
// privilege grants; the store applies password hashing to it.
const UserCollection = "user"
