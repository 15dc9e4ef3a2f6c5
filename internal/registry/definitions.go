package registry

// Default returns the registry with the packaged collection schemas.
func Default() *Registry {
	return NewRegistry(
		Schema{
			Name: UserCollection,
			Fields: []Field{
				{Name: "name", Type: FieldTypeString, Required: true},
				{Name: "lastname", Type: FieldTypeString, Required: true},
				{Name: "nickname", Type: FieldTypeString},
				{Name: "email", Type: FieldTypeString, Required: true},
				{Name: "phone", Type: FieldTypeString, Required: true},
				{Name: "password", Type: FieldTypeString, Required: true},
				{Name: "privileges", Type: FieldTypeList},
			},
		},
		Schema{
			Name: "note",
			Fields: []Field{
				{Name: "title", Type: FieldTypeString, Required: true},
				{Name: "body", Type: FieldTypeString},
			},
		},
	)
}
