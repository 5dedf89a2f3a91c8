package lang

func init() {
	Register(&LanguageSpec{
		Language:       CSharp,
		FileExtensions: []string{".cs"},
		FunctionNodeTypes: []string{
			"method_declaration",
			"constructor_declaration",
			"local_function_statement",
		},
		ClassNodeTypes: []string{
			"class_declaration",
			"struct_declaration",
			"interface_declaration",
			"enum_declaration",
		},
		CallNodeTypes:    []string{"invocation_expression", "object_creation_expression"},
		DocCommentPrefix: "///",
	})
}
