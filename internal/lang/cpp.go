package lang

func init() {
	Register(&LanguageSpec{
		Language:       CPP,
		FileExtensions: []string{".cpp", ".h", ".hpp", ".cc", ".cxx", ".hh"},
		FunctionNodeTypes: []string{
			"function_definition",
			"lambda_expression",
		},
		ClassNodeTypes: []string{
			"class_specifier",
			"struct_specifier",
			"enum_specifier",
		},
		CallNodeTypes:    []string{"call_expression", "new_expression"},
		DocCommentPrefix: "//",
	})
}
