package lang

func init() {
	Register(&LanguageSpec{
		Language:       Rust,
		FileExtensions: []string{".rs"},
		FunctionNodeTypes: []string{
			"function_item",
			"closure_expression",
		},
		ClassNodeTypes: []string{
			"struct_item",
			"enum_item",
			"trait_item",
		},
		CallNodeTypes:    []string{"call_expression"},
		DocCommentPrefix: "///",
	})
}
