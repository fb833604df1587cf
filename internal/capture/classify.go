package capture

import (
	"strings"
	"unicode"

	"livehl/internal/lang"
)

// Leaf describes a childless syntax node together with the types of its two
// nearest ancestors.
type Leaf struct {
	Type       string
	Named      bool
	ParentType string
	GrandType  string
	Text       []byte
}

// ClassifyLeaf guesses a capture kind for a leaf node from node-type naming
// conventions shared by most tree-sitter grammars. It backs grammars that ship
// without a highlight query.
func ClassifyLeaf(id lang.ID, leaf Leaf) Kind {
	nodeType := strings.ToLower(leaf.Type)
	parentType := strings.ToLower(leaf.ParentType)
	grandType := strings.ToLower(leaf.GrandType)
	lexeme := strings.ToLower(strings.TrimSpace(string(leaf.Text)))

	if nodeType == "error" || strings.Contains(nodeType, "invalid") {
		return Error
	}
	if strings.Contains(nodeType, "comment") {
		return Comment
	}
	if strings.Contains(nodeType, "string") || strings.Contains(nodeType, "char") || strings.Contains(nodeType, "heredoc") {
		if id == lang.JSON && (parentType == "pair" || grandType == "pair") {
			return Property
		}
		return String
	}
	if strings.Contains(nodeType, "number") || strings.Contains(nodeType, "integer") || strings.Contains(nodeType, "float") || strings.Contains(nodeType, "numeric") {
		return Number
	}
	if lexeme == "true" || lexeme == "false" {
		return Boolean
	}
	if lexeme == "null" || lexeme == "nil" || lexeme == "none" {
		return Constant
	}

	if strings.HasSuffix(nodeType, "keyword") {
		return Keyword
	}

	if strings.Contains(nodeType, "type_identifier") || strings.Contains(nodeType, "primitive_type") || strings.Contains(nodeType, "predefined_type") {
		return Type
	}

	if isIdentifierNode(nodeType) {
		if isTypeContext(id, parentType, grandType) {
			return Type
		}
		if isFunctionContext(id, parentType, grandType) {
			return Function
		}
		if isLikelyConstant(strings.TrimSpace(string(leaf.Text))) {
			return Constant
		}
	}

	if keywordSet[lexeme] {
		if k, ok := keywordKinds[lexeme]; ok {
			return k
		}
		return Keyword
	}
	if operatorSet[lexeme] {
		return Operator
	}

	if !leaf.Named {
		if looksLikeOperator(lexeme) {
			return Operator
		}
	}

	return None
}

func isIdentifierNode(nodeType string) bool {
	return nodeType == "identifier" || nodeType == "property_identifier" || strings.HasSuffix(nodeType, "identifier") || strings.HasSuffix(nodeType, "name")
}

func isFunctionContext(id lang.ID, parentType string, grandType string) bool {
	if strings.Contains(parentType, "function") || strings.Contains(parentType, "method") || strings.Contains(parentType, "call") || strings.Contains(grandType, "function") || strings.Contains(grandType, "method") || strings.Contains(grandType, "call") {
		return true
	}

	if set, ok := functionContextByLang[id]; ok && (set[parentType] || set[grandType]) {
		return true
	}
	return false
}

func isTypeContext(id lang.ID, parentType string, grandType string) bool {
	if strings.Contains(parentType, "type") || strings.Contains(grandType, "type") || strings.Contains(parentType, "class") || strings.Contains(parentType, "struct") || strings.Contains(parentType, "interface") || strings.Contains(parentType, "trait") || strings.Contains(grandType, "class") || strings.Contains(grandType, "struct") || strings.Contains(grandType, "interface") || strings.Contains(grandType, "trait") {
		return true
	}

	if set, ok := typeContextByLang[id]; ok && (set[parentType] || set[grandType]) {
		return true
	}
	return false
}

func isLikelyConstant(s string) bool {
	if len(s) < 2 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r == '_':
			continue
		case unicode.IsDigit(r):
			continue
		case unicode.IsLetter(r):
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		default:
			return false
		}
	}
	return hasLetter
}

func looksLikeOperator(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch r {
		case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '^', '~', ':', ';', ',', '.', '?', '(', ')', '[', ']', '{', '}':
		default:
			return false
		}
	}
	return true
}

var functionContextByLang = map[lang.ID]map[string]bool{
	lang.Go: {
		"function_declaration": true,
		"method_declaration":   true,
		"call_expression":      true,
		"selector_expression":  true,
	},
	lang.Rust: {
		"function_item":    true,
		"call_expression":  true,
		"field_expression": true,
	},
	lang.JavaScript: {
		"function_declaration": true,
		"method_definition":    true,
		"call_expression":      true,
		"member_expression":    true,
	},
	lang.TypeScript: {
		"function_declaration": true,
		"method_definition":    true,
		"call_expression":      true,
		"member_expression":    true,
	},
	lang.TSX: {
		"function_declaration": true,
		"method_definition":    true,
		"call_expression":      true,
		"member_expression":    true,
	},
	lang.Python: {
		"function_definition": true,
		"call":                true,
	},
	lang.C: {
		"function_definition": true,
		"call_expression":     true,
	},
	lang.CPP: {
		"function_definition": true,
		"call_expression":     true,
	},
}

var typeContextByLang = map[lang.ID]map[string]bool{
	lang.Go: {
		"type_spec":             true,
		"type_declaration":      true,
		"parameter_declaration": true,
		"var_declaration":       true,
	},
	lang.Rust: {
		"struct_item": true,
		"enum_item":   true,
		"trait_item":  true,
		"type_item":   true,
	},
	lang.JavaScript: {
		"class_declaration": true,
		"type_annotation":   true,
	},
	lang.TypeScript: {
		"interface_declaration":  true,
		"type_alias_declaration": true,
		"type_annotation":        true,
		"class_declaration":      true,
	},
	lang.TSX: {
		"interface_declaration":  true,
		"type_alias_declaration": true,
		"type_annotation":        true,
		"class_declaration":      true,
	},
	lang.Python: {
		"class_definition": true,
	},
}

var keywordSet = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true, "def": true,
	"default": true, "defer": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "fallthrough": true, "finally": true,
	"fn": true, "for": true, "from": true, "func": true, "function": true,
	"if": true, "impl": true, "import": true, "in": true, "include": true,
	"interface": true, "let": true, "loop": true, "match": true, "mod": true,
	"module": true, "mut": true, "namespace": true, "new": true, "package": true,
	"pub": true, "raise": true, "return": true, "struct": true, "switch": true,
	"trait": true, "try": true, "type": true, "use": true, "var": true,
	"while": true, "with": true, "yield": true,
}

var keywordKinds = map[string]Kind{
	"return": KeywordReturn, "yield": KeywordReturn,
	"func": KeywordFunction, "function": KeywordFunction, "fn": KeywordFunction, "def": KeywordFunction,
	"for": Repeat, "while": Repeat, "loop": Repeat, "do": Repeat,
	"if": Conditional, "else": Conditional, "switch": Conditional, "case": Conditional, "match": Conditional,
	"import": Include, "include": Include, "use": Include, "package": Include, "from": Include,
	"try": Exception, "catch": Exception, "finally": Exception, "raise": Exception,
}

var operatorSet = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"=": true, "==": true, "!=": true, "<": true, "<=": true,
	">": true, ">=": true, "&&": true, "||": true, "!": true,
	"&": true, "|": true, "^": true, "~": true, "->": true,
	"=>": true, "::": true, ":": true, ";": true, ",": true,
	".": true, "?": true, "(": true, ")": true, "[": true,
	"]": true, "{": true, "}": true,
}
