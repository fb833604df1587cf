// Package capture defines the tagged spans produced by running highlight
// queries against a parse tree.
package capture

import "strings"

// Kind classifies a capture. The zero value is None, meaning "no capture",
// which renders as plain text.
type Kind int

const (
	None Kind = iota
	Include
	Constructor
	Keyword
	Boolean
	Repeat
	Conditional
	Tag
	Comment
	Variable
	Property
	Function
	Method
	Number
	Float
	String
	Type
	Parameter
	TypeAlternate
	VariableBuiltin
	KeywordReturn
	KeywordFunction
	Identifier
	Operator
	Constant
	Attribute
	Embedded
	Error
	Preproc
	Define
	Debug
	Exception
	Label
	Field
	StorageClass
	Symbol
	Namespace
	Conceal
	Spell
	NoSpell
	Fold
	Punctuation
)

var kindNames = [...]string{
	None:            "none",
	Include:         "include",
	Constructor:     "constructor",
	Keyword:         "keyword",
	Boolean:         "boolean",
	Repeat:          "repeat",
	Conditional:     "conditional",
	Tag:             "tag",
	Comment:         "comment",
	Variable:        "variable",
	Property:        "property",
	Function:        "function",
	Method:          "method",
	Number:          "number",
	Float:           "float",
	String:          "string",
	Type:            "type",
	Parameter:       "parameter",
	TypeAlternate:   "type_alternate",
	VariableBuiltin: "variable.builtin",
	KeywordReturn:   "keyword.return",
	KeywordFunction: "keyword.function",
	Identifier:      "identifier",
	Operator:        "operator",
	Constant:        "constant",
	Attribute:       "attribute",
	Embedded:        "embedded",
	Error:           "error",
	Preproc:         "preproc",
	Define:          "define",
	Debug:           "debug",
	Exception:       "exception",
	Label:           "label",
	Field:           "field",
	StorageClass:    "storageclass",
	Symbol:          "symbol",
	Namespace:       "namespace",
	Conceal:         "conceal",
	Spell:           "spell",
	NoSpell:         "nospell",
	Fold:            "fold",
	Punctuation:     "punctuation",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	// Grammars in the wild spell this one both ways.
	m["prepoc"] = Preproc
	return m
}()

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Alternate returns the secondary styling kind used by some themes.
func (k Kind) Alternate() Kind {
	if k == Type {
		return TypeAlternate
	}
	return k
}

// ParseKind resolves a raw capture name such as "keyword.return" or
// "string.special.url". Dotted names fall back to their longest known prefix.
// "none" and unknown names report false so the capture is dropped.
func ParseKind(name string) (Kind, bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	for name != "" {
		if k, ok := kindByName[name]; ok {
			if k == None {
				return None, false
			}
			return k, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return None, false
}

// Kinds lists every capture kind except None.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := range kindNames {
		if Kind(k) != None {
			out = append(out, Kind(k))
		}
	}
	return out
}
