package syntax

const goHighlights = `
(comment) @comment
(interpreted_string_literal) @string
(raw_string_literal) @string
(rune_literal) @string
(escape_sequence) @string.escape
(int_literal) @number
(float_literal) @float
(imaginary_literal) @number
[(true) (false)] @boolean
[(nil) (iota)] @constant
(type_identifier) @type
((identifier) @type (#match? @type "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @function.builtin (#match? @function.builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
(const_spec name: (identifier) @constant)
(field_identifier) @property
(package_identifier) @namespace
(label_name) @label
(parameter_declaration name: (identifier) @parameter)
(function_declaration name: (identifier) @function)
(method_declaration name: (field_identifier) @method)
(call_expression function: (identifier) @function)
(call_expression function: (selector_expression field: (field_identifier) @method))
"func" @keyword.function
"return" @keyword.return
["for" "range"] @repeat
["if" "else" "switch" "case" "default" "select"] @conditional
["import" "package"] @include
["break" "chan" "const" "continue" "defer" "go" "goto" "interface" "map" "struct" "type" "var" "fallthrough"] @keyword
["+" "-" "*" "/" "%" "=" ":=" "==" "!=" "<" "<=" ">" ">=" "&&" "||" "!" "&" "|" "^" "<-" "++" "--" "+=" "-="] @operator
`

const javascriptHighlights = `
(comment) @comment
(string) @string
(template_string) @string
(regex) @string
(number) @number
[(true) (false)] @boolean
[(null) (undefined)] @constant
(this) @variable.builtin
(property_identifier) @property
(function_declaration name: (identifier) @function)
(call_expression function: (identifier) @function)
(call_expression function: (member_expression property: (property_identifier) @method))
"function" @keyword.function
"return" @keyword.return
["for" "while" "do"] @repeat
["if" "else" "switch" "case"] @conditional
["import" "export" "from"] @include
["const" "let" "var" "new" "class" "extends" "async" "await" "typeof" "instanceof" "in" "of" "delete" "void" "yield" "break" "continue"] @keyword
["throw" "try" "catch" "finally"] @exception
`

const htmlHighlights = `
(tag_name) @tag
(erroneous_end_tag_name) @error
(doctype) @constant
(attribute_name) @attribute
(attribute_value) @string
(quoted_attribute_value) @string
(comment) @comment
["<" ">" "</" "/>"] @punctuation
`

const htmlScriptInjection = `(script_element (raw_text) @content)`

const htmlStyleInjection = `(style_element (raw_text) @content)`

const cssHighlights = `
(comment) @comment
(tag_name) @tag
(class_name) @property
(id_name) @property
(property_name) @property
(string_value) @string
(integer_value) @number
(float_value) @number
(color_value) @constant
(plain_value) @variable
(important) @keyword
(at_keyword) @keyword
`

const jsonHighlights = `
(pair key: (string) @property)
(string) @string
(number) @number
[(true) (false)] @boolean
(null) @constant
(escape_sequence) @string.escape
(comment) @comment
`

const markdownHighlights = `
(atx_heading) @tag
(setext_heading) @tag
(fenced_code_block_delimiter) @punctuation
(info_string) @label
(thematic_break) @punctuation
[(list_marker_minus) (list_marker_star) (list_marker_plus) (list_marker_dot)] @punctuation
`

const markdownFenceInjection = `(fenced_code_block (info_string (language) @language) (code_fence_content) @content)`

const yamlHighlights = `
(comment) @comment
(string_scalar) @string
(double_quote_scalar) @string
(single_quote_scalar) @string
(integer_scalar) @number
(float_scalar) @float
(null_scalar) @constant
(boolean_scalar) @boolean
(block_mapping_pair key: (_) @property)
(flow_pair key: (_) @property)
(anchor_name) @label
(alias_name) @label
(tag) @type
`

const tomlHighlights = `
(comment) @comment
(string) @string
(integer) @number
(float) @float
(boolean) @boolean
(local_date) @string
(local_time) @string
(local_date_time) @string
(offset_date_time) @string
(bare_key) @property
(quoted_key) @property
(table (bare_key) @type)
(table (dotted_key) @type)
(table_array_element (bare_key) @type)
`
