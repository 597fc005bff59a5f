package catalog

import "strings"

func sig(label, doc string, params ...Parameter) *Signature {
	return &Signature{Label: label, Documentation: doc, Parameters: params}
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

var conditionParam = Parameter{Name: "condition", Documentation: "Boolean condition to evaluate"}

// builtinSymbols is the Vibe vocabulary in declaration order. Completion
// lists follow this order.
var builtinSymbols = []Entry{
	{Name: "starterPack", Category: CategoryKeyword, Documentation: "Initialize a new Vibe pack", InsertTemplate: "starterPack {\n\t$0\n}"},
	{Name: "shoutout", Category: CategoryBuiltinFunction, Documentation: "Print to console (equivalent to print())", InsertTemplate: "shoutout($0)",
		Signature: sig("shoutout(message)", "Display a message (equivalent to print())",
			Parameter{Name: "message", Documentation: "The message to display"})},
	{Name: "smash", Category: CategoryKeyword, Documentation: "Conditional statement (if)", InsertTemplate: "smash($0) {\n\t\n}",
		Signature: sig("smash(condition)", "Conditional if statement", conditionParam)},
	{Name: "maybe", Category: CategoryKeyword, Documentation: "Alternative condition (else if)", InsertTemplate: "maybe($0) {\n\t\n}",
		Signature: sig("maybe(condition)", "Else-if conditional statement", conditionParam)},
	{Name: "pass", Category: CategoryKeyword, Documentation: "Final condition (else)", InsertTemplate: "pass {\n\t$0\n}"},
	{Name: "grind", Category: CategoryKeyword, Documentation: "While loop construct", InsertTemplate: "grind($0) {\n\t\n}",
		Signature: sig("grind(condition)", "While loop construct",
			Parameter{Name: "condition", Documentation: "Loop condition"})},
	{Name: "yeet", Category: CategoryKeyword, Documentation: "For loop construct", InsertTemplate: "yeet($0) {\n\t\n}",
		Signature: sig("yeet(iterator)", "For loop construct",
			Parameter{Name: "iterator", Documentation: "Loop iterator"})},
	{Name: "serve", Category: CategoryKeyword, Documentation: "Function declaration (equivalent to function)", InsertTemplate: "serve $0() {\n\t\n}"},
	{Name: "staph", Category: CategoryKeyword, Documentation: "Stop execution (equivalent to break)", InsertTemplate: "staph;"},
	{Name: "noCap", Category: CategoryConstant, Documentation: "Boolean true value", InsertTemplate: "noCap"},
	{Name: "cap", Category: CategoryConstant, Documentation: "Boolean false value", InsertTemplate: "cap"},
	{Name: "ghosted", Category: CategoryConstant, Documentation: "Null value", InsertTemplate: "ghosted"},
	{Name: "clout", Category: CategoryDatatype, Documentation: "Integer data type", InsertTemplate: "clout"},
	{Name: "ratio", Category: CategoryDatatype, Documentation: "Float data type", InsertTemplate: "ratio"},
	{Name: "tea", Category: CategoryDatatype, Documentation: "String data type", InsertTemplate: "tea"},
	{Name: "mood", Category: CategoryDatatype, Documentation: "Boolean data type", InsertTemplate: "mood"},
	{Name: "gang", Category: CategoryDatatype, Documentation: "Array/List data type", InsertTemplate: "gang"},
	{Name: "wiki", Category: CategoryDatatype, Documentation: "Dictionary/map data structure", InsertTemplate: "wiki"},
	{Name: "tryhard-flopped", Category: CategoryKeyword, Documentation: "Try-catch block", InsertTemplate: "tryhard-flopped {\n\t$0\n}"},
	{Name: "flopped", Category: CategoryKeyword, Documentation: "Catch clause of a tryhard-flopped block", InsertTemplate: "flopped {\n\t$0\n}"},
	{Name: "chooseYourFighter", Category: CategoryBuiltinFunction, Documentation: "Switch statement", InsertTemplate: "chooseYourFighter($0) {\n\t\n}",
		Signature: sig("chooseYourFighter(expression)", "Switch statement based on expression value",
			Parameter{Name: "expression", Documentation: "The expression to evaluate"})},
	{Name: "itsGiving", Category: CategoryBuiltinFunction, Documentation: "Get type of variable (equivalent to typeOf())", InsertTemplate: "itsGiving($0)",
		Signature: sig("itsGiving(value)", "Returns the type of the provided value",
			Parameter{Name: "value", Documentation: "The value to check the type of"})},
	{Name: "spillTheTea", Category: CategoryBuiltinFunction, Documentation: "Get user input (equivalent to input())", InsertTemplate: "spillTheTea($0)",
		Signature: sig("spillTheTea(prompt)", "Get user input with an optional prompt",
			Parameter{Name: "prompt", Documentation: "Optional message to display before input"})},
}

var builtinSnippets = []Entry{
	{Name: "vibeblock", Category: CategorySnippet, Documentation: "Create a basic Vibe block", InsertTemplate: lines(
		"starterPack {",
		"\tshoutout(\"Hello Vibe World\")",
		"\t$0",
		"}")},
	{Name: "conditional", Category: CategorySnippet, Documentation: "Create a conditional statement", InsertTemplate: lines(
		"smash($1) {",
		"\t$2",
		"} maybe($3) {",
		"\t$4",
		"} pass {",
		"\t$0",
		"}")},
	{Name: "whileLoop", Category: CategorySnippet, Documentation: "Create a while loop", InsertTemplate: lines(
		"grind($1) {",
		"\t$0",
		"}")},
	{Name: "forLoop", Category: CategorySnippet, Documentation: "Create a for loop", InsertTemplate: lines(
		"yeet(let i = 0; i < 10; i++) {",
		"\tshoutout(\"Loop iteration: \" + i)",
		"\t$0",
		"}")},
	{Name: "function", Category: CategorySnippet, Documentation: "Create a function", InsertTemplate: lines(
		"serve $1($2) {",
		"\t$0",
		"\treturn \"result\"",
		"}")},
	{Name: "tryExample", Category: CategorySnippet, Documentation: "Create a try-catch block", InsertTemplate: lines(
		"tryhard-flopped {",
		"\t$1",
		"} flopped {",
		"\tshoutout(\"Error caught!\")",
		"\t$0",
		"}")},
	{Name: "switchExample", Category: CategorySnippet, Documentation: "Create a switch statement", InsertTemplate: lines(
		"chooseYourFighter($1) {",
		"\tcase \"$2\":",
		"\t\t$3",
		"\t\tstaph;",
		"\tdefault:",
		"\t\t$0",
		"\t\tstaph;",
		"}")},
	{Name: "wikiExample", Category: CategorySnippet, Documentation: "Create a dictionary/map", InsertTemplate: lines(
		"let myDict = wiki {",
		"\t\"key1\": \"value1\",",
		"\t\"key2\": 42,",
		"\t\"key3\": noCap",
		"};",
		"$0")},
	{Name: "gangExample", Category: CategorySnippet, Documentation: "Create an array/list", InsertTemplate: lines(
		"let myArray = gang [",
		"\t\"item1\",",
		"\t42,",
		"\tnoCap",
		"];",
		"$0")},
	{Name: "dataTypesExample", Category: CategorySnippet, Documentation: "Examples of all data types", InsertTemplate: lines(
		"clout myInt = 42;",
		"ratio myFloat = 3.14;",
		"tea myString = \"Hello World\";",
		"mood myBool = noCap;",
		"gang myArray = [1, 2, 3];",
		"wiki myDict = {\"key\": \"value\"};",
		"$0")},
}

// Default builds the built-in Vibe catalog. Each call returns a fresh,
// independent catalog.
func Default() *Catalog {
	c, err := New(builtinSymbols, builtinSnippets)
	if err != nil {
		panic("built-in catalog is invalid: " + err.Error())
	}
	return c
}
