// Package cppparse is a structural recognizer for a practical subset of C++
// header syntax. It parses one header's full text into a cppast.Header
// without a preprocessor or compiler front end: function bodies are opaque
// balanced-brace blocks, includes are recorded but never resolved, and
// preprocessor lines are captured raw.
//
// Every recognizer is a pure function from a byte position to a value and a
// new position, or a *ParseError carrying the offset and the enclosing
// declaration path. Where the grammar is ambiguous (method vs. member,
// classic vs. trailing-return declarators), alternatives are tried in a
// fixed order and the first success wins.
//
// A Dialect plugs framework reflection macros into the same grammar;
// Plain() parses standard headers, Unreal() additionally captures UCLASS,
// UFUNCTION, and UPROPERTY annotations and swallows GENERATED_BODY lines.
package cppparse
