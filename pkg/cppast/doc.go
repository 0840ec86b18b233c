// Package cppast defines the abstract syntax tree produced by parsing a C++
// header: type expressions, methods, members, classes, namespaces, enums,
// and the Header root aggregate.
//
// All string fields are substrings of the original input buffer, so a parsed
// tree must not outlive the text it was parsed from.
package cppast
