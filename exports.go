// Package asnc compiles ASN.1 schema modules into codec-ready native
// type models.
package asnc

import (
	"github.com/golangsnmp/asnc/internal/lower"
	"github.com/golangsnmp/asnc/internal/naming"
	"github.com/golangsnmp/asnc/internal/native"
	"github.com/golangsnmp/asnc/internal/parser"
	"github.com/golangsnmp/asnc/internal/resolver"
	"github.com/golangsnmp/asnc/internal/schema"
)

// Type aliases for the public API.

// Module is a resolved schema module.
type Module = schema.Module

// Model is the lowered, native form of one module.
type Model = native.Model

// Definition is one top-level native definition.
type Definition = native.Definition

// Tag identifies a type's wire representation.
type Tag = schema.Tag

// Naming selects how identifiers are rewritten during lowering.
type Naming = naming.Mode

// Naming modes.
const (
	Normalize = naming.Normalize
	Verbatim  = naming.Verbatim
)

// ParseNaming parses "normalize" or "verbatim".
var ParseNaming = naming.ParseMode

// Error types returned (wrapped) by Compile and Load. Use errors.As.
type (
	ParseError   = parser.Error
	ResolveError = resolver.Error
	LowerError   = lower.Error
)
