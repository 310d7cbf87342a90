package ast

import "github.com/boolexpr/booleano-go/pkg/ident"

func lowerFold(s string) string { return ident.Fold(s) }

func lowerFoldAll(segments []string) []string { return ident.FoldAll(segments) }
