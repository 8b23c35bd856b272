//go:build tools

// Package tools tracks development tool versions in go.mod.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
