//go:build tools

// Package tools pins development tools in go.mod.
package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
)
