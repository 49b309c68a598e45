package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "votekit"

type importKind int

const (
	kindStdlib importKind = iota
	kindOwnModule
	kindModuleRoot
	kindOtherContext
	kindInfrastructure
	kindThirdParty
)

// layerRule lists what a layer of a bounded-context module may import.
// Allowed entries are relative to the module, e.g. "domain" or "ports".
type layerRule struct {
	allowed        []string
	thirdParty     bool
	infrastructure bool
}

var layerRules = map[string]layerRule{
	"domain":      {allowed: []string{"domain"}},
	"ports":       {allowed: []string{"domain"}},
	"application": {allowed: []string{"application", "domain", "ports"}},
	"transport":   {allowed: []string{"transport"}},
	"adapters": {
		allowed:        []string{"adapters", "application", "domain", "ports", "transport"},
		thirdParty:     true,
		infrastructure: true,
	},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	root := "contexts"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	violations, err := collectViolations(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boundary check failed: %v\n", err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, laid out as <context>/<module>/<layer>/...,
// and checks every non-test Go file against its layer rule. Files at the
// module root compose the layers and are not checked.
func collectViolations(root string) ([]violation, error) {
	var violations []violation

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 4 {
			return nil
		}

		modulePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		rule, ok := layerRules[parts[2]]
		if !ok {
			violations = append(violations, violation{
				File: filepath.ToSlash(path),
				Line: 1,
				Rule: fmt.Sprintf("unknown layer %q", parts[2]),
			})
			return nil
		}

		violations = append(violations, validateFile(path, parts[2], rule, modulePrefix)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})
	return violations, nil
}

func validateFile(path string, layer string, rule layerRule, modulePrefix string) []violation {
	file := filepath.ToSlash(path)

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: file, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range parsed.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line
		for _, reason := range checkImport(layer, rule, modulePrefix, importPath) {
			violations = append(violations, violation{File: file, Line: line, Import: importPath, Rule: reason})
		}
	}
	return violations
}

// checkImport returns the rules importPath breaks for a file in layer.
func checkImport(layer string, rule layerRule, modulePrefix string, importPath string) []string {
	switch classify(importPath, modulePrefix) {
	case kindStdlib:
		return nil
	case kindModuleRoot:
		return []string{layer + " must not import the module root"}
	case kindOtherContext:
		return []string{"cross-module imports are forbidden"}
	case kindInfrastructure:
		if rule.infrastructure {
			return nil
		}
		return []string{layer + " must not import runtime infrastructure"}
	case kindThirdParty:
		if rule.thirdParty {
			return nil
		}
		return []string{layer + " must not import third-party packages"}
	}

	rel := strings.TrimPrefix(importPath, modulePrefix+"/")
	for _, allowed := range rule.allowed {
		if hasPrefix(rel, allowed) {
			return nil
		}
	}
	return []string{fmt.Sprintf("%s may only import %s of its module", layer, strings.Join(rule.allowed, ", "))}
}

func classify(importPath string, modulePrefix string) importKind {
	switch {
	case importPath == modulePrefix:
		return kindModuleRoot
	case hasPrefix(importPath, modulePrefix):
		return kindOwnModule
	case hasPrefix(importPath, modulePath+"/contexts"):
		return kindOtherContext
	case hasPrefix(importPath, modulePath):
		return kindInfrastructure
	case isStdlib(importPath):
		return kindStdlib
	default:
		return kindThirdParty
	}
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Standard library paths never carry a dot in their first element.
func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
