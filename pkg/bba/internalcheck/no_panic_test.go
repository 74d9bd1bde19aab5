package internalcheck

import (
	"fmt"
	"go/ast"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// The facade promises that engine misbehavior surfaces as error codes, never
// as a crash, so the package behind that promise must not raise panics of
// its own.
func TestNoPanicsInFacade(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, "github.com/bridgetools/bba-go/pkg/bba")
	if err != nil {
		t.Fatalf("load package: %v", err)
	}

	var findings []string

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			fset := pkg.Fset
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				ident, ok := call.Fun.(*ast.Ident)
				if !ok || ident.Name != "panic" {
					return true
				}
				pos := fset.Position(call.Pos())
				findings = append(findings, fmt.Sprintf("%s: panic in facade code; return an error instead", pos))
				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("fault containment policy violation:\n%s", strings.Join(findings, "\n"))
	}
}
