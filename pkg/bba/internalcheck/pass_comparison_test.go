package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// Pass detection accepts both PBN spellings in any case, so comparing a call
// against a pass literal with == silently misses half the inputs. Everything
// in the facade must go through IsPass.
func TestNoExactPassComparison(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
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
				be, ok := n.(*ast.BinaryExpr)
				if !ok {
					return true
				}
				if be.Op != token.EQL && be.Op != token.NEQ {
					return true
				}
				if isPassLiteral(be.X) || isPassLiteral(be.Y) {
					pos := fset.Position(be.Pos())
					findings = append(findings, fmt.Sprintf("%s: compare passes with IsPass, not ==", pos))
				}
				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("pass comparison policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func isPassLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return false
	}
	switch strings.ToUpper(value) {
	case "PASS", "P":
		return true
	}
	return false
}
