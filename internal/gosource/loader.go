// Package gosource reads contract candidates from Go source.
//
// A candidate is a named type whose doc comment carries a client directive:
//
//	//faux:client name=users route=api/v1
//	type UserService interface {
//		//faux:http GET /users/{id}
//		//faux:path id
//		Get(ctx context.Context, id string) (User, error)
//	}
//
// Method directives bind the request shape; see ParseDirective for the
// accepted forms.
package gosource

import (
	"context"
	"fmt"

	"golang.org/x/tools/go/packages"

	"github.com/okra-platform/faux/internal/contract"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

// Load type-checks the packages matching patterns, relative to dir, and
// extracts their contract candidates in package order.
func Load(ctx context.Context, dir string, patterns ...string) ([]contract.TypeInfo, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %v", patterns)
	}

	var out []contract.TypeInfo
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s: %v", pkg.PkgPath, pkg.Errors[0])
		}

		infos, err := Extract(pkg.Fset, pkg.Syntax, pkg.Types, pkg.TypesInfo)
		if err != nil {
			return nil, err
		}
		out = append(out, infos...)
	}

	return out, nil
}
