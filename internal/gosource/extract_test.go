package gosource

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/contract"
)

// Test plan for Extract:
// 1. Client directive marks candidates; plain types are ignored
// 2. Method directives bind parameters and the return slot
// 3. Result lists map to void, value, Task and Future
// 4. Leading context parameters are recorded, not listed
// 5. Generic, unexported and non-interface candidates are still extracted,
//    without checking their methods
// 6. Directive misuse and unsupported signatures fail with CompileError
// 7. Extracted candidates compile end to end
// 8. Load reads a real module from disk

const stubContext = `package context
type Context interface{ Done() <-chan struct{} }
`

const stubRuntime = `package fauxhttp
type Task struct{ done chan struct{} }
type Future[T any] struct {
	*Task
	value T
}
`

// stubImporter serves hermetic context and runtime packages
type stubImporter map[string]*types.Package

func (s stubImporter) Import(path string) (*types.Package, error) {
	if p, ok := s[path]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("package %s not available", path)
}

func checkSource(t *testing.T, fset *token.FileSet, imp types.Importer, path, src string) (*types.Package, *types.Info, *ast.File) {
	t.Helper()
	f, err := parser.ParseFile(fset, filepath.Base(path)+".go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{Defs: make(map[*ast.Ident]types.Object)}
	conf := types.Config{Importer: imp}
	pkg, err := conf.Check(path, fset, []*ast.File{f}, info)
	require.NoError(t, err)
	return pkg, info, f
}

func extractSource(t *testing.T, src string) ([]contract.TypeInfo, error) {
	t.Helper()
	fset := token.NewFileSet()
	imp := stubImporter{}

	ctxPkg, _, _ := checkSource(t, fset, imp, "context", stubContext)
	imp["context"] = ctxPkg
	rtPkg, _, _ := checkSource(t, fset, imp, contract.RuntimePackage, stubRuntime)
	imp[contract.RuntimePackage] = rtPkg

	pkg, info, f := checkSource(t, fset, imp, "example.com/users", src)
	return Extract(fset, []*ast.File{f}, pkg, info)
}

const usersSource = `package users

import (
	"context"

	"github.com/okra-platform/faux/fauxhttp"
)

type User struct {
	ID   string
	Name string
}

// Job embeds the future of a user
type Job struct {
	*fauxhttp.Future[User]
}

// Not a candidate.
type Plain interface {
	Ping(ctx context.Context) error
}

// UserService talks to the user directory.
//
//faux:client name=users route=api/v1
type UserService interface {
	// Get fetches one user.
	//faux:http GET /users/{id}
	//faux:path id
	Get(ctx context.Context, id string) (User, error)

	//faux:http POST /users
	//faux:body user json
	Create(ctx context.Context, user User) *fauxhttp.Future[User]

	//faux:http HEAD /ping
	Ping(ctx context.Context) *fauxhttp.Task

	//faux:http PUT /users/{id}/tag
	//faux:path id
	//faux:response-header etag ETag
	Tag(ctx context.Context, id string, etag *string) error

	//faux:http POST /users/{id}
	//faux:path id
	//faux:return-header Location
	Locate(id string) (string, error)

	//faux:http GET /users/{id}/job
	//faux:path id
	Watch(ctx context.Context, id string) *Job
}
`

func TestExtract_Service(t *testing.T) {
	infos, err := extractSource(t, usersSource)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	info := infos[0]
	assert.Equal(t, "UserService", info.Name)
	assert.Equal(t, "example.com/users", info.Package)
	assert.Equal(t, "users", info.PackageName)
	assert.Equal(t, "UserService talks to the user directory.", info.Doc)
	assert.True(t, info.Interface)
	assert.True(t, info.Public)
	assert.Empty(t, info.TypeParams)

	client, ok := contract.Find(info.Annotations, contract.AnnotationClient)
	require.True(t, ok)
	assert.Equal(t, "users", client.Arg(contract.ArgName))
	assert.Equal(t, "api/v1", client.Arg(contract.ArgRoute))

	var names []string
	for _, m := range info.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Get", "Create", "Ping", "Tag", "Locate", "Watch"}, names, "declaration order is kept")
}

func TestExtract_Methods(t *testing.T) {
	infos, err := extractSource(t, usersSource)
	require.NoError(t, err)
	methods := infos[0].Methods

	get := methods[0]
	assert.Equal(t, "Get fetches one user.", get.Doc)
	assert.True(t, get.Context)
	require.Len(t, get.Params, 1)
	assert.Equal(t, "id", get.Params[0].Name)
	path, ok := contract.Find(get.Params[0].Annotations, contract.AnnotationPath)
	require.True(t, ok)
	assert.Equal(t, "", path.Arg("param"), "parameter selector is stripped")
	assert.Equal(t, "users.User", get.Result.String())
	httpAnn, _ := contract.Find(get.Annotations, contract.AnnotationHTTP)
	assert.Equal(t, "GET", httpAnn.Arg(contract.ArgMethod))

	create := methods[1]
	assert.Equal(t, "*fauxhttp.Future[users.User]", create.Result.String())
	assert.True(t, create.Result.DerivesFrom(contract.RuntimePackage, "Task"))
	body, _ := contract.Find(create.Params[0].Annotations, contract.AnnotationBody)
	assert.Equal(t, "json", body.Arg(contract.ArgKind))

	ping := methods[2]
	assert.Equal(t, "*fauxhttp.Task", ping.Result.String())

	tag := methods[3]
	assert.True(t, tag.Result.IsVoid())
	assert.Equal(t, "*string", tag.Params[1].Type.String())

	locate := methods[4]
	assert.False(t, locate.Context)
	require.Len(t, locate.ReturnAnnotations, 1)
	assert.Equal(t, "Location", locate.ReturnAnnotations[0].Arg(contract.ArgName))

	// Test: a type embedding the future derives from Task through two levels
	watch := methods[5]
	assert.True(t, watch.Result.DerivesFrom(contract.RuntimePackage, "Task"))
}

func TestExtract_CompilesEndToEnd(t *testing.T) {
	infos, err := extractSource(t, usersSource)
	require.NoError(t, err)

	c, err := compiler.Compile(infos[0])
	require.NoError(t, err)
	assert.Equal(t, "UsersUserService", c.ClassName())
	assert.Equal(t, compiler.Async, c.Methods[1].Mode)
	assert.True(t, c.Methods[2].Void)
	assert.Equal(t, compiler.ReturnHeader, c.Methods[4].Return.Role)

	// Test: a derived wrapper without type arguments is void-asynchronous
	assert.Equal(t, compiler.Async, c.Methods[5].Mode)
	assert.True(t, c.Methods[5].Void)
}

func TestExtract_Candidates(t *testing.T) {
	src := `package users

import "context"

//faux:client
type Repo[T any] interface {
	Get(ctx context.Context) (T, error)
}

//faux:client
type hidden interface {
	Ping(ctx context.Context) error
}

//faux:client
type Widget struct{}
`
	infos, err := extractSource(t, src)
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, []string{"T"}, infos[0].TypeParams)
	assert.False(t, infos[1].Public)
	assert.False(t, infos[2].Interface)

	// Test: each fails validation for its own reason
	for i, constraint := range []compiler.Constraint{compiler.ConstraintNonGeneric, compiler.ConstraintPublic, compiler.ConstraintInterface} {
		_, err := compiler.Compile(infos[i])
		var verr *compiler.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, constraint, verr.Constraint)
	}
}

func TestExtract_IneligibleSignatures(t *testing.T) {
	// Test: ineligible candidates with unsupported methods fail validation,
	// not compilation
	src := `package users

type Base interface {
	Close() error
}

//faux:client
type Repo[T any] interface {
	Get(id string) T
}

//faux:client
type hidden interface {
	Find(ids ...string) error
}

//faux:client
type Store[T any] interface {
	Base
}
`
	infos, err := extractSource(t, src)
	require.NoError(t, err)
	require.Len(t, infos, 3)

	tests := []struct {
		name       string
		constraint compiler.Constraint
	}{
		{"Repo", compiler.ConstraintNonGeneric},
		{"hidden", compiler.ConstraintPublic},
		{"Store", compiler.ConstraintNonGeneric},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := infos[i]
			assert.Equal(t, tt.name, info.Name)
			assert.Empty(t, info.Methods)

			_, err := compiler.Compile(info)
			require.ErrorIs(t, err, compiler.ErrValidation)
			assert.NotErrorIs(t, err, compiler.ErrCompile)

			var verr *compiler.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.constraint, verr.Constraint)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{
			name: "unknown parameter",
			body: `//faux:http GET /x
	//faux:query missing
	Get(ctx context.Context) error`,
			contains: `unknown parameter "missing"`,
		},
		{
			name:     "unnamed parameter",
			body:     `Get(context.Context, string) error`,
			contains: "must be named",
		},
		{
			name:     "variadic",
			body:     `Get(ctx context.Context, ids ...string) error`,
			contains: "variadic",
		},
		{
			name:     "no error result",
			body:     `Get(ctx context.Context) string`,
			contains: "unsupported result list",
		},
		{
			name:     "no results",
			body:     `Get(ctx context.Context)`,
			contains: "unsupported result list",
		},
		{
			name: "client on method",
			body: `//faux:client
	Get(ctx context.Context) error`,
			contains: "not allowed on a method",
		},
		{
			name:     "embedded interface",
			body:     `context.Context`,
			contains: "embedded interfaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package users\n\nimport \"context\"\n\n//faux:client\ntype Svc interface {\n\t" + tt.body + "\n}\n"
			_, err := extractSource(t, src)
			require.Error(t, err)
			assert.ErrorIs(t, err, compiler.ErrCompile)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestExtract_TypeDirectiveMisuse(t *testing.T) {
	src := `package users

//faux:client
//faux:http GET /
type Svc interface{}
`
	_, err := extractSource(t, src)
	assert.ErrorContains(t, err, "not allowed on a type")
}

func TestLoad(t *testing.T) {
	// Disable go.work so the temp directory works as a standalone module
	t.Setenv("GOWORK", "off")
	dir := t.TempDir()

	files := map[string]string{
		"go.mod": "module example.com/pets\n\ngo 1.24\n",
		"pets.go": `package pets

import "context"

type Pet struct{ Name string }

//faux:client pets
type PetService interface {
	//faux:http GET /pets/{id}
	//faux:path id
	Get(ctx context.Context, id int) (Pet, error)
}
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	infos, err := Load(context.Background(), dir, "./...")
	require.NoError(t, err)
	require.Len(t, infos, 1)

	assert.Equal(t, "example.com/pets.PetService", infos[0].FullName())
	assert.Equal(t, "int", infos[0].Methods[0].Params[0].Type.String())
	assert.Equal(t, "pets.Pet", infos[0].Methods[0].Result.String())
}
