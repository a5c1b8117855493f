package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersIDL = `@faux(namespace: "clients", version: "1")

"A directory user."
type User {
  id: ID!
  name: String!
  email: String
  tags: [String!]!
  role: Role
}

enum Role {
  ADMIN
  "Regular member."
  MEMBER
}

"Talks to the user directory."
service UserService @client(name: "users", route: "api/v1") {
  get(id: String! @path): User! @http(method: GET, path: "/users/{id}")
  create(user: User! @body(kind: "json")): User! @http(method: POST, path: "/users") @async
  ping: Void @http(method: HEAD, path: "/ping") @async
  tag(id: String! @path, etag: String @responseHeader(name: "ETag")): Void @http(method: PUT, path: "/users/{id}/tag")
  locate(id: String! @path): String! @http(method: POST, path: "/users/{id}") @returnHeader(name: "Location")
  search(q: String @query(name: "query"), limit: Int = 10 @query, trace: String! @header(name: "X-Trace")): [User!]! @http(method: GET, path: "/users")
}
`

func TestParseSchema_BasicTypes(t *testing.T) {
	// Test plan:
	// - Parse object types and enums
	// - Verify field types, list types and required flags
	// - Verify descriptions

	schema, err := ParseSchema(usersIDL)
	require.NoError(t, err)

	require.Len(t, schema.Types, 1)
	require.Len(t, schema.Enums, 1)
	require.Len(t, schema.Services, 1)

	user := schema.Types[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, "A directory user.", user.Doc)
	require.Len(t, user.Fields, 5)

	assert.Equal(t, "ID", user.Fields[0].Type)
	assert.True(t, user.Fields[0].Required)
	assert.Equal(t, "String", user.Fields[2].Type)
	assert.False(t, user.Fields[2].Required)

	// Test: list fields keep the element type
	assert.Equal(t, "[String]", user.Fields[3].Type)
	assert.True(t, user.Fields[3].Required)

	role := schema.Enums[0]
	assert.Equal(t, "Role", role.Name)
	require.Len(t, role.Values, 2)
	assert.Equal(t, "ADMIN", role.Values[0].Name)
	assert.Equal(t, "Regular member.", role.Values[1].Doc)
}

func TestParseSchema_Metadata(t *testing.T) {
	schema, err := ParseSchema(usersIDL)
	require.NoError(t, err)

	assert.Equal(t, "clients", schema.Meta.Namespace)
	assert.Equal(t, "1", schema.Meta.Version)

	// Test: the synthetic _Schema type is not a model
	for _, typ := range schema.Types {
		assert.NotEqual(t, "_Schema", typ.Name)
	}
}

func TestParseSchema_Services(t *testing.T) {
	// Test plan:
	// - Service name, doc and service-level directives
	// - Every argument becomes a parameter in order with its directives
	// - Method directives with enum, string and int arguments
	// - Void results and argument-less methods

	schema, err := ParseSchema(usersIDL)
	require.NoError(t, err)

	svc := schema.Services[0]
	assert.Equal(t, "UserService", svc.Name)
	assert.Equal(t, "Talks to the user directory.", svc.Doc)
	assert.Empty(t, svc.TypeParams)

	client, ok := FindDirective(svc.Directives, "client")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"name": "users", "route": "api/v1"}, client.Args)

	require.Len(t, svc.Methods, 6)

	get := svc.Methods[0]
	assert.Equal(t, "get", get.Name)
	assert.Equal(t, "User", get.OutputType)
	assert.True(t, get.OutputRequired)
	require.Len(t, get.Params, 1)
	assert.Equal(t, "id", get.Params[0].Name)
	assert.True(t, HasDirective(get.Params[0].Directives, "path"))

	httpDir, ok := FindDirective(get.Directives, "http")
	require.True(t, ok)
	assert.Equal(t, "GET", httpDir.Args["method"])
	assert.Equal(t, "/users/{id}", httpDir.Args["path"])

	create := svc.Methods[1]
	assert.True(t, HasDirective(create.Directives, "async"))
	body, _ := FindDirective(create.Params[0].Directives, "body")
	assert.Equal(t, "json", body.Args["kind"])

	ping := svc.Methods[2]
	assert.Equal(t, "Void", ping.OutputType)
	assert.Empty(t, ping.Params)

	search := svc.Methods[5]
	require.Len(t, search.Params, 3)
	assert.Equal(t, []string{"q", "limit", "trace"}, []string{search.Params[0].Name, search.Params[1].Name, search.Params[2].Name})
	assert.Equal(t, "[User]", search.OutputType)
	header, _ := FindDirective(search.Params[2].Directives, "header")
	assert.Equal(t, "X-Trace", header.Args["name"])
}

func TestParseSchema_GenericAndInternal(t *testing.T) {
	input := `
service Repo<T> {
  get(id: String! @path): T @http(method: GET, path: "/{id}")
}

service Hidden @internal {
  ping: Void @http(method: GET, path: "/ping")
}`

	schema, err := ParseSchema(input)
	require.NoError(t, err)
	require.Len(t, schema.Services, 2)

	// Test: type parameters are lifted out of the directive list
	assert.Equal(t, []string{"T"}, schema.Services[0].TypeParams)
	assert.False(t, HasDirective(schema.Services[0].Directives, "typeParams"))

	assert.True(t, HasDirective(schema.Services[1].Directives, "internal"))
}

func TestParseSchema_DirectiveValues(t *testing.T) {
	input := `
type Config {
  a: String @meta(s: "text", i: 42, b: true, f: 1.5, e: RED)
}`

	schema, err := ParseSchema(input)
	require.NoError(t, err)

	args := schema.Types[0].Fields[0].Directives[0].Args
	assert.Equal(t, "text", args["s"])
	assert.Equal(t, "42", args["i"])
	assert.Equal(t, "true", args["b"])
	assert.Equal(t, "1.5", args["f"])
	assert.Equal(t, "RED", args["e"])
}

func TestParseSchema_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed type", `type User { id: ID!`},
		{"missing field type", `type User { id: }`},
		{"bad directive", `type User { id: ID! @ }`},
		{"arguments on model field", `type User { friends(first: Int): [User] }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema(tt.input)
			assert.Error(t, err)
		})
	}
}
