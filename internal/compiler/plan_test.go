package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/faux/internal/contract"
)

// Test plan for BuildPlan:
// 1. GET with a path variable: bind, construct, invoke(sync), materialize(body)
// 2. POST with a body returning a future: construct, attach-body, invoke(async), materialize
// 3. Async void: plan ends at invoke(async)
// 4. Response header parameter: extract step before materialize
// 5. Conflicting return annotations: compile error, no plan
// 6. Generic contract: validation error, no methods analyzed
// 7. Full ordering with every role present
// 8. Content headers without a body are dropped
// 9. Rebuilding yields an identical plan

func compileOne(t *testing.T, m contract.MethodInfo) *Method {
	t.Helper()
	c, err := Compile(service(m))
	require.NoError(t, err)
	require.Len(t, c.Methods, 1)
	return c.Methods[0]
}

func TestBuildPlan_PathVariableGet(t *testing.T) {
	// Test: scenario get(id) -> User over GET /users/{id}
	m := compileOne(t, withParams(
		method("Get", userType(), httpAnn("GET", "/users/{id}")),
		param("id", str, ann(contract.AnnotationPath)),
	))

	assert.Equal(t, []StepKind{
		StepBindPathVariables,
		StepConstructRequest,
		StepInvoke,
		StepMaterializeReturn,
	}, m.Plan.Kinds())

	steps := m.Plan.Steps
	require.Len(t, steps[0].Bindings, 1)
	assert.Equal(t, "id", steps[0].Bindings[0].Key)
	assert.Equal(t, "GET", steps[1].Verb)
	assert.Equal(t, "/users/{id}", steps[1].Path)
	assert.Equal(t, Sync, steps[2].Mode)
	assert.Equal(t, ReturnBody, steps[3].Source)
	assert.Equal(t, BodyJSON, steps[3].BodyKind)
	assert.True(t, userType().Equal(steps[3].Type))
}

func TestBuildPlan_AsyncBodyPost(t *testing.T) {
	// Test: scenario create(body) -> Future[User] over POST /users
	m := compileOne(t, withParams(
		method("Create", contract.PointerTo(contract.FutureType(userType())), httpAnn("post", "/users")),
		param("body", userType(), ann(contract.AnnotationBody)),
	))

	assert.Equal(t, Async, m.Mode)
	assert.Equal(t, "POST", m.Verb)
	assert.Equal(t, []StepKind{
		StepConstructRequest,
		StepAttachBody,
		StepInvoke,
		StepMaterializeReturn,
	}, m.Plan.Kinds())
	assert.Equal(t, Async, m.Plan.Steps[2].Mode)
	assert.True(t, userType().Equal(m.Plan.Steps[3].Type))
}

func TestBuildPlan_AsyncVoid(t *testing.T) {
	// Test: scenario ping() -> Task is void and has no materialize step
	m := compileOne(t, method("Ping", contract.PointerTo(contract.TaskType()), httpAnn("HEAD", "/ping")))

	assert.True(t, m.Void)
	assert.Equal(t, Async, m.Mode)
	assert.Equal(t, []StepKind{StepConstructRequest, StepInvoke}, m.Plan.Kinds())
	assert.False(t, m.Plan.Has(StepMaterializeReturn))
}

func TestBuildPlan_ResponseHeaderBeforeMaterialize(t *testing.T) {
	// Test: scenario response-header("ETag") output parameter
	m := compileOne(t, withParams(
		method("Get", userType(), httpAnn("GET", "/users/{id}")),
		param("id", str, ann(contract.AnnotationPath)),
		param("etag", contract.PointerTo(str), ann(contract.AnnotationResponseHeader, contract.ArgName, "ETag")),
	))

	kinds := m.Plan.Kinds()
	require.Equal(t, []StepKind{
		StepBindPathVariables,
		StepConstructRequest,
		StepInvoke,
		StepExtractResponseHeader,
		StepMaterializeReturn,
	}, kinds)

	extract := m.Plan.Steps[3]
	assert.Equal(t, "ETag", extract.Header)
	assert.Equal(t, "etag", extract.Param.Name)
	assert.True(t, str.Equal(extract.Type), "extract converts to the pointer element type")
}

func TestBuildPlan_ConflictingReturnFails(t *testing.T) {
	// Test: scenario return slot with body and response header
	c, err := Compile(service(withReturn(
		method("Get", userType(), httpAnn("GET", "/users")),
		ann(contract.AnnotationReturnBody),
		ann(contract.AnnotationReturnHeader, contract.ArgName, "Location"),
	)))

	assert.Nil(t, c)
	var cerr *CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"Body", "ResponseHeader"}, cerr.Annotations)
}

func TestBuildPlan_GenericContract(t *testing.T) {
	// Test: scenario generic contract fails validation
	info := service(method("Get", userType(), httpAnn("GET", "/users")))
	info.TypeParams = []string{"T"}

	_, err := Compile(info)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ConstraintNonGeneric, verr.Constraint)
}

func fullMethod() contract.MethodInfo {
	return withReturn(withParams(
		method("Update", str, httpAnn("PUT", "/users/{id}/items/{item}")),
		param("trace", str, ann(contract.AnnotationHeader, contract.ArgName, "X-Trace")),
		param("item", contract.Basic("int"), ann(contract.AnnotationPath)),
		param("lang", str, ann(contract.AnnotationContentHeader, contract.ArgName, "Content-Language")),
		param("etag", contract.PointerTo(str), ann(contract.AnnotationResponseHeader, contract.ArgName, "ETag")),
		param("id", str, ann(contract.AnnotationPath)),
		param("user", userType(), ann(contract.AnnotationBody, contract.ArgKind, "form")),
		param("dry", contract.Basic("bool"), ann(contract.AnnotationQuery, contract.ArgName, "dryRun")),
		param("reqID", str, ann(contract.AnnotationHeader, contract.ArgName, "X-Request-Id")),
		param("rev", contract.PointerTo(contract.Basic("int")), ann(contract.AnnotationResponseHeader, contract.ArgName, "X-Revision")),
	), ann(contract.AnnotationReturnHeader, contract.ArgName, "Location"))
}

func TestBuildPlan_FullOrdering(t *testing.T) {
	// Test: every role present produces the canonical step order
	m := compileOne(t, fullMethod())

	expected := `1. bind-path-variables(item=item, id=id)
2. bind-query-params(dryRun=dry)
3. construct-request(PUT, "/users/{id}/items/{item}")
4. attach-request-header("X-Trace", trace)
5. attach-request-header("X-Request-Id", reqID)
6. attach-body(user, form)
7. attach-content-header("Content-Language", lang)
8. invoke(sync)
9. extract-response-header("ETag", etag, string)
10. extract-response-header("X-Revision", rev, int)
11. materialize-return(header "Location", string)
`
	assert.Equal(t, expected, m.Plan.String())
}

func TestBuildPlan_ContentHeadersNeedBody(t *testing.T) {
	// Test: content headers without a body produce no steps
	m := compileOne(t, withParams(
		method("List", contract.SliceOf(userType()), httpAnn("GET", "/users")),
		param("lang", str, ann(contract.AnnotationContentHeader, contract.ArgName, "Content-Language")),
	))

	assert.Len(t, m.ContentHeaders, 1)
	assert.False(t, m.Plan.Has(StepAttachContentHeader))
	assert.False(t, m.Plan.Has(StepAttachBody))
}

func TestBuildPlan_Deterministic(t *testing.T) {
	// Test: rebuilding and recompiling yield identical plans
	first := compileOne(t, fullMethod())
	rendered := first.Plan.String()

	for i := 0; i < 20; i++ {
		again := compileOne(t, fullMethod())
		assert.Equal(t, rendered, again.Plan.String())
		assert.Equal(t, rendered, BuildPlan(first).String())
	}
}
