package compiler

import (
	"fmt"
	"strings"

	"github.com/okra-platform/faux/internal/contract"
)

// Classification is the role-tagged view of a method's parameters and
// return slot.
type Classification struct {
	Params         []*Parameter
	RequestHeaders []HeaderBinding
	ContentHeaders []HeaderBinding
	Body           *Parameter
	Return         ReturnSlot
}

var roleByAnnotation = map[contract.AnnotationKind]Role{
	contract.AnnotationPath:           RolePathVariable,
	contract.AnnotationQuery:          RoleQueryParam,
	contract.AnnotationHeader:         RoleRequestHeader,
	contract.AnnotationContentHeader:  RoleContentHeader,
	contract.AnnotationResponseHeader: RoleResponseHeader,
	contract.AnnotationBody:           RoleBody,
}

// Classify assigns exactly one role to every parameter of m and resolves
// its return slot. Header parameters accumulate into ordered request and
// content header mappings.
func Classify(contractName string, m contract.MethodInfo, shape Shape) (*Classification, error) {
	fail := func(param, format string, args ...any) *CompileError {
		return &CompileError{
			Contract:  contractName,
			Method:    m.Name,
			Parameter: param,
			Message:   fmt.Sprintf(format, args...),
			Pos:       m.Pos,
		}
	}

	c := &Classification{}
	requestSeen := make(map[string]bool)
	contentSeen := make(map[string]bool)

	for _, info := range m.Params {
		var roles []contract.Annotation
		for _, a := range info.Annotations {
			if contract.IsParameterRole(a.Kind) {
				roles = append(roles, a)
			}
		}

		switch len(roles) {
		case 0:
			return nil, fail(info.Name, "parameter has no role annotation")
		case 1:
		default:
			err := fail(info.Name, "parameter carries more than one role annotation")
			for _, a := range roles {
				err.Annotations = append(err.Annotations, annotationName(a.Kind))
			}
			return nil, err
		}

		a := roles[0]
		p := &Parameter{
			Name: info.Name,
			Type: info.Type,
			Role: roleByAnnotation[a.Kind],
			Key:  a.Arg(contract.ArgName),
		}
		if p.Key == "" {
			p.Key = info.Name
		}

		switch p.Role {
		case RoleRequestHeader:
			key := strings.ToLower(p.Key)
			if requestSeen[key] {
				return nil, fail(info.Name, "duplicate request header %q", p.Key)
			}
			requestSeen[key] = true
			c.RequestHeaders = append(c.RequestHeaders, HeaderBinding{Header: p.Key, Param: p})

		case RoleContentHeader:
			key := strings.ToLower(p.Key)
			if contentSeen[key] {
				return nil, fail(info.Name, "duplicate content header %q", p.Key)
			}
			contentSeen[key] = true
			c.ContentHeaders = append(c.ContentHeaders, HeaderBinding{Header: p.Key, Param: p})

		case RoleResponseHeader:
			if !p.Type.IsPointer() {
				return nil, fail(info.Name, "response header parameter must be a pointer, got %s", p.Type)
			}

		case RoleBody:
			if c.Body != nil {
				return nil, fail(info.Name, "only one body parameter is allowed, %s is already the body", c.Body.Name)
			}
			kind, err := parseBodyKind(a.Arg(contract.ArgKind))
			if err != nil {
				return nil, fail(info.Name, "%v", err)
			}
			p.Key = ""
			p.BodyKind = kind
			c.Body = p
		}

		c.Params = append(c.Params, p)
	}

	ret, err := classifyReturn(m, shape)
	if err != nil {
		err.Contract = contractName
		return nil, err
	}
	c.Return = ret

	return c, nil
}

// classifyReturn resolves the return slot. Both a body and a response
// header annotation on the slot is a compile error; neither means body.
func classifyReturn(m contract.MethodInfo, shape Shape) (ReturnSlot, *CompileError) {
	body, hasBody := contract.Find(m.ReturnAnnotations, contract.AnnotationReturnBody)
	header, hasHeader := contract.Find(m.ReturnAnnotations, contract.AnnotationReturnHeader)

	fail := func(msg string) *CompileError {
		return &CompileError{Method: m.Name, Message: msg, Pos: m.Pos}
	}

	if hasBody && hasHeader {
		err := fail("cannot have different types of response annotations")
		err.Annotations = []string{"Body", "ResponseHeader"}
		return ReturnSlot{}, err
	}

	if shape.Void && (hasBody || hasHeader) {
		return ReturnSlot{}, fail("void method cannot carry a return annotation")
	}

	if hasHeader {
		name := header.Arg(contract.ArgName)
		if name == "" {
			return ReturnSlot{}, fail("return header annotation requires a header name")
		}
		return ReturnSlot{Role: ReturnHeader, Header: name}, nil
	}

	kind, err := parseBodyKind(body.Arg(contract.ArgKind))
	if err != nil {
		return ReturnSlot{}, fail(err.Error())
	}
	if kind == BodyForm {
		return ReturnSlot{}, fail("form bodies cannot be returned")
	}
	return ReturnSlot{Role: ReturnBody, Kind: kind}, nil
}

func parseBodyKind(s string) (BodyKind, error) {
	switch BodyKind(strings.ToLower(s)) {
	case "", BodyJSON:
		return BodyJSON, nil
	case BodyText:
		return BodyText, nil
	case BodyRaw:
		return BodyRaw, nil
	case BodyForm:
		return BodyForm, nil
	default:
		return "", fmt.Errorf("unsupported body kind %q", s)
	}
}

func annotationName(kind contract.AnnotationKind) string {
	s := string(kind)
	return strings.ToUpper(s[:1]) + s[1:]
}
