package compiler

import "github.com/okra-platform/faux/internal/contract"

const usersPkg = "example.com/users"

func userType() contract.TypeRef {
	return contract.Named(usersPkg, "users", "User")
}

func ann(kind contract.AnnotationKind, args ...string) contract.Annotation {
	a := contract.Annotation{Kind: kind, Args: map[string]string{}}
	for i := 0; i+1 < len(args); i += 2 {
		a.Args[args[i]] = args[i+1]
	}
	return a
}

func httpAnn(verb, path string) contract.Annotation {
	return ann(contract.AnnotationHTTP, contract.ArgMethod, verb, contract.ArgPath, path)
}

func param(name string, typ contract.TypeRef, anns ...contract.Annotation) contract.ParamInfo {
	return contract.ParamInfo{Name: name, Type: typ, Annotations: anns}
}

func service(methods ...contract.MethodInfo) contract.TypeInfo {
	return contract.TypeInfo{
		Name:        "UserService",
		Package:     usersPkg,
		PackageName: "users",
		Interface:   true,
		Public:      true,
		Annotations: []contract.Annotation{
			ann(contract.AnnotationClient, contract.ArgName, "users", contract.ArgRoute, "api/v1"),
		},
		Methods: methods,
	}
}

func method(name string, result contract.TypeRef, anns ...contract.Annotation) contract.MethodInfo {
	return contract.MethodInfo{Name: name, Context: true, Result: result, Annotations: anns}
}

func withParams(m contract.MethodInfo, params ...contract.ParamInfo) contract.MethodInfo {
	m.Params = params
	return m
}

func withReturn(m contract.MethodInfo, anns ...contract.Annotation) contract.MethodInfo {
	m.ReturnAnnotations = anns
	return m
}
