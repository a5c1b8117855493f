package compiler

import "github.com/okra-platform/faux/internal/contract"

// Shape is the normalized return shape of a method
type Shape struct {
	Mode    CompletionMode
	Returns contract.TypeRef
	Void    bool
}

// AnalyzeReturn derives the completion mode and effective return shape from
// a declared result type. A result that is or embeds the async wrapper
// completes asynchronously; its first type argument, if any, is the value
// it carries, otherwise the method is void-asynchronous.
func AnalyzeReturn(declared contract.TypeRef) Shape {
	if !declared.DerivesFrom(contract.RuntimePackage, "Task") {
		return Shape{Mode: Sync, Returns: declared, Void: declared.IsVoid()}
	}

	wrapper := declared.Deref()
	if len(wrapper.Args) == 0 {
		return Shape{Mode: Async, Returns: contract.Void, Void: true}
	}

	inner := wrapper.Args[0]
	return Shape{Mode: Async, Returns: inner, Void: inner.IsVoid()}
}
