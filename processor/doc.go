// Package processor contains the engine that turns annotation declarations
// and usages in Java and Kotlin sources into typed values, and the runtime
// used by code that processes them.
//
// This package defines a function type, Processor, which is implemented by
// things that can process annotations.
//
//	func(ctx *Context, output processor.OutputFactory) error
//
// Processing is generally expected to validate annotation values and,
// optionally, generate code that is derived from the annotation values.
//
// If a processor returns an error, processing has failed and the error should
// indicate why. Validation errors should be constructed with
// processor.NewErrorWithPosition so that they can report locations in the
// source code, to aid users in resolving the error.
//
// The OutputFactory passed to the processor may be used to generate code. The
// factory can be used with the WriteGoFile function in the
// github.com/jhump/gopoet package, as the codegen package does.
//
// The remaining APIs and types in this package can be broken into three main
// categories: Processor Registration, Processor Invocation, and the Model.
//
// # Processor Registration
//
// Processor implementations can be registered with this package, under a
// unique name, using the RegisterProcessor function. Registered processors can
// later be looked up by name with RegisteredProcessor or SelectProcessors, or
// all at once with AllRegisteredProcessors. The annomodel command runs the
// registered processors in addition to its own code generator.
//
// # Processor Invocation
//
// Key among the invocation APIs is processor.Config. This struct defines the
// sources that will be processed, the processors that will be invoked, and
// the output factory (which controls where generated output files are
// actually written).
//
// After a processor.Config is constructed, its Execute method is used to
// actually invoke the configured processors. This involves parsing all
// sources, building a schema for every annotation declared in them, and then
// extracting an instance from every usage of those annotations. Once
// instances are extracted, they are passed to each configured processor, via
// the processor.Context.
//
// Problems in one declaration or usage do not stop the others from being
// processed. All problems are combined into the error returned from Execute;
// the Diagnostics function splits it back into individual errors. Each of
// those implements Diagnostic, which identifies the annotation, parameter,
// and source position involved.
//
// There are also some "shortcut" methods in this package: Process and
// ProcessAll. These functions create a processor.Config using the arguments
// given and using "typical" values for other settings and then call the
// resulting config's Execute method.
//
// # The Model
//
// Kind: The classification of a parameter's declared type. It is one of ten
// base kinds (boolean, byte, char, double, float, int, long, String, enum,
// and class), either as a scalar or as an array. ClassifyType computes it.
//
// AnnotationSchema: The ordered parameters of an annotation type, each with
// its kind and its Requirement. A Requirement is either Required, when the
// declaration has no default, or HasDefault, which holds the resolved default
// value. An empty array default is a HasDefault, never Required.
//
// AnnotationInstance: A usage of an annotation resolved against its schema.
// It holds a Value for every parameter: the one supplied at the usage, or
// else the default. Extract computes it.
//
// Value: A resolved constant, tagged with its kind and the source location
// where it was written. The Go representation of each kind matches the types
// in the annomodel runtime package.
//
// Render turns an instance into code, using a Syntax. JavaSyntax produces
// Java literals and GoSyntax produces Go expressions for the runtime
// package's types.
package processor
