package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// reservedNames can't be called from a program: they are emitted by the
// generator itself.
var reservedNames = map[string]bool{
	"main":   true,
	"printf": true,
}

func defineBuiltins(b *LLVMIRBuilder) {
	defineBuiltinFunc(b, "print", builtinPrint)
}

type funcDefinition = func(mod *ir.Module) *ir.Func

func defineBuiltinFunc(b *LLVMIRBuilder, name string, definition funcDefinition) {
	f := definition(b.mod)
	f.SetName(name)
	b.funcs.Set(name, f)
}

// builtinPrint writes its i64 argument and a newline through printf.
func builtinPrint(mod *ir.Module) *ir.Func {
	f := mod.NewFunc("", types.Void, ir.NewParam("v", types.I64))
	b := f.NewBlock("")

	printf := mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	zero := constant.NewInt(types.I64, 0)

	format := constant.NewCharArrayFromString("%ld\n\x00")
	formatGlob := mod.NewGlobalDef("._printf_fmt", format)

	fmtAddr := constant.NewGetElementPtr(format.Typ, formatGlob, zero, zero)

	b.NewCall(printf, fmtAddr, f.Params[0])

	b.NewRet(nil)

	return f
}
