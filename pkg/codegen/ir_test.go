package codegen

import (
	"errors"
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.stride.dev/pkg"
)

func TestValueLookup(t *testing.T) {
	vals := NewValueLookup()

	val1 := constant.NewInt(types.I64, 1)
	val2 := constant.NewInt(types.I64, 2)

	vals.Set("id1", val1)
	vals.Set("id2", val2)

	got, ok := vals.Get("id1")
	assert.True(t, ok)
	assert.Equal(t, val1, got)

	got, ok = vals.Get("id2")
	assert.True(t, ok)
	assert.Equal(t, val2, got)

	_, ok = vals.Get("id3")
	assert.False(t, ok)
}

func generate(t *testing.T, src string) string {
	t.Helper()

	ast, err := stride.Parse(src)
	require.NoError(t, err)

	mod, err := Generate(ast, Options{})
	require.NoError(t, err)

	return mod.String()
}

func TestGenerate(t *testing.T) {
	cases := []struct {
		src    string
		expect []string
	}{
		{
			"",
			[]string{"define i32 @main()", "ret i32 0", "define void @print(i64 %v)", "declare i32 @printf("},
		},
		{
			"x = 1 + 2 * 3\ny = x / 2 - x",
			[]string{"%x.addr = alloca i64", "%y.addr = alloca i64", "store i64 0, ", "add i64", "sdiv i64", "sub i64", "load i64, "},
		},
		{
			"x = 1\nif 1 == 2 == 0: print(x)",
			[]string{"icmp eq i64 1, 2", "zext i1", "to i64", "if.then.1:"},
		},
		{
			"x = 3\nif x > 2: print(x) else: print(0)",
			[]string{"icmp sgt i64", "br i1", "if.then.1:", "if.else.1:", "if.end.1:", "call void @print(i64"},
		},
		{
			"n = 10\nwhile n: n = n - 1",
			[]string{"while.cond.1:", "while.body.1:", "while.end.1:", "icmp ne i64", "br label %while.cond.1"},
		},
		{
			"a = 1\nif a != 2: f(a, 2)\ng()",
			[]string{"icmp ne i64", "declare i64 @f(i64", "declare i64 @g()", "call i64 @f(", "call i64 @g()"},
		},
		{
			"if 1 < 2:\n    x = 1\nprint(x)",
			[]string{"icmp slt i64 1, 2", "%x.addr = alloca i64"},
		},
	}

	for _, c := range cases {
		out := generate(t, c.src)
		for _, want := range c.expect {
			assert.Contains(t, out, want, c.src)
		}
	}
}

func TestGenerateOptions(t *testing.T) {
	mod, err := Generate(&stride.AST{}, Options{
		TargetTriple:   "x86_64-pc-linux-gnu",
		SourceFilename: "main.st",
	})
	require.NoError(t, err)

	assert.Equal(t, "x86_64-pc-linux-gnu", mod.TargetTriple)
	assert.Equal(t, "main.st", mod.SourceFilename)
	assert.Contains(t, mod.String(), `target triple = "x86_64-pc-linux-gnu"`)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("undefined variable", func(t *testing.T) {
		ast, err := stride.Parse("x = 1\ny = x + z")
		require.NoError(t, err)

		_, err = Generate(ast, Options{})

		var undefined *UndefinedError
		require.True(t, errors.As(err, &undefined))
		assert.Equal(t, "z", undefined.Name)
		assert.Equal(t, stride.Position{Offset: 14, Line: 2, Column: 9}, undefined.Pos)
	})

	t.Run("read in loop condition before assignment", func(t *testing.T) {
		ast, err := stride.Parse("while i < 3: i = i + 1")
		require.NoError(t, err)

		_, err = Generate(ast, Options{})

		var undefined *UndefinedError
		require.True(t, errors.As(err, &undefined))
		assert.Equal(t, "i", undefined.Name)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		ast, err := stride.Parse("f(1)\nf(1, 2)")
		require.NoError(t, err)

		_, err = Generate(ast, Options{})

		var arity *ArityError
		require.True(t, errors.As(err, &arity))
		assert.Equal(t, "f", arity.Name)
		assert.Equal(t, 1, arity.Want)
		assert.Equal(t, 2, arity.Got)
	})

	t.Run("builtin arity", func(t *testing.T) {
		ast, err := stride.Parse("print()")
		require.NoError(t, err)

		_, err = Generate(ast, Options{})

		var arity *ArityError
		require.True(t, errors.As(err, &arity))
		assert.Equal(t, 1, arity.Want)
		assert.Equal(t, 0, arity.Got)
	})

	t.Run("reserved name", func(t *testing.T) {
		for _, src := range []string{"main()", "printf(1)"} {
			ast, err := stride.Parse(src)
			require.NoError(t, err)

			_, err = Generate(ast, Options{})

			var reserved *ReservedError
			assert.True(t, errors.As(err, &reserved), src)
		}
	})
}
