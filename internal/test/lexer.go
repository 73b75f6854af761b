package test

import (
	"math/rand"
	"strings"
)

const validStatements = "x = 1;y = x + 2 * (3 - x);total = total + y / 4;print(x);f(a, b, 12);g();# a comment;" +
	"if x < y: x = y;if a == b: f(a) else: g(b);while n > 0: n = n - 1;while a != b: a = a + 1"

var validBlockHeads = []string{"if x < 10:", "while n > 0:", "if a == b == c:"}

// GetRandomProgram returns a valid program with size single-line statements.
func GetRandomProgram(size int) string {
	return GetRandomProgramWithSep(size, "\n")
}

func GetRandomProgramWithSep(size int, sep string) string {
	valid := strings.Split(validStatements, ";")

	var stmts []string
	for len(stmts) < size {
		stmts = append(stmts, valid[rand.Intn(len(valid))])
	}

	return strings.Join(stmts, sep)
}

// GetRandomIndentedProgram returns a valid program of size statements where
// every few statements are nested in an indented block.
func GetRandomIndentedProgram(size int) string {
	valid := strings.Split(validStatements, ";")

	var b strings.Builder
	for n := 0; n < size; n++ {
		if n%4 == 0 {
			b.WriteString(validBlockHeads[rand.Intn(len(validBlockHeads))])
			b.WriteByte('\n')
		}

		b.WriteString("    ")
		b.WriteString(valid[rand.Intn(len(valid))])
		b.WriteByte('\n')
	}

	return b.String()
}
