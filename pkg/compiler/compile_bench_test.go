package compiler

import (
	"strings"
	"testing"
)

// BenchmarkCompile_Flat measures straight-line translation.
func BenchmarkCompile_Flat(b *testing.B) {
	src := strings.Repeat("+>-<.,", 1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(src, 0); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCompile_DeepNesting measures recursion cost for 500 nested loops.
func BenchmarkCompile_DeepNesting(b *testing.B) {
	src := strings.Repeat("[+", 500) + strings.Repeat("-]", 500)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(src, 0); err != nil {
			b.Fatal(err)
		}
	}
}
