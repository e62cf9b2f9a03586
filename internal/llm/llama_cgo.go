//go:build llama

package llm

// cgo link directives for the in-process backend.
//   - rpath $ORIGIN lets the loader find libllama.so next to the binary (./bin).
//   - -L${SRCDIR}/../../bin lets the linker find it at build time.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
