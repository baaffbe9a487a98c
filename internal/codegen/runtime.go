package codegen

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tinygo.org/x/go-llvm"
)

// runtimeShimSource is the embedded C runtime shim compiled fresh for every
// build and linked into the final executable (spec §4.7). Its ABI — symbol
// names, signatures and ownership rules — is the invariant; the source text
// itself is a build-time convenience and may be swapped for a prebuilt
// library without changing any emitted program's behaviour (spec §9).
const runtimeShimSource = `#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <sys/time.h>
#include <stdint.h>

void otter_std_io_print(const char* message) {
    if (message) {
        printf("%s", message);
        fflush(stdout);
    }
}

void otter_std_io_println(const char* message) {
    if (message) {
        printf("%s\n", message);
    } else {
        printf("\n");
    }
}

char* otter_std_io_read_line() {
    char* line = NULL;
    size_t len = 0;
    ssize_t read = getline(&line, &len, stdin);
    if (read == -1) {
        free(line);
        return NULL;
    }
    if (read > 0 && line[read-1] == '\n') {
        line[read-1] = '\0';
    }
    return line;
}

void otter_std_io_free_string(char* ptr) {
    if (ptr) {
        free(ptr);
    }
}

int64_t otter_std_time_now_ms() {
    struct timeval tv;
    gettimeofday(&tv, NULL);
    return (int64_t)tv.tv_sec * 1000 + tv.tv_usec / 1000;
}

char* otter_format_float(double value) {
    char* buffer = (char*)malloc(64);
    if (buffer) {
        snprintf(buffer, 64, "%.10g", value);
    }
    return buffer;
}

char* otter_format_int(int64_t value) {
    char* buffer = (char*)malloc(32);
    if (buffer) {
        snprintf(buffer, 32, "%lld", (long long)value);
    }
    return buffer;
}

char* otter_concat_strings(const char* s1, const char* s2) {
    if (!s1 || !s2) return NULL;
    size_t len1 = strlen(s1);
    size_t len2 = strlen(s2);
    char* result = (char*)malloc(len1 + len2 + 1);
    if (result) {
        strcpy(result, s1);
        strcat(result, s2);
    }
    return result;
}

void otter_free_string_ptr(char* ptr) {
    if (ptr) {
        free(ptr);
    }
}
`

// withExtension replaces path's extension with ext (without the leading
// dot), mirroring Rust's Path::with_extension used by the original compiler.
func withExtension(path, ext string) string {
	trimmed := strings.TrimSuffix(path, filepath.Ext(path))
	return trimmed + "." + ext
}

// emitObject writes the module's machine code to an object file derived
// from outputPath (spec §4.1 step 7).
func emitObject(tm llvm.TargetMachine, m llvm.Module, outputPath string) (string, error) {
	objectPath := withExtension(outputPath, "o")
	buf, err := tm.EmitToMemoryBuffer(m, llvm.ObjectFile)
	if err != nil {
		return "", wrapErr(KindToolchain, err, "failed to emit object file at %s", objectPath)
	}
	if err := os.WriteFile(objectPath, buf.Bytes(), 0o644); err != nil {
		return "", wrapErr(KindToolchain, err, "failed to write object file at %s", objectPath)
	}
	return objectPath, nil
}

// linkExecutable writes the runtime shim, compiles it, and links it with the
// user object file into outputPath (spec §4.1 step 8, §4.7). Best-effort
// cleanup of the three temporaries happens regardless of success, matching
// spec §5's "cleanup failure does not fail the build".
func linkExecutable(objectPath, outputPath string, enableLTO bool) error {
	runtimeC := withExtension(outputPath, "runtime.c")
	runtimeO := withExtension(outputPath, "runtime.o")

	defer func() {
		_ = os.Remove(runtimeC)
		_ = os.Remove(runtimeO)
		_ = os.Remove(objectPath)
	}()

	if err := os.WriteFile(runtimeC, []byte(runtimeShimSource), 0o644); err != nil {
		return wrapErr(KindToolchain, err, "failed to write runtime C source at %s", runtimeC)
	}

	compile := exec.Command("cc", "-c", runtimeC, "-o", runtimeO)
	if out, err := compile.CombinedOutput(); err != nil {
		return wrapErr(KindToolchain, err, "failed to compile runtime C file: %s", strings.TrimSpace(string(out)))
	}

	linkArgs := []string{objectPath, runtimeO, "-o", outputPath}
	if enableLTO {
		linkArgs = append(linkArgs, "-flto")
	}
	link := exec.Command("cc", linkArgs...)
	if out, err := link.CombinedOutput(); err != nil {
		return wrapErr(KindToolchain, err, "linker invocation failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
