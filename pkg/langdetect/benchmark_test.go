package langdetect

import (
	"testing"
)

func BenchmarkDetectCpp(b *testing.B) {
	code := []byte(`#include <iostream>

int main() {
    std::cout << "Hello, World!" << std::endl;
}`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkDetectPython(b *testing.B) {
	code := []byte(`def hello():
    print("Hello, World!")

if __name__ == "__main__":
    hello()`)
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}

func BenchmarkForPath(b *testing.B) {
	b.ResetTimer()
	for range b.N {
		ForPath("boost/example.hpp", nil)
	}
}

func BenchmarkDetectEmpty(b *testing.B) {
	code := []byte("")
	b.ResetTimer()
	for range b.N {
		Detect(code)
	}
}
