package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_MutualRecursionRequiresForwardDeclaration(t *testing.T) {
	err := mustAnalyze(t, `int isEven(int n);
		int isOdd(int n) { return n == 0 ? 0 : isEven(n - 1); }
		int isEven(int n) { return n == 0 ? 1 : isOdd(n - 1); }`)
	require.Nil(t, err)
}

func TestAnalyzer_NestedScopesDoNotLeakVariables(t *testing.T) {
	err := mustAnalyze(t, `int main() {
		{
			int f = 1;
		}
		return f();
	}
	int f() { return 0; }`)
	require.NotNil(t, err)
	assert.Equal(t, UndeclaredCall, err.Reason)
}

func TestAnalyzer_ArityZeroIsTracked(t *testing.T) {
	err := mustAnalyze(t, `int f() { return 1; } int main() { return f(1); }`)
	require.NotNil(t, err)
	assert.Equal(t, ArityMismatch, err.Reason)
	assert.Equal(t, "f", err.Name)
}
