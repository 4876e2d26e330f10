package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/engine/environment"
)

func TestExpand(t *testing.T) {
	env := environment.Flatten(environment.Layer{
		Name: "test",
		Vars: []domain.Assignment{
			{Name: "FOO", Value: "bar"},
			{Name: "FOOBAR", Value: "baz"},
			{Name: "BUILD_DIR", Value: "/build/core"},
			{Name: "EMPTY", Value: ""},
		},
	})

	tests := []struct {
		name    string
		command string
		want    string
	}{
		{
			name:    "all three forms",
			command: "echo $ENV{FOO} ${FOO} $FOO",
			want:    "echo bar bar bar",
		},
		{
			name:    "longer name is not partially matched",
			command: "echo $FOOBAR $FOO",
			want:    "echo baz bar",
		},
		{
			name:    "braced form adjacent to text",
			command: "cmake -B ${BUILD_DIR}/release",
			want:    "cmake -B /build/core/release",
		},
		{
			name:    "bare form stops at non identifier",
			command: "cd $BUILD_DIR/sub",
			want:    "cd /build/core/sub",
		},
		{
			name:    "unresolved tokens are kept",
			command: "echo $ENV{MISSING} ${MISSING} $MISSING",
			want:    "echo $ENV{MISSING} ${MISSING} $MISSING",
		},
		{
			name:    "set but empty variable expands to nothing",
			command: "echo [$EMPTY]",
			want:    "echo []",
		},
		{
			name:    "lone dollar is untouched",
			command: "echo $ 5$",
			want:    "echo $ 5$",
		},
		{
			name:    "no tokens",
			command: "make -j8",
			want:    "make -j8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, environment.Expand(tt.command, env))
		})
	}
}
