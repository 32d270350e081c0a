package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteTaskShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"scheduler"},
			want: []string{"scheduler"},
		},
		{
			name: "verb first",
			in:   []string{"scheduler", "add", "Buy", "milk"},
			want: []string{"scheduler", "tasks", "add", "Buy", "milk"},
		},
		{
			name: "ls maps to list",
			in:   []string{"scheduler", "ls", "--active"},
			want: []string{"scheduler", "tasks", "list", "--active"},
		},
		{
			name: "after value flag",
			in:   []string{"scheduler", "--format", "yaml", "done", "t1"},
			want: []string{"scheduler", "--format", "yaml", "tasks", "done", "t1"},
		},
		{
			name: "after equals flag",
			in:   []string{"scheduler", "--config=./c.yaml", "rm", "t1"},
			want: []string{"scheduler", "--config=./c.yaml", "tasks", "rm", "t1"},
		},
		{
			name: "after bool flag",
			in:   []string{"scheduler", "--pretty", "complete-all"},
			want: []string{"scheduler", "--pretty", "tasks", "complete-all"},
		},
		{
			name: "after double dash",
			in:   []string{"scheduler", "--", "star", "t1"},
			want: []string{"scheduler", "--", "tasks", "star", "t1"},
		},
		{
			name: "explicit tasks command untouched",
			in:   []string{"scheduler", "tasks", "add", "x"},
			want: []string{"scheduler", "tasks", "add", "x"},
		},
		{
			name: "other command untouched",
			in:   []string{"scheduler", "serve", "--addr", ":9000"},
			want: []string{"scheduler", "serve", "--addr", ":9000"},
		},
		{
			name: "value flag value is not a verb",
			in:   []string{"scheduler", "--format", "done"},
			want: []string{"scheduler", "--format", "done"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rewriteTaskShortcutArgs(tt.in))
		})
	}
}
