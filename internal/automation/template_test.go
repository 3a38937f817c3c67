package automation

import "testing"

func TestRender(t *testing.T) {
	cases := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "Hi {{name}}",
			vars:     map[string]string{"name": "Sam"},
			want:     "Hi Sam",
		},
		{
			name:     "unresolved placeholder stays verbatim",
			template: "Hi {{name}}",
			vars:     map[string]string{},
			want:     "Hi {{name}}",
		},
		{
			name:     "partial resolution",
			template: "Hi {{name}}, your viewing at {{address}} is confirmed",
			vars:     map[string]string{"name": "Sam"},
			want:     "Hi Sam, your viewing at {{address}} is confirmed",
		},
		{
			name:     "repeated placeholder",
			template: "{{ref}} / {{ref}}",
			vars:     map[string]string{"ref": "W-42"},
			want:     "W-42 / W-42",
		},
		{
			name:     "nil vars",
			template: "plain text",
			vars:     nil,
			want:     "plain text",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.template, tc.vars); got != tc.want {
				t.Errorf("Render(%q, %v) = %q, want %q", tc.template, tc.vars, got, tc.want)
			}
		})
	}
}
