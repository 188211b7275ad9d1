package figma

import "testing"

func TestExtractFileID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "file path",
			url:  "https://www.figma.com/file/abc123XYZ/My-Design-File",
			want: "abc123XYZ",
		},
		{
			name: "design path",
			url:  "https://www.figma.com/design/q1w2e3r4t5/Landing-Page?node-id=0-1",
			want: "q1w2e3r4t5",
		},
		{
			name: "bare path without scheme",
			url:  "figma.com/file/zzz999",
			want: "zzz999",
		},
		{
			name:    "no recognizable path",
			url:     "https://www.figma.com/community/some-plugin",
			wantErr: true,
		},
		{
			name:    "empty",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFileID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got id %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
