package datakey

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    Key
		wantErr bool
	}{
		{
			name: "chat key takes last segment as group id",
			raw:  "chat,12",
			want: Key{Kind: KindChat, Raw: "chat,12", GroupID: 12},
		},
		{
			name: "chat key with extra segments still uses the last one",
			raw:  "chat,group,345",
			want: Key{Kind: KindChat, Raw: "chat,group,345", GroupID: 345},
		},
		{
			name:    "chat key with non-numeric group id",
			raw:     "chat,abc",
			wantErr: true,
		},
		{
			name: "notes key keeps the remainder as class ref",
			raw:  "notes,5",
			want: Key{Kind: KindNote, Raw: "notes,5", ClassRef: "5"},
		},
		{
			name: "notes key accepts resource ids with commas",
			raw:  "notes,gen-2021,v2",
			want: Key{Kind: KindNote, Raw: "notes,gen-2021,v2", ClassRef: "gen-2021,v2"},
		},
		{
			name:    "notes key with empty ref",
			raw:     "notes,",
			wantErr: true,
		},
		{
			name: "answer key parses class ref and week",
			raw:  "answer,103,2",
			want: Key{Kind: KindAnswer, Raw: "answer,103,2", ClassRef: "103", Week: 2},
		},
		{
			name:    "answer key without week",
			raw:     "answer,103",
			wantErr: true,
		},
		{
			name:    "answer key with non-numeric week",
			raw:     "answer,103,two",
			wantErr: true,
		},
		{
			name: "everything else is generic",
			raw:  "settings",
			want: Key{Kind: KindGeneric, Raw: "settings"},
		},
		{
			name: "prefix must match exactly to leave the generic branch",
			raw:  "chatter,1",
			want: Key{Kind: KindGeneric, Raw: "chatter,1"},
		},
		{
			name: "empty key is generic",
			raw:  "",
			want: Key{Kind: KindGeneric, Raw: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.raw)
			if tt.wantErr {
				if err != ErrMalformed {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
