package nb3

import (
	"testing"

	"golang.org/x/text/encoding/japanese"
)

func TestName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{index: 0, want: "上杉謙信"},
		{index: 2, want: "武田信玄"},
		{index: 11, want: "織田信長"},
		{index: 40, want: ""},
		{index: 155, want: "金森長近"},
		{index: 156, want: ""},
		{index: 157, want: ""},
		{index: -1, want: ""},
	}
	for _, tt := range tests {
		if got := Name(tt.index); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}

	if NumNames() != 157 {
		t.Errorf("NumNames() = %d, want 157", NumNames())
	}
}

func TestOutputName(t *testing.T) {
	type args struct {
		archive  string
		index    int
		named    bool
		encoding string
	}
	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			name: "plain archive",
			args: args{archive: "Kao2.nb3", index: 7},
			want: "Kao2.nb3.007.bmp",
		},
		{
			name: "directories are dropped",
			args: args{archive: "/games/nb3/Kao3.nb3", index: 120},
			want: "Kao3.nb3.120.bmp",
		},
		{
			name: "named archive",
			args: args{archive: "Kao.nb3", index: 2, named: true, encoding: "utf-8"},
			want: "Kao.nb3.002武田信玄.bmp",
		},
		{
			name: "named archive with an unnamed track",
			args: args{archive: "Kao.nb3", index: 40, named: true},
			want: "Kao.nb3.040.bmp",
		},
		{
			name: "track past the end of the table",
			args: args{archive: "Kao.nb3", index: 1000, named: true},
			want: "Kao.nb3.1000.bmp",
		},
		{
			name:    "unsupported encoding",
			args:    args{archive: "Kao.nb3", index: 0, named: true, encoding: "latin1"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputName(tt.args.archive, tt.args.index, tt.args.named, tt.args.encoding)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OutputName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("OutputName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputName_ShiftJIS(t *testing.T) {
	got, err := OutputName("Kao.nb3", 11, true, "shift_jis")
	if err != nil {
		t.Fatalf("OutputName() returned error: %v", err)
	}

	decoded, err := japanese.ShiftJIS.NewDecoder().String(got)
	if err != nil {
		t.Fatalf("error decoding Shift-JIS name: %v", err)
	}
	if want := "Kao.nb3.011織田信長.bmp"; decoded != want {
		t.Errorf("OutputName() decoded = %q, want %q", decoded, want)
	}
}
