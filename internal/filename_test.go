package internal

import "testing"

func TestArtifactExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "Compound tar suffix",
			filename: "nvim-linux64.tar.gz",
			want:     ".tar.gz",
		},
		{
			name:     "Debian package",
			filename: "code_1.90.0_amd64.deb",
			want:     ".deb",
		},
		{
			name:     "AppImage keeps case",
			filename: "Obsidian-1.5.12.AppImage",
			want:     ".AppImage",
		},
		{
			name:     "Upper case font",
			filename: "LATO-REGULAR.TTF",
			want:     ".TTF",
		},
		{
			name:     "Unrecognized",
			filename: "download",
			want:     "",
		},
		{
			name:     "Bare extension is not a name",
			filename: ".zip",
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArtifactExtension(tt.filename); got != tt.want {
				t.Errorf("ArtifactExtension() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandUserWithHome(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "Tilde prefix", path: "~/Downloads/Installers", want: "/home/kur/Downloads/Installers"},
		{name: "Bare tilde", path: "~", want: "/home/kur"},
		{name: "Absolute path", path: "/usr/share/fonts", want: "/usr/share/fonts"},
		{name: "Tilde inside path", path: "/opt/~x", want: "/opt/~x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandUserWithHome(tt.path, "/home/kur"); got != tt.want {
				t.Errorf("ExpandUserWithHome() = %v, want %v", got, tt.want)
			}
		})
	}
}
