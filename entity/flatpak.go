package entity

type FlatpakRemote struct {
	Name string `yaml:"name"`
	Url  string `yaml:"url"`
}

type FlatpakPkg struct {
	App    string `yaml:"app"`
	Remote string `yaml:"remote"`
}

type Snap struct {
	Classic bool   `yaml:"classic"`
	Name    string `yaml:"name"`
}
