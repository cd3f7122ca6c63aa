package models

// SiteConfig is the editor-facing schema read from the blog repo's
// admin/config.yml. It tells the CMS where media lives and what collections
// of content exist.
type SiteConfig struct {
	MediaFolder  string       `yaml:"media_folder"`
	PublicFolder string       `yaml:"public_folder"`
	Collections  []Collection `yaml:"collections"`
}

type Collection struct {
	Name         string  `yaml:"name"`
	Label        string  `yaml:"label"`
	Folder       string  `yaml:"folder"`
	Extension    string  `yaml:"extension"`
	MediaFolder  string  `yaml:"media_folder,omitempty"`
	PublicFolder string  `yaml:"public_folder,omitempty"`
	Fields       []Field `yaml:"fields"`
}

type Field struct {
	Name    string      `yaml:"name"`
	Widget  string      `yaml:"widget"`
	Default interface{} `yaml:"default,omitempty"`
}
